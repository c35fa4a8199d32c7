// Package common defines shared constants and sentinel errors used across
// ImgVault packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Auth collaborator errors. Their text reaches the user unchanged.
	ErrorUnauthorized      = errors.New("the email address or password is incorrect")
	ErrEmailTaken          = errors.New("the email address is already in use by another account")
	ErrInvalidEmail        = errors.New("the email address is badly formatted")
	ErrWeakPassword        = errors.New("password should be at least 6 characters")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("your session has expired, please sign in again")
	ErrNotSignedIn         = errors.New("please sign in first")

	// ErrAuth marks any rejection coming back from the auth collaborator.
	ErrAuth = errors.New("auth error")

	// Blob collaborator errors.
	ErrInvalidLocator = errors.New("invalid blob locator")
)

// Package models holds the data types shared by the ImgVault client:
// auth users and sessions, stored image records, the upload queue and the
// view models rendered by the shell.
package models

import "time"

// User is an account known to the auth provider. Salt and Verifier are only
// populated by the provider's own storage layer.
type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}

// Session mirrors the last auth state change seen by the gate.
type Session struct {
	SignedIn bool
	UserID   string
}

// Profile is the per-user document written after account creation.
type Profile struct {
	UserID string
	Email  string
}

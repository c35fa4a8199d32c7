package services

import "github.com/dmitrijs2005/imgvault/internal/common"

// ValidationError is a form rejected before any collaborator call. Msg is
// shown to the user as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthError is a rejection from the auth collaborator. Its message is the
// collaborator's, unchanged; errors.Is matches both common.ErrAuth and the
// underlying error.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return e.Err.Error() }

func (e *AuthError) Unwrap() []error { return []error{common.ErrAuth, e.Err} }

// ActionError is a failed user action. Msg is what the user sees; Err is
// the cause, kept for logs and errors.Is.
type ActionError struct {
	Msg string
	Err error
}

func (e *ActionError) Error() string { return e.Msg }

func (e *ActionError) Unwrap() error { return e.Err }

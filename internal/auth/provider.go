// Package auth is the auth collaborator of the client: account creation,
// sign-in, sign-out and state-change notifications.
//
// LocalProvider keeps accounts in the SQL document database, issues a
// short-lived HS256 ID token plus a rotating refresh token, and notifies
// subscribers whenever the signed-in user changes.
package auth

import (
	"context"

	"github.com/dmitrijs2005/imgvault/internal/models"
)

// Listener receives the current user after each auth state change; nil
// means signed out.
type Listener func(*models.User)

type Provider interface {
	// Subscribe registers l and immediately calls it with the current state.
	Subscribe(l Listener) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) (*models.User, error)
	CreateAccount(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context) error

	// CurrentUser returns nil, nil when nobody is signed in.
	CurrentUser(ctx context.Context) (*models.User, error)
}

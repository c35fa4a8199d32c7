// Package users declares the storage contract for accounts of the local auth
// provider and a SQL implementation of it.
package users

import (
	"context"

	"github.com/dmitrijs2005/imgvault/internal/models"
)

type Repository interface {
	// Create stores user, assigning ID and CreatedAt. A duplicate email
	// yields common.ErrEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns common.ErrorNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Package profiles stores the per-user profile document.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/imgvault/internal/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no profile.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates or replaces the profile keyed by p.UserID.
	Upsert(ctx context.Context, p *models.Profile) error
}

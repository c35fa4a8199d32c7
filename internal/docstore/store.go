// Package docstore is the document collaborator: per-user profile documents
// and the users/{uid}/images collection.
package docstore

import (
	"context"

	"github.com/dmitrijs2005/imgvault/internal/models"
)

// Store is consumed by the services; the record ID and upload timestamp are
// always assigned by the store, never by the caller.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	SetProfile(ctx context.Context, p *models.Profile) error

	AddImage(ctx context.Context, userID, downloadURL string) (*models.ImageRecord, error)
	ListImages(ctx context.Context, userID string) ([]models.ImageRecord, error)
	FindImagesByURL(ctx context.Context, userID, downloadURL string) ([]models.ImageRecord, error)
	DeleteImage(ctx context.Context, userID, id string) error
}

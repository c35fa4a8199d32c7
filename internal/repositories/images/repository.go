// Package images stores ImageRecords under the owning user's namespace.
package images

import (
	"context"

	"github.com/dmitrijs2005/imgvault/internal/models"
)

type Repository interface {
	// Create inserts rec as given; ID and DateUploaded must be set.
	Create(ctx context.Context, rec *models.ImageRecord) error
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.ImageRecord, error)
	// FindByURL returns every record of userID whose download URL equals url.
	FindByURL(ctx context.Context, userID, url string) ([]models.ImageRecord, error)
	// Delete removes one record. A missing record yields common.ErrorNotFound.
	Delete(ctx context.Context, userID, id string) error
}

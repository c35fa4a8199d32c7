package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/dmitrijs2005/imgvault/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// SQLStore implements Store on top of the SQL repositories.
type SQLStore struct {
	db  *sql.DB
	rm  repomanager.RepositoryManager
	now func() time.Time
}

func NewSQLStore(db *sql.DB, rm repomanager.RepositoryManager) *SQLStore {
	return &SQLStore{db: db, rm: rm, now: time.Now}
}

func (s *SQLStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.rm.Profiles(s.db).Get(ctx, userID)
}

func (s *SQLStore) SetProfile(ctx context.Context, p *models.Profile) error {
	return s.rm.Profiles(s.db).Upsert(ctx, p)
}

// AddImage stamps the record with the store clock.
func (s *SQLStore) AddImage(ctx context.Context, userID, downloadURL string) (*models.ImageRecord, error) {
	rec := &models.ImageRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		DownloadURL:  downloadURL,
		DateUploaded: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.rm.Images(s.db).Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) ListImages(ctx context.Context, userID string) ([]models.ImageRecord, error) {
	return s.rm.Images(s.db).ListByUser(ctx, userID)
}

func (s *SQLStore) FindImagesByURL(ctx context.Context, userID, downloadURL string) ([]models.ImageRecord, error) {
	return s.rm.Images(s.db).FindByURL(ctx, userID, downloadURL)
}

func (s *SQLStore) DeleteImage(ctx context.Context, userID, id string) error {
	return s.rm.Images(s.db).Delete(ctx, userID, id)
}

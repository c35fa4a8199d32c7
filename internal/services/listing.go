package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

// ListingService holds the image list of the signed-in user. Refresh runs
// on every visit of the list.
type ListingService struct {
	docs docstore.Store

	mu      sync.Mutex
	loading bool
	records []models.ImageRecord
}

func NewListingService(docs docstore.Store) *ListingService {
	return &ListingService{docs: docs}
}

// Refresh refetches every record of userID, newest first. On error the
// previous list is kept.
func (s *ListingService) Refresh(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	recs, err := s.docs.ListImages(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	s.records = recs
	return nil
}

// View renders the current state. An empty list reports Empty even while
// a refetch is running.
func (s *ListingService) View() models.ListingView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return models.ListingView{Empty: true}
	}
	if s.loading {
		return models.ListingView{Loading: true}
	}

	tiles := make([]models.Tile, len(s.records))
	for i, r := range s.records {
		side := models.SideLeft
		if i%2 == 1 {
			side = models.SideRight
		}
		tiles[i] = models.Tile{Record: r, Side: side}
	}
	return models.ListingView{Tiles: tiles}
}

// Records returns a copy of the last fetched list.
func (s *ListingService) Records() []models.ImageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ImageRecord(nil), s.records...)
}

// Reset forgets the list, e.g. after sign-out.
func (s *ListingService) Reset() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imgvault/internal/blobstore"
	"github.com/dmitrijs2005/imgvault/internal/device"
	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

const (
	MsgDeleteFailed     = "There was an error deleting this image. Please Try again."
	MsgDownloaded       = "Image downloaded successfully."
	MsgShareUnavailable = "Your device does not support sharing."
	MsgWebSaveYourself  = "Download and share are not available here. Open the link below and save the image from your browser."
)

var (
	ErrShareUnavailable = errors.New("sharing is not available")
	ErrNotOffered       = errors.New("action is not offered on this platform")
)

// LocalCache resolves blobs into local files. Implemented by cache.Cache.
type LocalCache interface {
	Resolve(ctx context.Context, locator string) (*models.LocalCacheEntry, error)
	Release(ctx context.Context, e *models.LocalCacheEntry) error
}

// DetailDeps are the collaborators of a DetailService.
type DetailDeps struct {
	Blobs    blobstore.Store
	Docs     docstore.Store
	Cache    LocalCache
	Library  device.MediaLibrary
	Sharer   device.Sharer
	Notifier device.Notifier
	Logger   logging.Logger
	// Web disables download and share.
	Web bool
}

// DetailService runs the actions of the image detail view.
type DetailService struct {
	d DetailDeps
}

func NewDetailService(d DetailDeps) *DetailService {
	return &DetailService{d: d}
}

// Offers reports whether download and share are available on this platform.
// Delete always is.
func (s *DetailService) Offers() (download, share bool) {
	return !s.d.Web, !s.d.Web
}

// ViewURL returns a link the user can open to see the image. Stores with
// private locators hand out a signed, time-limited URL.
func (s *DetailService) ViewURL(ctx context.Context, rec models.ImageRecord) (string, error) {
	signer, ok := s.d.Blobs.(blobstore.URLSigner)
	if !ok {
		return rec.DownloadURL, nil
	}
	key, err := s.d.Blobs.KeyFromLocator(rec.DownloadURL)
	if err != nil {
		return "", err
	}
	return signer.SignedURL(ctx, key)
}

// Delete removes the blob and then every record of the user pointing at it.
// A blob failure keeps the record and is returned as an *ActionError.
// Record deletion failures are only logged: the blob is already gone.
func (s *DetailService) Delete(ctx context.Context, rec models.ImageRecord) error {
	key, err := s.d.Blobs.KeyFromLocator(rec.DownloadURL)
	if err == nil {
		err = s.d.Blobs.Delete(ctx, key)
	}
	if err != nil {
		s.d.Logger.Error(ctx, "blob delete failed", "url", rec.DownloadURL, "error", err)
		return &ActionError{Msg: MsgDeleteFailed, Err: err}
	}

	matches, err := s.d.Docs.FindImagesByURL(ctx, rec.UserID, rec.DownloadURL)
	if err != nil {
		s.d.Logger.Error(ctx, "record lookup after blob delete failed", "url", rec.DownloadURL, "error", err)
		return nil
	}
	for _, m := range matches {
		if err := s.d.Docs.DeleteImage(ctx, m.UserID, m.ID); err != nil {
			s.d.Logger.Error(ctx, "record delete failed", "id", m.ID, "error", err)
		}
	}
	s.d.Logger.Info(ctx, "image deleted", "url", rec.DownloadURL, "records", len(matches))
	return nil
}

// Download saves a local copy of the image into the media library. The
// cache copy stays in place.
func (s *DetailService) Download(ctx context.Context, rec models.ImageRecord) error {
	if s.d.Web {
		return ErrNotOffered
	}

	e, err := s.d.Cache.Resolve(ctx, rec.DownloadURL)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}

	if err := s.d.Library.SaveToLibrary(ctx, e.Path); err != nil && !errors.Is(err, device.ErrUnsupportedFileType) {
		return fmt.Errorf("save to library: %w", err)
	}

	s.d.Notifier.Notify(MsgDownloaded)
	return nil
}

// Share hands a local copy to the share sheet. The copy is released on
// every path out.
func (s *DetailService) Share(ctx context.Context, rec models.ImageRecord) (err error) {
	if s.d.Web {
		return ErrNotOffered
	}

	e, err := s.d.Cache.Resolve(ctx, rec.DownloadURL)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer func() {
		if rerr := s.d.Cache.Release(ctx, e); rerr != nil {
			s.d.Logger.Warn(ctx, "cache release failed", "path", e.Path, "error", rerr)
		}
	}()

	if !s.d.Sharer.IsAvailable(ctx) {
		s.d.Notifier.Notify(MsgShareUnavailable)
		return ErrShareUnavailable
	}
	return s.d.Sharer.Share(ctx, e.Path)
}

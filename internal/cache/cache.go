// Package cache manages the client's local image cache: one directory,
// <CacheDir>/ImgVault/, holding downloaded copies of blobs.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/imgvault/internal/blobstore"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/filex"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/google/uuid"
)

type Cache struct {
	dir   string
	blobs blobstore.Store
	log   logging.Logger
}

// New returns a cache rooted at <parent>/ImgVault. The directory is created
// lazily by EnsureDir.
func New(parent string, blobs blobstore.Store, log logging.Logger) *Cache {
	return &Cache{dir: filepath.Join(parent, common.AppName), blobs: blobs, log: log}
}

func (c *Cache) Dir() string { return c.dir }

// EnsureDir creates the cache directory if needed. Idempotent.
func (c *Cache) EnsureDir() error {
	_, err := filex.EnsureDir(c.dir)
	return err
}

// Resolve downloads the blob behind locator into a fresh <uuid>.jpeg file.
// Names are never reused, so the existence check below never hits; a
// repeated request downloads again.
func (c *Cache) Resolve(ctx context.Context, locator string) (*models.LocalCacheEntry, error) {
	if err := c.EnsureDir(); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}

	key, err := c.blobs.KeyFromLocator(locator)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(c.dir, uuid.NewString()+common.ImageExtension)
	if ok, err := filex.Exists(path); err != nil {
		return nil, err
	} else if ok {
		return &models.LocalCacheEntry{Path: path}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	if err := c.blobs.Fetch(ctx, key, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	c.log.Debug(ctx, "cached image", "key", key, "path", path)
	return &models.LocalCacheEntry{Path: path}, nil
}

// Release deletes a cache entry. A missing file is not an error.
func (c *Cache) Release(ctx context.Context, e *models.LocalCacheEntry) error {
	if e == nil {
		return nil
	}
	if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	c.log.Debug(ctx, "released cached image", "path", e.Path)
	return nil
}

// Package blobstore is the blob collaborator: image bytes addressed by key,
// published under a locator (the download URL stored in image records).
package blobstore

import (
	"context"
	"io"
)

// ProgressFunc is called as bytes are transferred; total is the payload size.
type ProgressFunc func(sent, total int64)

type Store interface {
	// Put stores size bytes from r under key and returns the locator.
	Put(ctx context.Context, key string, r io.Reader, size int64, progress ProgressFunc) (string, error)
	// KeyFromLocator maps a locator back to its key or returns
	// common.ErrInvalidLocator.
	KeyFromLocator(locator string) (string, error)
	Delete(ctx context.Context, key string) error
	// Fetch writes the blob bytes into w.
	Fetch(ctx context.Context, key string, w io.Writer) error
}

// URLSigner is implemented by stores whose locators cannot be opened
// directly, e.g. a private S3 bucket. SignedURL returns a time-limited GET
// URL for key.
type URLSigner interface {
	SignedURL(ctx context.Context, key string) (string, error)
}

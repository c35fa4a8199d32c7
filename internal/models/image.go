package models

import "time"

// ImageRecord is one uploaded image as stored by the document collaborator.
// ID and DateUploaded are assigned by the store.
type ImageRecord struct {
	ID           string
	UserID       string
	DownloadURL  string
	DateUploaded time.Time
}

// PendingImage is a locally picked or captured image waiting for upload.
type PendingImage struct {
	LocalURI string
}

// LocalCacheEntry is a downloaded copy of a blob in the cache directory.
type LocalCacheEntry struct {
	Path string
}

// Side places a tile in the two-column grid.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

type Tile struct {
	Record ImageRecord
	Side   Side
}

// ListingView is what the image list renders. Empty wins over Loading.
type ListingView struct {
	Loading bool
	Empty   bool
	Tiles   []Tile
}

// BatchResult summarises one upload-all run.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
}

// Package device abstracts the local media facilities the client depends
// on: permissions, the image picker, the camera, the media library, the
// share sheet and user notifications. Terminal-backed implementations live
// next to the interfaces.
package device

import (
	"context"
	"errors"
)

var (
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsupportedFileType is reported by some media libraries after the
	// asset was in fact saved. Callers treat it as success.
	ErrUnsupportedFileType = errors.New("this file type is not supported yet")
)

// Permission names a device capability that needs user consent.
type Permission int

const (
	PermissionMediaLibrary Permission = iota
	PermissionCamera
)

func (p Permission) String() string {
	if p == PermissionCamera {
		return "camera"
	}
	return "media library"
}

type Permissions interface {
	Request(ctx context.Context, p Permission) (granted bool, err error)
}

// Picker lets the user choose an existing image. ok is false when the user
// cancelled.
type Picker interface {
	PickImage(ctx context.Context) (uri string, ok bool, err error)
}

// Camera captures a new image. ok is false when the user cancelled.
type Camera interface {
	Capture(ctx context.Context) (uri string, ok bool, err error)
}

type MediaLibrary interface {
	// SaveToLibrary imports the file at path as a new asset.
	SaveToLibrary(ctx context.Context, path string) error
}

type Sharer interface {
	IsAvailable(ctx context.Context) bool
	// Share blocks until the share sheet is dismissed.
	Share(ctx context.Context, path string) error
}

// Notifier shows a one-line message to the user.
type Notifier interface {
	Notify(msg string)
}

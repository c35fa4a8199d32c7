// Package logging is the structured logger shared by the ImgVault packages.
// SlogLogger is the only implementation; tests use Discard.
package logging

import "context"

// Logger takes a context and alternating key/value args:
//
//	log.Info(ctx, "upload finished", "succeeded", n, "failed", f)
type Logger interface {
	// Debug is for high-volume diagnostics such as upload progress.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn marks non-fatal failures, e.g. a profile that could not be written.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}

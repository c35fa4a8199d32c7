package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/logging"
)

// Blob backends understood by the shell.
const (
	BlobBackendS3    = "s3"
	BlobBackendLocal = "local"
)

// PlatformWeb disables download and share in the detail view.
const PlatformWeb = "web"

// Config holds runtime settings for the ImgVault shell.
//
// Fields:
//   - DatabaseDSN: document store DSN. postgres:// URLs select pgx, anything
//     else is opened with the embedded SQLite driver.
//   - SecretKey: HMAC secret for signing ID tokens (HS256).
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - BlobBackend: "s3" or "local"; LocalBlobRoot is used by the latter.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings for an S3-compatible backend.
//   - CacheDir: parent of the ImgVault/ cache directory.
//   - MediaLibraryDir: where downloaded images are saved.
//   - PickerDir: base directory for relative paths given to pick.
//   - CameraCommand / ShareCommand: external programs; empty disables them.
//   - Platform: reported on the account screen; "web" hides download/share.
//   - LogLevel / LogFile: structured log destination.
type Config struct {
	DatabaseDSN                  string        `envconfig:"DATABASE_DSN"`
	SecretKey                    string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `envconfig:"ACCESS_TOKEN_VALIDITY_DURATION"`
	RefreshTokenValidityDuration time.Duration `envconfig:"REFRESH_TOKEN_VALIDITY_DURATION"`
	BlobBackend                  string        `envconfig:"BLOB_BACKEND"`
	LocalBlobRoot                string        `envconfig:"LOCAL_BLOB_ROOT"`
	S3RootUser                   string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword               string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket                     string        `envconfig:"S3_BUCKET"`
	S3Region                     string        `envconfig:"S3_REGION"`
	S3BaseEndpoint               string        `envconfig:"S3_BASE_ENDPOINT"`
	CacheDir                     string        `envconfig:"CACHE_DIR"`
	MediaLibraryDir              string        `envconfig:"MEDIA_LIBRARY_DIR"`
	PickerDir                    string        `envconfig:"PICKER_DIR"`
	CameraCommand                string        `envconfig:"CAMERA_COMMAND"`
	ShareCommand                 string        `envconfig:"SHARE_COMMAND"`
	Platform                     string        `envconfig:"PLATFORM"`
	LogLevel                     string        `envconfig:"LOG_LEVEL"`
	LogFile                      string        `envconfig:"LOG_FILE"`
}

// LoadDefaults populates Config with development defaults: a local SQLite
// database and a local blob directory, so the shell runs without services.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "file:imgvault.db?_pragma=foreign_keys(1)"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 30 * 24 * time.Hour
	c.BlobBackend = BlobBackendLocal
	c.LocalBlobRoot = "blobs"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "imgvault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
	c.CacheDir = defaultCacheDir()
	c.MediaLibraryDir = defaultMediaLibraryDir()
	c.PickerDir = "."
	c.CameraCommand = ""
	c.ShareCommand = ""
	c.Platform = runtime.GOOS
	c.LogLevel = "info"
	c.LogFile = "imgvault.log"
}

// Dialect derives the SQL dialect from DatabaseDSN.
func (c *Config) Dialect() dbx.Dialect {
	dsn := strings.ToLower(c.DatabaseDSN)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return dbx.DialectPostgres
	}
	return dbx.DialectSQLite
}

// IsWeb reports whether the shell runs in web mode.
func (c *Config) IsWeb() bool {
	return strings.EqualFold(c.Platform, PlatformWeb)
}

// Validate rejects settings the shell cannot start with.
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BlobBackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 blob backend requires a bucket")
		}
	case BlobBackendLocal:
		if c.LocalBlobRoot == "" {
			return fmt.Errorf("local blob backend requires a root directory")
		}
	default:
		return fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is empty")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is empty")
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		return fmt.Errorf("token validity durations must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

func defaultMediaLibraryDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Pictures")
	}
	return "Pictures"
}

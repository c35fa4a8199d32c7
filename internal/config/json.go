package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/imgvault/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from "empty" so a partial file only overrides the
// keys it names.
type JsonConfig struct {
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	BlobBackend                  *string         `json:"blob_backend"`
	LocalBlobRoot                *string         `json:"local_blob_root"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	CacheDir                     *string         `json:"cache_dir"`
	MediaLibraryDir              *string         `json:"media_library_dir"`
	PickerDir                    *string         `json:"picker_dir"`
	CameraCommand                *string         `json:"camera_command"`
	ShareCommand                 *string         `json:"share_command"`
	Platform                     *string         `json:"platform"`
	LogLevel                     *string         `json:"log_level"`
	LogFile                      *string         `json:"log_file"`
}

// parseJson overlays the file at path onto config. An empty path is a no-op.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.LocalBlobRoot, c.LocalBlobRoot)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.CacheDir, c.CacheDir)
	setString(&config.MediaLibraryDir, c.MediaLibraryDir)
	setString(&config.PickerDir, c.PickerDir)
	setString(&config.CameraCommand, c.CameraCommand)
	setString(&config.ShareCommand, c.ShareCommand)
	setString(&config.Platform, c.Platform)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

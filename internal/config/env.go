package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. IMGVAULT_S3_BUCKET.
const EnvPrefix = "IMGVAULT"

// parseEnv overlays IMGVAULT_* variables onto config. Unset variables leave
// fields untouched because no field carries a default tag.
func parseEnv(config *Config) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

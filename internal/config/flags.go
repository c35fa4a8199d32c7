package config

import (
	"github.com/spf13/pflag"
)

// Flags binds the configuration to a pflag.FlagSet. Values are held aside
// and copied onto the Config only for flags the user actually set, so a flag
// default never masks the JSON file or the environment.
type Flags struct {
	fs         *pflag.FlagSet
	configPath string
	v          Config
}

// RegisterFlags declares the persistent configuration flags on fs.
//
//	-c, --config string               JSON configuration file
//	-d, --database-dsn string         document store DSN
//	-s, --secret-key string           ID token HMAC secret
//	-t, --access-token-ttl duration   ID token lifetime
//	-r, --refresh-token-ttl duration  refresh token lifetime
//	    --blob-backend string         s3 | local
//	    --local-blob-root string      directory for the local blob backend
//	-u, --s3-user string              S3 access key
//	-p, --s3-password string          S3 secret key
//	-b, --s3-bucket string            S3 bucket
//	-g, --s3-region string            S3 region
//	-e, --s3-endpoint string          S3 base endpoint
//	    --cache-dir string            parent of the ImgVault cache directory
//	    --media-library-dir string    where downloads are saved
//	    --picker-dir string           base for relative pick paths
//	    --camera-command string       capture program
//	    --share-command string        share program
//	    --platform string             reported platform ("web" hides download/share)
//	-l, --log-level string            debug | info | warn | error
//	    --log-file string             log destination
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Config{}
	def.LoadDefaults()

	fs.StringVarP(&f.configPath, "config", "c", "", "path to JSON configuration file")
	fs.StringVarP(&f.v.DatabaseDSN, "database-dsn", "d", def.DatabaseDSN, "database DSN")
	fs.StringVarP(&f.v.SecretKey, "secret-key", "s", def.SecretKey, "secret key")
	fs.DurationVarP(&f.v.AccessTokenValidityDuration, "access-token-ttl", "t", def.AccessTokenValidityDuration, "ID token validity")
	fs.DurationVarP(&f.v.RefreshTokenValidityDuration, "refresh-token-ttl", "r", def.RefreshTokenValidityDuration, "refresh token validity")
	fs.StringVar(&f.v.BlobBackend, "blob-backend", def.BlobBackend, "blob backend (s3|local)")
	fs.StringVar(&f.v.LocalBlobRoot, "local-blob-root", def.LocalBlobRoot, "local blob root directory")
	fs.StringVarP(&f.v.S3RootUser, "s3-user", "u", def.S3RootUser, "S3 root user")
	fs.StringVarP(&f.v.S3RootPassword, "s3-password", "p", def.S3RootPassword, "S3 root password")
	fs.StringVarP(&f.v.S3Bucket, "s3-bucket", "b", def.S3Bucket, "S3 bucket")
	fs.StringVarP(&f.v.S3Region, "s3-region", "g", def.S3Region, "S3 region")
	fs.StringVarP(&f.v.S3BaseEndpoint, "s3-endpoint", "e", def.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&f.v.CacheDir, "cache-dir", def.CacheDir, "cache parent directory")
	fs.StringVar(&f.v.MediaLibraryDir, "media-library-dir", def.MediaLibraryDir, "media library directory")
	fs.StringVar(&f.v.PickerDir, "picker-dir", def.PickerDir, "picker base directory")
	fs.StringVar(&f.v.CameraCommand, "camera-command", def.CameraCommand, "camera capture command")
	fs.StringVar(&f.v.ShareCommand, "share-command", def.ShareCommand, "share command")
	fs.StringVar(&f.v.Platform, "platform", def.Platform, "platform name")
	fs.StringVarP(&f.v.LogLevel, "log-level", "l", def.LogLevel, "log level")
	fs.StringVar(&f.v.LogFile, "log-file", def.LogFile, "log file")

	return f
}

// Load builds the Config from defaults, the JSON file, the environment and
// finally the explicitly set flags. Call it after the flag set was parsed.
func (f *Flags) Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, f.configPath); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *Flags) apply(cfg *Config) {
	set := func(name string, dst *string, v string) {
		if f.fs.Changed(name) {
			*dst = v
		}
	}
	set("database-dsn", &cfg.DatabaseDSN, f.v.DatabaseDSN)
	set("secret-key", &cfg.SecretKey, f.v.SecretKey)
	if f.fs.Changed("access-token-ttl") {
		cfg.AccessTokenValidityDuration = f.v.AccessTokenValidityDuration
	}
	if f.fs.Changed("refresh-token-ttl") {
		cfg.RefreshTokenValidityDuration = f.v.RefreshTokenValidityDuration
	}
	set("blob-backend", &cfg.BlobBackend, f.v.BlobBackend)
	set("local-blob-root", &cfg.LocalBlobRoot, f.v.LocalBlobRoot)
	set("s3-user", &cfg.S3RootUser, f.v.S3RootUser)
	set("s3-password", &cfg.S3RootPassword, f.v.S3RootPassword)
	set("s3-bucket", &cfg.S3Bucket, f.v.S3Bucket)
	set("s3-region", &cfg.S3Region, f.v.S3Region)
	set("s3-endpoint", &cfg.S3BaseEndpoint, f.v.S3BaseEndpoint)
	set("cache-dir", &cfg.CacheDir, f.v.CacheDir)
	set("media-library-dir", &cfg.MediaLibraryDir, f.v.MediaLibraryDir)
	set("picker-dir", &cfg.PickerDir, f.v.PickerDir)
	set("camera-command", &cfg.CameraCommand, f.v.CameraCommand)
	set("share-command", &cfg.ShareCommand, f.v.ShareCommand)
	set("platform", &cfg.Platform, f.v.Platform)
	set("log-level", &cfg.LogLevel, f.v.LogLevel)
	set("log-file", &cfg.LogFile, f.v.LogFile)
}

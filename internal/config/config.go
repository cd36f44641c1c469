// Package config resolves the jukebox connection and server settings
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultRegion is used when AWS_REGION is not set
const DefaultRegion = "us-east-1"

// Storage drivers
const (
	DriverMinio = "minio"
	DriverAWS   = "aws"
)

var (
	// ErrMissingSetting is wrapped by every "required value absent" error from Validate
	ErrMissingSetting = errors.New("missing required setting")
	// ErrUnknownDriver is returned by Validate for an unsupported storage driver
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Config holds everything the server needs. It is resolved once in main
// and passed down explicitly.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Prefix          string

	// Endpoint overrides the region-derived S3 endpoint (MinIO, local S3)
	Endpoint string
	Driver   string

	Addr       string
	SessionKey string
	SessionTTL time.Duration
	LogLevel   string
}

// envBindings maps config keys to the environment variables they are read from
var envBindings = map[string]string{
	"access_key_id":     "AWS_ACCESS_KEY_ID",
	"secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"region":            "AWS_REGION",
	"bucket":            "S3_BUCKET",
	"prefix":            "S3_PREFIX",
	"endpoint":          "S3_ENDPOINT",
	"driver":            "JUKEBOX_STORAGE_DRIVER",
	"addr":              "JUKEBOX_ADDR",
	"session_key":       "JUKEBOX_SESSION_KEY",
	"session_ttl":       "JUKEBOX_SESSION_TTL",
	"log_level":         "JUKEBOX_LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("access_key_id", "")
	v.SetDefault("secret_access_key", "")
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("bucket", "")
	v.SetDefault("prefix", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("driver", DriverMinio)
	v.SetDefault("addr", ":8080")
	v.SetDefault("session_key", "")
	v.SetDefault("session_ttl", 2*time.Hour)
	v.SetDefault("log_level", "info")
}

// Resolve reads the settings from the environment and, when configFile is
// not empty, from a YAML file. Environment values win over the file.
// Missing values are not an error here; see Validate.
func Resolve(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	region := v.GetString("region")
	if region == "" {
		region = DefaultRegion
	}

	return Config{
		AccessKeyID:     v.GetString("access_key_id"),
		SecretAccessKey: v.GetString("secret_access_key"),
		Region:          region,
		Bucket:          v.GetString("bucket"),
		Prefix:          v.GetString("prefix"),
		Endpoint:        v.GetString("endpoint"),
		Driver:          v.GetString("driver"),
		Addr:            v.GetString("addr"),
		SessionKey:      v.GetString("session_key"),
		SessionTTL:      v.GetDuration("session_ttl"),
		LogLevel:        v.GetString("log_level"),
	}, nil
}

// Validate reports every missing required setting at once
func (c Config) Validate() error {
	var errs []error
	required := []struct {
		value string
		env   string
	}{
		{c.AccessKeyID, envBindings["access_key_id"]},
		{c.SecretAccessKey, envBindings["secret_access_key"]},
		{c.Bucket, envBindings["bucket"]},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s is not set", ErrMissingSetting, r.env))
		}
	}

	switch c.Driver {
	case DriverMinio, DriverAWS:
	default:
		errs = append(errs, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownDriver, c.Driver, DriverMinio, DriverAWS))
	}

	return errors.Join(errs...)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.AccessKeyID)
	assert.Equal(t, "", cfg.SecretAccessKey)
	assert.Equal(t, "", cfg.Bucket)
	assert.Equal(t, "", cfg.Prefix)
	assert.Equal(t, DefaultRegion, cfg.Region)
	assert.Equal(t, DriverMinio, cfg.Driver)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestResolve_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA123")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "music")
	t.Setenv("S3_PREFIX", "albums/2023/")
	t.Setenv("JUKEBOX_STORAGE_DRIVER", "aws")
	t.Setenv("JUKEBOX_SESSION_TTL", "30m")

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "AKIA123", cfg.AccessKeyID)
	assert.Equal(t, "secret", cfg.SecretAccessKey)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "music", cfg.Bucket)
	assert.Equal(t, "albums/2023/", cfg.Prefix)
	assert.Equal(t, DriverAWS, cfg.Driver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestResolve_Idempotent(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET", "music")

	first, err := Resolve("")
	require.NoError(t, err)
	second, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_ConfigFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jukebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bucket: from-file\nprefix: podcasts/\nregion: ap-south-1\n"), 0o600))
	t.Setenv("S3_BUCKET", "from-env")

	cfg, err := Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Bucket)
	assert.Equal(t, "podcasts/", cfg.Prefix)
	assert.Equal(t, "ap-south-1", cfg.Region)
}

func TestResolve_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		AccessKeyID:     "AKIA123",
		SecretAccessKey: "secret",
		Region:          DefaultRegion,
		Bucket:          "music",
		Driver:          DriverMinio,
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("all required missing", func(t *testing.T) {
		err := Config{Driver: DriverMinio}.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingSetting))
		assert.Contains(t, err.Error(), "AWS_ACCESS_KEY_ID")
		assert.Contains(t, err.Error(), "AWS_SECRET_ACCESS_KEY")
		assert.Contains(t, err.Error(), "S3_BUCKET")
	})

	t.Run("bucket missing only", func(t *testing.T) {
		cfg := valid
		cfg.Bucket = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "S3_BUCKET")
		assert.NotContains(t, err.Error(), "AWS_ACCESS_KEY_ID")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid
		cfg.Driver = "ftp"
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownDriver))
	})
}

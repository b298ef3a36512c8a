package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.LoginExpiration)
	assert.Equal(t, time.Hour, cfg.JWT.RegisterExpiration)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Contains(t, cfg.Upload.AllowedMIMEs, "application/pdf")
}

func TestValidateStorageDriver(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Secret: "s"}, Storage: StorageConfig{Driver: "s3"}}
	require.Error(t, cfg.Validate())

	cfg.Storage.Driver = StorageDriverOSS
	require.Error(t, cfg.Validate())

	cfg.Storage.OSS = OSSConfig{Endpoint: "oss-ap-southeast-5.aliyuncs.com", Bucket: "mbkm"}
	require.NoError(t, cfg.Validate())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}

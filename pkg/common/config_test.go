package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Titan-M/mailsift/pkg/types"
)

func TestConfigManagerDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CONFIG_JSON", "")

	cm, err := NewConfigManager[types.AppConfig]()
	require.NoError(t, err)

	config := cm.GetConfig()
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 1994, config.Server.Port)
	assert.Equal(t, 30, config.Gmail.RecencyDays)
	assert.Equal(t, 60*time.Second, config.Gmail.RequestTimeout)
	assert.Equal(t, 100*time.Millisecond, config.Sync.PacingDelay)
	assert.Equal(t, 5*time.Minute, config.Sync.LockTTL)
	assert.Equal(t, 20, config.Sync.DefaultLimit)
	assert.Equal(t, types.RedisModeSingle, config.Database.Redis.Mode)
}

func TestConfigManagerFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("server:\n  port: 8080\ngmail:\n  recencyDays: 7\n"), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CONFIG_JSON", "")

	cm, err := NewConfigManager[types.AppConfig]()
	require.NoError(t, err)

	config := cm.GetConfig()
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 7, config.Gmail.RecencyDays)
	// Untouched defaults remain
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestConfigManagerJSONOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CONFIG_JSON", `{"classifier": {"url": "http://classifier:9000"}, "sync": {"pacingDelay": "250ms"}}`)

	cm, err := NewConfigManager[types.AppConfig]()
	require.NoError(t, err)

	config := cm.GetConfig()
	assert.Equal(t, "http://classifier:9000", config.Classifier.URL)
	assert.Equal(t, 250*time.Millisecond, config.Sync.PacingDelay)
}

func TestConfigManagerRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	t.Setenv("CONFIG_PATH", path)
	_, err := NewConfigManager[types.AppConfig]()
	require.Error(t, err)
}

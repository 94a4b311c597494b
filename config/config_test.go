package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "APP_ENV", "LOG_LEVEL", "CORS_ORIGINS", "DB_PATH", "ENTITY_ID", "SETTINGS_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "earnings.db", cfg.Database.Path)
	assert.Equal(t, "default", cfg.Engine.EntityID)
	assert.Empty(t, cfg.Engine.SettingsFile)
	assert.Len(t, cfg.App.CORSOrigins, 2)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "3000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("SETTINGS_FILE", "settings.json")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "settings.json", cfg.Engine.SettingsFile)
}

func TestFromEnv_Rejects(t *testing.T) {
	t.Setenv("APP_PORT", "http")
	_, err := config.FromEnv()
	assert.Error(t, err)

	t.Setenv("APP_PORT", "70000")
	_, err = config.FromEnv()
	assert.Error(t, err)

	t.Setenv("APP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "verbose")
	_, err = config.FromEnv()
	assert.Error(t, err)
}

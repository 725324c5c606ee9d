package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOORMAN_ENV", "")
	t.Setenv("DOORMAN_HTTP_PORT", "")
	t.Setenv("DOORMAN_DB_PATH", t.TempDir()+"/doorman.db")
	t.Setenv("DOORMAN_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("DOORMAN_ENV", "production")
	t.Setenv("DOORMAN_JWT_SECRET", "")
	t.Setenv("DOORMAN_DB_PATH", t.TempDir()+"/doorman.db")

	_, err := Load()
	assert.Error(t, err)
}

func TestNotifyURLsParsing(t *testing.T) {
	t.Setenv("DOORMAN_DB_PATH", t.TempDir()+"/doorman.db")
	t.Setenv("DOORMAN_JWT_SECRET", "s")
	t.Setenv("DOORMAN_NOTIFY_URLS", "discord://token@id, slack://tok ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"discord://token@id", "slack://tok"}, cfg.NotifyURLs)
}

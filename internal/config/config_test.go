package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, "mongodb://localhost:27017", cfg.UserDB.URI)
	assert.Equal(t, "https://api.any.run/v1", cfg.Sandbox.APIURL)
	assert.Empty(t, cfg.Telegram.RequiredGroupIDs)
}

func TestParseGroupIDs(t *testing.T) {
	ids, err := parseGroupIDs(" -1001234, -1005678 ,")
	require.NoError(t, err)
	assert.Equal(t, []int64{-1001234, -1005678}, ids)

	_, err = parseGroupIDs("-100,abc")
	assert.Error(t, err)
}

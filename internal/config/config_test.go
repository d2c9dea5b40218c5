package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "cards.yaml", c.CardPoolPath)
	assert.Equal(t, 10, c.Rules().HandSize)
	assert.Equal(t, 2, c.Rules().MinPlayers)
	assert.Equal(t, 30*time.Minute, c.IdleTimeout())
	assert.Equal(t, 5.0, c.WsActionsPerSecond)
	assert.Equal(t, 10, c.WsActionBurst)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config")
	body := `{"port": 9000, "log_level": "debug", "hand_size": 7, "room_idle_minutes": 0}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Port)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 7, c.HandSize)
	assert.Equal(t, 2, c.MinPlayers)
	assert.Zero(t, c.IdleTimeout())
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGetConfig_LoadsOnce(t *testing.T) {
	cfg = nil
	t.Cleanup(func() { cfg = nil })

	first := GetConfig()
	second := GetConfig()

	assert.Same(t, first, second)
	assert.Equal(t, "cards.yaml", first.CardPoolPath)
}

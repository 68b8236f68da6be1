package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 1917, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Game.MinPlayers)
	assert.Equal(t, 10, cfg.Game.MaxPlayers)
	assert.Equal(t, 60*time.Second, cfg.Game.RedLightDuration())
	assert.Equal(t, 300.0, cfg.Game.OxygenMax)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 2000
game:
  red_light: 40
  oxygen_drain: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values survive
	assert.Equal(t, 2000, cfg.Server.Port)
	assert.Equal(t, 40*time.Second, cfg.Game.RedLightDuration())
	assert.Equal(t, 2.0, cfg.Game.OxygenDrain)

	// Everything else is backfilled
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 90*time.Second, cfg.Game.GreenLightDuration())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

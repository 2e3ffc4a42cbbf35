package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "Test"
width = 800
height = 600

[renderer]
validation = true
target_fps = 120

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, uint32(800), cfg.Window.Width)
	assert.Equal(t, uint32(600), cfg.Window.Height)
	assert.True(t, cfg.Renderer.Validation)
	assert.Equal(t, uint32(120), cfg.Renderer.TargetFPS)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "assets", cfg.Assets.Root)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "[window\nwidth = ")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadZeroWindowSize(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 0
height = 720
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "non-zero")
}

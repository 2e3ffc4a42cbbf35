package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpalli/Vulkan/engine/config"
)

func TestNewApplicationConfigMapsLoadedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "Demo"
width = 800
height = 600

[renderer]
validation = true
target_fps = 144

[assets]
root = "data"
hot_reload = true

[logging]
level = "debug"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	app := NewApplicationConfig(cfg)
	assert.Equal(t, "Demo", app.Name)
	assert.Equal(t, uint32(800), app.StartWidth)
	assert.Equal(t, uint32(600), app.StartHeight)
	assert.Equal(t, uint32(144), app.TargetFPS)
	assert.True(t, app.Validation)
	assert.Equal(t, "data", app.AssetsRoot)
	assert.True(t, app.HotReload)
	assert.Equal(t, "debug", app.LogLevel)
}

func TestNewApplicationConfigDefaults(t *testing.T) {
	app := NewApplicationConfig(config.Default())
	assert.Equal(t, "PBR Texture", app.Name)
	assert.Equal(t, uint32(1280), app.StartWidth)
	assert.Equal(t, uint32(720), app.StartHeight)
	assert.Equal(t, uint32(60), app.TargetFPS)
	assert.False(t, app.Validation)
	assert.Equal(t, "assets", app.AssetsRoot)
	assert.Equal(t, "info", app.LogLevel)
}

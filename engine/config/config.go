package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration, read from a TOML file in the
// asset root. Every field has a sensible default so a missing file is not an
// error.
type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	Assets   Assets   `toml:"assets"`
	Logging  Logging  `toml:"logging"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type Renderer struct {
	// Enables the Khronos validation layer and the debug messenger.
	Validation bool   `toml:"validation"`
	TargetFPS  uint32 `toml:"target_fps"`
}

type Assets struct {
	// Root directory for textures, models, shaders and fonts. Relative paths
	// resolve against the working directory.
	Root string `toml:"root"`
	// Watch the asset root and fire reload events on changes.
	HotReload bool `toml:"hot_reload"`
}

type Logging struct {
	Level string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "PBR Texture",
			Width:  1280,
			Height: 720,
		},
		Renderer: Renderer{
			Validation: false,
			TargetFPS:  60,
		},
		Assets: Assets{
			Root:      "assets",
			HotReload: false,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path. A missing file yields defaults,
// a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Window.Width == 0 || cfg.Window.Height == 0 {
		return nil, fmt.Errorf("config %s: window size must be non-zero", path)
	}
	return cfg, nil
}

package engine

import (
	"github.com/tpalli/Vulkan/engine/config"
)

// ApplicationConfig is the window and runtime setup the game hands to the
// engine at startup.
type ApplicationConfig struct {
	Name        string
	StartPosX   uint32
	StartPosY   uint32
	StartWidth  uint32
	StartHeight uint32

	TargetFPS  uint32
	Validation bool

	AssetsRoot string
	HotReload  bool
	LogLevel   string
}

// NewApplicationConfig builds the application setup from a loaded
// configuration file.
func NewApplicationConfig(cfg *config.Config) *ApplicationConfig {
	return &ApplicationConfig{
		Name:        cfg.Window.Title,
		StartWidth:  cfg.Window.Width,
		StartHeight: cfg.Window.Height,
		TargetFPS:   cfg.Renderer.TargetFPS,
		Validation:  cfg.Renderer.Validation,
		AssetsRoot:  cfg.Assets.Root,
		HotReload:   cfg.Assets.HotReload,
		LogLevel:    cfg.Logging.Level,
	}
}

package engine

import (
	"fmt"

	"github.com/tpalli/Vulkan/engine/assets"
	"github.com/tpalli/Vulkan/engine/core"
	"github.com/tpalli/Vulkan/engine/platform"
	"github.com/tpalli/Vulkan/engine/renderer/vulkan"
)

// Engine ties the platform layer, the renderer and the game loop together.
type Engine struct {
	currentGame *Game
	platform    *platform.Platform
	renderer    *vulkan.VulkanRenderer
	assets      *assets.AssetManager

	clock   *core.Clock
	metrics *core.Metrics

	isRunning   bool
	isSuspended bool
	width       uint32
	height      uint32
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game and application config are required")
	}

	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	p := platform.New()
	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}

	return &Engine{
		currentGame: g,
		platform:    p,
		renderer:    vulkan.New(p, g.ApplicationConfig.Validation),
		assets:      am,
		clock:       core.NewClock(),
		metrics:     core.NewMetrics(),
		width:       g.ApplicationConfig.StartWidth,
		height:      g.ApplicationConfig.StartHeight,
	}, nil
}

func (e *Engine) Renderer() *vulkan.VulkanRenderer { return e.renderer }
func (e *Engine) Assets() *assets.AssetManager     { return e.assets }
func (e *Engine) Metrics() *core.Metrics           { return e.metrics }

// FramebufferSize is the current drawable size in pixels.
func (e *Engine) FramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Initialize() error {
	cfg := e.currentGame.ApplicationConfig

	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.InputInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onQuit)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight); err != nil {
		return err
	}

	// The framebuffer can differ from the requested window size on HiDPI
	// displays, use what the platform actually gave us.
	fbWidth, fbHeight := e.platform.GetFramebufferSize()
	e.width, e.height = fbWidth, fbHeight

	if err := e.renderer.Initialize(cfg.Name, fbWidth, fbHeight); err != nil {
		return err
	}

	if err := e.assets.Initialize(cfg.AssetsRoot, cfg.HotReload); err != nil {
		return err
	}

	if e.currentGame.FnInitialize != nil {
		if err := e.currentGame.FnInitialize(e); err != nil {
			return err
		}
	}
	if e.currentGame.FnOnResize != nil {
		if err := e.currentGame.FnOnResize(e, e.width, e.height); err != nil {
			return err
		}
	}

	e.isRunning = true
	return nil
}

// Run drives the main loop until the window closes or the game fires a quit
// event. The input state rolls over at the end of the frame so edge checks
// see this frame's transitions.
func (e *Engine) Run() error {
	cfg := e.currentGame.ApplicationConfig
	targetFrameSeconds := 0.0
	if cfg.TargetFPS > 0 {
		targetFrameSeconds = 1.0 / float64(cfg.TargetFPS)
	}

	e.clock.Start()
	e.clock.Update()
	lastTime := e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		deltaTime := currentTime - lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if !e.isSuspended && e.isRunning {
			if err := e.frame(deltaTime); err != nil {
				core.LogError("frame failed: %s", err.Error())
				e.isRunning = false
			}
		}

		if targetFrameSeconds > 0 {
			frameElapsed := platform.GetAbsoluteTime() - frameStartTime
			remaining := targetFrameSeconds - frameElapsed
			if remaining > 0.001 {
				e.platform.Sleep(remaining*1000.0 - 1)
			}
		}
		e.metrics.Update(platform.GetAbsoluteTime() - frameStartTime)

		core.InputUpdate(deltaTime)
		lastTime = currentTime
	}

	return e.Shutdown()
}

func (e *Engine) frame(deltaTime float64) error {
	if e.currentGame.FnUpdate != nil {
		if err := e.currentGame.FnUpdate(e, deltaTime); err != nil {
			return err
		}
	}

	err := e.renderer.BeginFrame(deltaTime)
	if err == core.ErrSwapchainOutOfDate {
		// The swapchain is mid-recreation, drop the frame.
		return nil
	}
	if err != nil {
		return err
	}

	if e.currentGame.FnRender != nil {
		if err := e.currentGame.FnRender(e, deltaTime); err != nil {
			return err
		}
	}

	return e.renderer.EndFrame(deltaTime)
}

func (e *Engine) Shutdown() error {
	if e.currentGame.FnShutdown != nil {
		e.renderer.WaitIdle()
		if err := e.currentGame.FnShutdown(e); err != nil {
			core.LogError("game shutdown failed: %s", err.Error())
		}
	}
	if err := e.assets.Shutdown(); err != nil {
		core.LogError("asset manager shutdown failed: %s", err.Error())
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	core.InputShutdown()
	core.EventSystemShutdown()
	return e.platform.Shutdown()
}

// RequestShutdown asks the main loop to exit after the current frame. Safe
// to call from a signal handler goroutine, the flag is only read between
// frames.
func (e *Engine) RequestShutdown() {
	e.isRunning = false
}

func (e *Engine) onQuit(context core.EventContext) {
	e.isRunning = false
}

func (e *Engine) onResized(context core.EventContext) {
	data, ok := context.Data.(*core.SystemEvent)
	if !ok {
		return
	}
	width := data.WindowWidth
	height := data.WindowHeight
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	// Minimized, stop rendering until the window comes back.
	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("window restored, resuming")
		e.isSuspended = false
	}

	e.renderer.Resized(width, height)
	if e.currentGame.FnOnResize != nil {
		if err := e.currentGame.FnOnResize(e, width, height); err != nil {
			core.LogError("resize handler failed: %s", err.Error())
		}
	}
}

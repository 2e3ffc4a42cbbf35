package engine

// Game is the application the engine drives. The engine owns the window,
// the renderer and the main loop, the game fills in behavior through the
// callbacks. All callbacks receive the engine so they can reach the
// renderer and the asset manager.
type Game struct {
	ApplicationConfig *ApplicationConfig

	// FnInitialize runs once after the renderer is up, before the first
	// frame. Load assets and build pipelines here.
	FnInitialize func(e *Engine) error
	// FnUpdate runs every frame before rendering begins.
	FnUpdate func(e *Engine, deltaTime float64) error
	// FnRender runs between BeginFrame and EndFrame and records draw
	// commands into the current command buffer.
	FnRender func(e *Engine, deltaTime float64) error
	// FnOnResize runs after the swapchain has been recreated.
	FnOnResize func(e *Engine, width, height uint32) error
	// FnShutdown runs once before the renderer goes away.
	FnShutdown func(e *Engine) error

	// State is for game owned data the callbacks share.
	State interface{}
}

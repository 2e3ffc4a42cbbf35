package pbrtexture

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/tpalli/Vulkan/engine"
	"github.com/tpalli/Vulkan/engine/config"
	"github.com/tpalli/Vulkan/engine/core"
	"github.com/tpalli/Vulkan/engine/math"
	"github.com/tpalli/Vulkan/engine/renderer"
	"github.com/tpalli/Vulkan/engine/renderer/vulkan"
)

// timerSpeed scales frame time into the light animation timer.
const timerSpeed = 0.25

// App is the demo state: the scene, the three materials, the shared uniform
// buffers and the HUD.
type App struct {
	camera *renderer.Camera
	scene  *Scene

	materials   []*Material
	descriptors *materialDescriptors

	objectUBO *vulkan.VulkanBuffer
	skyboxUBO *vulkan.VulkanBuffer
	paramsUBO *vulkan.VulkanBuffer

	projection math.Mat4
	matrices   UBOMatrices
	params     *ShaderParams

	vertStage *vulkan.VulkanShaderStage
	fragStage *vulkan.VulkanShaderStage
	pipeline  *vulkan.VulkanPipeline

	skybox *skyboxRenderer
	hud    *hudRenderer

	timer    float32
	paused   bool
	hudDirty bool
	lastFPS  int
}

// NewGame builds the demo and its engine wiring from the loaded
// configuration.
func NewGame(cfg *config.Config) *engine.Game {
	app := &App{
		camera: renderer.NewCamera(),
		params: NewShaderParams(),
		// The light animation starts paused, P resumes it.
		paused: true,
	}
	app.camera.SetPosition(math.NewVec3(4.0, 2.5, -0.4))
	app.camera.SetEulerRotation(math.NewVec3(-32.0, 85.0, 0.0))

	return &engine.Game{
		ApplicationConfig: engine.NewApplicationConfig(cfg),
		FnInitialize:      app.initialize,
		FnUpdate:          app.update,
		FnRender:          app.render,
		FnOnResize:        app.onResize,
		FnShutdown:        app.shutdown,
		State:             app,
	}
}

func (app *App) initialize(e *engine.Engine) error {
	context := e.Renderer().Context()
	width, height := e.FramebufferSize()

	core.EventRegister(core.EVENT_CODE_OBJECT_CYCLED, func(ec core.EventContext) {
		app.updateUniformBuffers()
	})
	core.EventRegister(core.EVENT_CODE_PARAMETER_CHANGED, func(ec core.EventContext) {
		app.uploadParams()
		app.hudDirty = true
	})

	var err error
	if app.objectUBO, err = vulkan.BufferCreateUniform(context, uint64(unsafe.Sizeof(UBOMatrices{}))); err != nil {
		return err
	}
	if app.skyboxUBO, err = vulkan.BufferCreateUniform(context, uint64(unsafe.Sizeof(UBOMatrices{}))); err != nil {
		return err
	}
	if app.paramsUBO, err = vulkan.BufferCreateUniform(context, uint64(unsafe.Sizeof(ShaderParams{}))); err != nil {
		return err
	}

	if app.scene, err = LoadScene(e.Assets(), context); err != nil {
		return err
	}

	catalog := MaterialCatalog()
	for _, spec := range catalog {
		mat, err := LoadMaterial(e.Assets(), context, spec)
		if err != nil {
			return err
		}
		app.materials = append(app.materials, mat)
	}

	if app.descriptors, err = newMaterialDescriptors(context, uint32(len(catalog))); err != nil {
		return err
	}
	for _, mat := range app.materials {
		if err := app.descriptors.BuildDescriptorSet(context, mat, app.objectUBO, app.paramsUBO); err != nil {
			return err
		}
	}

	if err := app.createPipeline(e, width, height); err != nil {
		return err
	}

	mainRenderpass := context.MainRenderpass
	if app.skybox, err = newSkyboxRenderer(e.Assets(), context, mainRenderpass, app.skyboxUBO, width, height); err != nil {
		return err
	}
	if app.hud, err = newHUDRenderer(e.Assets(), context, mainRenderpass, width, height); err != nil {
		return err
	}

	app.projection = math.NewMat4Perspective(math.DegToRad(60.0), float32(width)/float32(height), 0.1, 256.0)
	app.updateUniformBuffers()
	app.uploadParams()

	return app.hud.Rebuild(app.params.Roughness, app.params.Metallic, e.Metrics().FPS())
}

func (app *App) createPipeline(e *engine.Engine, width, height uint32) error {
	context := e.Renderer().Context()

	vert, err := loadShaderStage(e.Assets(), context, "shaders/pbrtexture.vert.spv", vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	app.vertStage = vert
	frag, err := loadShaderStage(e.Assets(), context, "shaders/pbrtexture.frag.spv", vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	app.fragStage = frag

	pipeline, err := vulkan.NewGraphicsPipeline(context, &vulkan.VulkanPipelineConfig{
		Renderpass: context.MainRenderpass,
		Stride:     uint32(math.Vertex3DSize),
		Attributes: []vk.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(math.Vertex3D{}.Position))},
			{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(math.Vertex3D{}.Normal))},
			{Location: 2, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(unsafe.Offsetof(math.Vertex3D{}.Texcoord))},
		},
		DescriptorSetLayouts: []vk.DescriptorSetLayout{app.descriptors.Layout},
		Stages: []vk.PipelineShaderStageCreateInfo{
			app.vertStage.ShaderStageCreateInfo,
			app.fragStage.ShaderStageCreateInfo,
		},
		Viewport: vk.Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1},
		Scissor:  vk.Rect2D{Extent: vk.Extent2D{Width: width, Height: height}},
		// The display meshes have inward winding, cull the front faces.
		CullMode:   vulkan.FaceCullModeFront,
		DepthTest:  true,
		DepthWrite: true,
		PushConstantRanges: []vk.PushConstantRange{
			{
				StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
				Offset:     0,
				Size:       uint32(unsafe.Sizeof(math.Vec3{})),
			},
		},
	})
	if err != nil {
		return err
	}
	app.pipeline = pipeline
	return nil
}

func (app *App) update(e *engine.Engine, deltaTime float64) error {
	app.handleKeys(e)
	app.handleCamera(deltaTime)

	if !app.paused {
		app.timer += timerSpeed * float32(deltaTime)
		if app.timer > 1.0 {
			app.timer -= 1.0
		}
		app.params.UpdateLights(app.timer, false)
		app.uploadParams()
	}

	fps := e.Metrics().FPS()
	if app.hudDirty || int(fps) != app.lastFPS {
		app.lastFPS = int(fps)
		app.hudDirty = false
		if err := app.hud.Rebuild(app.params.Roughness, app.params.Metallic, fps); err != nil {
			return err
		}
	}
	return nil
}

func (app *App) handleKeys(e *engine.Engine) {
	if core.InputWasKeyPressed(core.KEY_ESCAPE) {
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return
	}
	if core.InputWasKeyPressed(core.KEY_SPACE) {
		index := app.scene.CycleObject()
		core.LogDebug("active object: %s (%d)", app.scene.ActiveObject().Name, index)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_OBJECT_CYCLED, Data: index})
	}
	if core.InputWasKeyPressed(core.KEY_P) {
		app.paused = !app.paused
		if app.paused {
			// Drop the lights back to their fixed positions.
			app.params.UpdateLights(app.timer, true)
			app.uploadParams()
		}
	}

	if core.InputWasKeyPressed(core.KEY_F2) {
		app.adjustRoughness(-0.01)
	}
	if core.InputWasKeyPressed(core.KEY_F3) {
		app.adjustRoughness(0.01)
	}
	if core.InputWasKeyPressed(core.KEY_F4) {
		app.adjustMetallic(-0.01)
	}
	if core.InputWasKeyPressed(core.KEY_F5) {
		app.adjustMetallic(0.01)
	}
}

func (app *App) handleCamera(deltaTime float64) {
	dt := float32(deltaTime)
	moved := false

	if core.InputIsKeyDown(core.KEY_W) {
		app.camera.MoveForward(dt)
		moved = true
	}
	if core.InputIsKeyDown(core.KEY_S) {
		app.camera.MoveBackward(dt)
		moved = true
	}
	if core.InputIsKeyDown(core.KEY_A) {
		app.camera.MoveLeft(dt)
		moved = true
	}
	if core.InputIsKeyDown(core.KEY_D) {
		app.camera.MoveRight(dt)
		moved = true
	}

	if core.InputIsButtonDown(core.BUTTON_LEFT) {
		curX, curY := core.InputGetMousePosition()
		prevX, prevY := core.InputGetPreviousMousePosition()
		dx := float32(curX - prevX)
		dy := float32(curY - prevY)
		if dx != 0 || dy != 0 {
			app.camera.Rotate(dx, dy)
			moved = true
		}
	}

	if moved {
		app.updateUniformBuffers()
	}
}

func (app *App) adjustRoughness(delta float32) {
	app.params.AdjustRoughness(delta)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_PARAMETER_CHANGED, Data: "roughness"})
}

func (app *App) adjustMetallic(delta float32) {
	app.params.AdjustMetallic(delta)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_PARAMETER_CHANGED, Data: "metallic"})
}

// updateUniformBuffers refreshes both persistently mapped matrix blocks.
// The skybox shares projection and camera but follows only the view
// rotation.
func (app *App) updateUniformBuffers() {
	app.matrices.Projection = app.projection
	app.matrices.View = app.camera.GetView()
	app.matrices.Model = app.scene.ModelMatrix()
	app.matrices.CamPos = app.camera.WorldPosition()
	if err := app.objectUBO.LoadData(app.matrices.Bytes(), 0); err != nil {
		core.LogError("object ubo write failed: %s", err.Error())
	}

	skybox := app.matrices
	skybox.Model = app.matrices.View.WithoutTranslation()
	if err := app.skyboxUBO.LoadData(skybox.Bytes(), 0); err != nil {
		core.LogError("skybox ubo write failed: %s", err.Error())
	}
}

func (app *App) uploadParams() {
	if err := app.paramsUBO.LoadData(app.params.Bytes(), 0); err != nil {
		core.LogError("params ubo write failed: %s", err.Error())
	}
}

// render records one frame: skybox, then the active object once per
// material at its fixed position, then the HUD.
func (app *App) render(e *engine.Engine, deltaTime float64) error {
	cb := e.Renderer().CurrentCommandBuffer()

	app.skybox.Draw(cb, app.scene.Skybox)

	object := app.scene.ActiveObject()
	app.pipeline.Bind(cb, vk.PipelineBindPointGraphics)
	vk.CmdBindVertexBuffers(cb.Handle, 0, 1, []vk.Buffer{object.VertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cb.Handle, object.IndexBuffer.Handle, 0, vk.IndexTypeUint32)

	positions := DrawPositions()
	for i, mat := range app.materials {
		vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, app.pipeline.PipelineLayout,
			0, 1, []vk.DescriptorSet{mat.DescriptorSet}, 0, nil)
		vk.CmdPushConstants(cb.Handle, app.pipeline.PipelineLayout,
			vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0,
			uint32(unsafe.Sizeof(math.Vec3{})), unsafe.Pointer(&positions[i]))
		vk.CmdDrawIndexed(cb.Handle, object.IndexCount, 1, 0, 0, 0)
	}

	app.hud.Draw(cb)
	return nil
}

func (app *App) onResize(e *engine.Engine, width, height uint32) error {
	if height == 0 {
		return nil
	}
	app.projection = math.NewMat4Perspective(math.DegToRad(60.0), float32(width)/float32(height), 0.1, 256.0)
	app.updateUniformBuffers()
	if app.hud != nil {
		app.hud.Resize(width, height)
		app.hudDirty = true
	}
	return nil
}

func (app *App) shutdown(e *engine.Engine) error {
	context := e.Renderer().Context()

	if app.hud != nil {
		app.hud.Destroy(context)
		app.hud = nil
	}
	if app.skybox != nil {
		app.skybox.Destroy(context)
		app.skybox = nil
	}
	if app.pipeline != nil {
		app.pipeline.Destroy(context)
		app.pipeline = nil
	}
	if app.vertStage != nil {
		app.vertStage.Destroy(context)
		app.vertStage = nil
	}
	if app.fragStage != nil {
		app.fragStage.Destroy(context)
		app.fragStage = nil
	}
	for _, mat := range app.materials {
		mat.Destroy(context)
	}
	app.materials = nil
	if app.descriptors != nil {
		app.descriptors.Destroy(context)
		app.descriptors = nil
	}
	for _, ubo := range []*vulkan.VulkanBuffer{app.objectUBO, app.skyboxUBO, app.paramsUBO} {
		if ubo != nil {
			ubo.Destroy(context)
		}
	}
	app.objectUBO, app.skyboxUBO, app.paramsUBO = nil, nil, nil
	if app.scene != nil {
		app.scene.Destroy(context)
		app.scene = nil
	}
	return nil
}

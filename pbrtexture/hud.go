package pbrtexture

import (
	"fmt"
	"path"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/tpalli/Vulkan/engine/assets"
	"github.com/tpalli/Vulkan/engine/assets/loaders"
	"github.com/tpalli/Vulkan/engine/renderer/overlay"
	"github.com/tpalli/Vulkan/engine/renderer/vulkan"
)

const (
	hudFontFile = "fonts/font.fnt"

	// Upper bound on HUD glyphs, sizes the persistently mapped vertex
	// buffer.
	hudMaxGlyphs = 512

	glyphVertexSize = uint32(unsafe.Sizeof(overlay.GlyphVertex{}))
)

// hudRenderer draws the parameter readout in the corner of the screen. The
// glyph quads are laid out on the CPU and streamed into a persistently
// mapped vertex buffer whenever the text changes.
type hudRenderer struct {
	font    *loaders.FontData
	atlas   *vulkan.VulkanTexture
	overlay *overlay.TextOverlay

	vertexBuffer *vulkan.VulkanBuffer
	glyphCount   uint32

	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	set    vk.DescriptorSet

	vertStage *vulkan.VulkanShaderStage
	fragStage *vulkan.VulkanShaderStage
	pipeline  *vulkan.VulkanPipeline
}

func newHUDRenderer(am *assets.AssetManager, context *vulkan.VulkanContext, renderpass *vulkan.VulkanRenderpass, width, height uint32) (*hudRenderer, error) {
	hr := &hudRenderer{}

	res, err := am.LoadAsset(hudFontFile)
	if err != nil {
		return nil, err
	}
	font, ok := res.Data.(*loaders.FontData)
	if !ok {
		return nil, fmt.Errorf("%s is not a font asset", hudFontFile)
	}
	if len(font.PageFiles) == 0 {
		return nil, fmt.Errorf("font %s references no atlas pages", hudFontFile)
	}
	hr.font = font
	hr.overlay = overlay.NewTextOverlay(font.Descriptor, width, height)

	atlasRes, err := am.LoadAsset(path.Join(path.Dir(hudFontFile), font.PageFiles[0]))
	if err != nil {
		return nil, err
	}
	atlasData, ok := atlasRes.Data.(*loaders.TextureData)
	if !ok {
		return nil, fmt.Errorf("font atlas %s is not an image asset", font.PageFiles[0])
	}
	atlas, err := vulkan.TextureCreate(context, atlasData.Width, atlasData.Height, atlasData.MipLevels, atlasData.Format, atlasData.Pixels, atlasData.MipOffsets)
	if err != nil {
		return nil, fmt.Errorf("failed to upload font atlas: %w", err)
	}
	hr.atlas = atlas

	bufferSize := uint64(hudMaxGlyphs * overlay.VerticesPerGlyph * glyphVertexSize)
	vb, err := vulkan.BufferCreate(context, bufferSize,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		hr.Destroy(context)
		return nil, err
	}
	if err := vb.Map(context); err != nil {
		vb.Destroy(context)
		hr.Destroy(context)
		return nil, err
	}
	hr.vertexBuffer = vb

	if err := hr.createDescriptors(context); err != nil {
		hr.Destroy(context)
		return nil, err
	}
	if err := hr.createPipeline(am, context, renderpass, width, height); err != nil {
		hr.Destroy(context)
		return nil, err
	}
	return hr, nil
}

func (hr *hudRenderer) createDescriptors(context *vulkan.VulkanContext) error {
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &layout); res != vk.Success {
		return fmt.Errorf("vkCreateDescriptorSetLayout failed with %s", vulkan.VulkanResultString(res))
	}
	hr.layout = layout

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: 1},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       1,
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool); res != vk.Success {
		return fmt.Errorf("vkCreateDescriptorPool failed with %s", vulkan.VulkanResultString(res))
	}
	hr.pool = pool

	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     hr.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{hr.layout},
	}
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &hr.set); res != vk.Success {
		return fmt.Errorf("vkAllocateDescriptorSets failed with %s", vulkan.VulkanResultString(res))
	}

	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          hr.set,
			DstBinding:      0,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo:      []vk.DescriptorImageInfo{hr.atlas.DescriptorInfo()},
		},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return nil
}

func (hr *hudRenderer) createPipeline(am *assets.AssetManager, context *vulkan.VulkanContext, renderpass *vulkan.VulkanRenderpass, width, height uint32) error {
	vert, err := loadShaderStage(am, context, "shaders/overlay.vert.spv", vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	hr.vertStage = vert
	frag, err := loadShaderStage(am, context, "shaders/overlay.frag.spv", vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	hr.fragStage = frag

	pipeline, err := vulkan.NewGraphicsPipeline(context, &vulkan.VulkanPipelineConfig{
		Renderpass: renderpass,
		Stride:     glyphVertexSize,
		Attributes: []vk.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(unsafe.Offsetof(overlay.GlyphVertex{}.Position))},
			{Location: 1, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(unsafe.Offsetof(overlay.GlyphVertex{}.Texcoord))},
		},
		DescriptorSetLayouts: []vk.DescriptorSetLayout{hr.layout},
		Stages: []vk.PipelineShaderStageCreateInfo{
			hr.vertStage.ShaderStageCreateInfo,
			hr.fragStage.ShaderStageCreateInfo,
		},
		Viewport:     vk.Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1},
		Scissor:      vk.Rect2D{Extent: vk.Extent2D{Width: width, Height: height}},
		CullMode:     vulkan.FaceCullModeNone,
		DepthTest:    false,
		DepthWrite:   false,
		BlendEnabled: true,
	})
	if err != nil {
		return err
	}
	hr.pipeline = pipeline
	return nil
}

// Rebuild lays the HUD text out again and streams the quads into the vertex
// buffer. Called only when a displayed value changed.
func (hr *hudRenderer) Rebuild(roughness, metallic float32, fps float64) error {
	hr.overlay.Reset()
	hr.overlay.AddText(fmt.Sprintf("%.0f fps", fps), 5.0, 5.0)
	hr.overlay.AddText(fmt.Sprintf("Roughness: %.2f", roughness), 5.0, 85.0)
	hr.overlay.AddText(fmt.Sprintf("Metallic: %.2f", metallic), 5.0, 100.0)

	vertices := hr.overlay.Vertices()
	if len(vertices) == 0 {
		hr.glyphCount = 0
		return nil
	}
	if hr.overlay.GlyphCount() > hudMaxGlyphs {
		return fmt.Errorf("hud text exceeds %d glyphs", hudMaxGlyphs)
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(glyphVertexSize))
	if err := hr.vertexBuffer.LoadData(raw, 0); err != nil {
		return err
	}
	hr.glyphCount = uint32(hr.overlay.GlyphCount())
	return nil
}

func (hr *hudRenderer) Resize(width, height uint32) {
	hr.overlay.Resize(width, height)
}

// Draw records the HUD pass, last in the frame so the text sits on top.
func (hr *hudRenderer) Draw(cb *vulkan.VulkanCommandBuffer) {
	if hr.glyphCount == 0 {
		return
	}
	hr.pipeline.Bind(cb, vk.PipelineBindPointGraphics)
	vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, hr.pipeline.PipelineLayout,
		0, 1, []vk.DescriptorSet{hr.set}, 0, nil)
	vk.CmdBindVertexBuffers(cb.Handle, 0, 1, []vk.Buffer{hr.vertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdDraw(cb.Handle, hr.glyphCount*overlay.VerticesPerGlyph, 1, 0, 0)
}

func (hr *hudRenderer) Destroy(context *vulkan.VulkanContext) {
	if hr.pipeline != nil {
		hr.pipeline.Destroy(context)
		hr.pipeline = nil
	}
	if hr.vertStage != nil {
		hr.vertStage.Destroy(context)
		hr.vertStage = nil
	}
	if hr.fragStage != nil {
		hr.fragStage.Destroy(context)
		hr.fragStage = nil
	}
	if hr.pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, hr.pool, context.Allocator)
		hr.pool = vk.NullDescriptorPool
	}
	if hr.layout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, hr.layout, context.Allocator)
		hr.layout = vk.NullDescriptorSetLayout
	}
	if hr.vertexBuffer != nil {
		hr.vertexBuffer.Destroy(context)
		hr.vertexBuffer = nil
	}
	if hr.atlas != nil {
		hr.atlas.Destroy(context)
		hr.atlas = nil
	}
}

package pbrtexture

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/tpalli/Vulkan/engine/assets"
	"github.com/tpalli/Vulkan/engine/assets/loaders"
	"github.com/tpalli/Vulkan/engine/math"
	"github.com/tpalli/Vulkan/engine/renderer/vulkan"
)

const skyboxCubemapFile = "textures/cubemap_yokohama_bc3_unorm.ktx"

// skyboxRenderer draws the environment cube behind the scene. It has its
// own pipeline with depth writes off and its own descriptor set sampling
// the cubemap.
type skyboxRenderer struct {
	cubemap *vulkan.VulkanTexture

	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	set    vk.DescriptorSet

	vertStage *vulkan.VulkanShaderStage
	fragStage *vulkan.VulkanShaderStage
	pipeline  *vulkan.VulkanPipeline
}

func newSkyboxRenderer(am *assets.AssetManager, context *vulkan.VulkanContext, renderpass *vulkan.VulkanRenderpass, skyboxUBO *vulkan.VulkanBuffer, width, height uint32) (*skyboxRenderer, error) {
	sr := &skyboxRenderer{}

	res, err := am.LoadAsset(skyboxCubemapFile)
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*loaders.TextureData)
	if !ok || !data.IsCubemap() {
		return nil, fmt.Errorf("%s is not a cubemap texture", skyboxCubemapFile)
	}
	cubemap, err := vulkan.TextureCreateCube(context, data.Width, data.Height, data.MipLevels, data.Format, data.Pixels, data.MipOffsets)
	if err != nil {
		return nil, fmt.Errorf("failed to upload skybox cubemap: %w", err)
	}
	sr.cubemap = cubemap

	if err := sr.createDescriptors(context, skyboxUBO); err != nil {
		sr.Destroy(context)
		return nil, err
	}
	if err := sr.createPipeline(am, context, renderpass, width, height); err != nil {
		sr.Destroy(context)
		return nil, err
	}
	return sr, nil
}

func (sr *skyboxRenderer) createDescriptors(context *vulkan.VulkanContext, skyboxUBO *vulkan.VulkanBuffer) error {
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         1,
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
	sr.layout = layout

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: 1},
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
	sr.pool = pool

	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     sr.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{sr.layout},
	}
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &sr.set); res != vk.Success {
		return fmt.Errorf("vkAllocateDescriptorSets failed with %s", vulkan.VulkanResultString(res))
	}

	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          sr.set,
			DstBinding:      0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: skyboxUBO.Handle,
				Offset: 0,
				Range:  vk.DeviceSize(skyboxUBO.Size),
			}},
		},
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          sr.set,
			DstBinding:      1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo:      []vk.DescriptorImageInfo{sr.cubemap.DescriptorInfo()},
		},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return nil
}

func (sr *skyboxRenderer) createPipeline(am *assets.AssetManager, context *vulkan.VulkanContext, renderpass *vulkan.VulkanRenderpass, width, height uint32) error {
	vert, err := loadShaderStage(am, context, "shaders/skybox.vert.spv", vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	sr.vertStage = vert
	frag, err := loadShaderStage(am, context, "shaders/skybox.frag.spv", vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	sr.fragStage = frag

	pipeline, err := vulkan.NewGraphicsPipeline(context, &vulkan.VulkanPipelineConfig{
		Renderpass: renderpass,
		Stride:     uint32(math.Vertex3DSize),
		Attributes: []vk.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(math.Vertex3D{}.Position))},
		},
		DescriptorSetLayouts: []vk.DescriptorSetLayout{sr.layout},
		Stages: []vk.PipelineShaderStageCreateInfo{
			sr.vertStage.ShaderStageCreateInfo,
			sr.fragStage.ShaderStageCreateInfo,
		},
		Viewport: vk.Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1},
		Scissor:  vk.Rect2D{Extent: vk.Extent2D{Width: width, Height: height}},
		CullMode: vulkan.FaceCullModeBack,
		// The cube sits at the far plane, test but never write depth.
		DepthTest:  true,
		DepthWrite: false,
	})
	if err != nil {
		return err
	}
	sr.pipeline = pipeline
	return nil
}

// Draw records the skybox pass. Runs first in the frame so everything else
// renders over it.
func (sr *skyboxRenderer) Draw(cb *vulkan.VulkanCommandBuffer, cube *Model) {
	sr.pipeline.Bind(cb, vk.PipelineBindPointGraphics)
	vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, sr.pipeline.PipelineLayout,
		0, 1, []vk.DescriptorSet{sr.set}, 0, nil)
	vk.CmdBindVertexBuffers(cb.Handle, 0, 1, []vk.Buffer{cube.VertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cb.Handle, cube.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(cb.Handle, cube.IndexCount, 1, 0, 0, 0)
}

func (sr *skyboxRenderer) Destroy(context *vulkan.VulkanContext) {
	if sr.pipeline != nil {
		sr.pipeline.Destroy(context)
		sr.pipeline = nil
	}
	if sr.vertStage != nil {
		sr.vertStage.Destroy(context)
		sr.vertStage = nil
	}
	if sr.fragStage != nil {
		sr.fragStage.Destroy(context)
		sr.fragStage = nil
	}
	if sr.pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, sr.pool, context.Allocator)
		sr.pool = vk.NullDescriptorPool
	}
	if sr.layout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, sr.layout, context.Allocator)
		sr.layout = vk.NullDescriptorSetLayout
	}
	if sr.cubemap != nil {
		sr.cubemap.Destroy(context)
		sr.cubemap = nil
	}
}

// loadShaderStage reads a compiled SPIR-V binary through the asset manager
// and wraps it in a shader module.
func loadShaderStage(am *assets.AssetManager, context *vulkan.VulkanContext, relPath string, stage vk.ShaderStageFlagBits) (*vulkan.VulkanShaderStage, error) {
	res, err := am.LoadAsset(relPath)
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*loaders.ShaderData)
	if !ok {
		return nil, fmt.Errorf("%s is not a shader asset", relPath)
	}
	return vulkan.NewShaderStage(context, data.Bytecode, stage)
}

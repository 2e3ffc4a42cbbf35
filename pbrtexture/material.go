package pbrtexture

import (
	"fmt"
	"path"

	vk "github.com/goki/vulkan"

	"github.com/tpalli/Vulkan/engine/assets"
	"github.com/tpalli/Vulkan/engine/assets/loaders"
	"github.com/tpalli/Vulkan/engine/core"
	"github.com/tpalli/Vulkan/engine/renderer/vulkan"
)

// MaterialSpec names the five texture files of one PBR material, relative
// to the pbr texture directory.
type MaterialSpec struct {
	Name      string
	Albedo    string
	Normal    string
	Metallic  string
	Roughness string
	AO        string
}

// MaterialCatalog is the fixed set of materials the demo shows. Metal has no
// meaningful ambient occlusion map and stone no metallic map, both reuse
// neutral dummy textures.
func MaterialCatalog() []MaterialSpec {
	return []MaterialSpec{
		{
			Name:      "plastic",
			Albedo:    "scuffed_plastic_albedo_bc3.ktx",
			Normal:    "scuffed_plastic_normals_bc3.ktx",
			Metallic:  "scuffed_plastic_metallic_r8.ktx",
			Roughness: "scuffed_plastic_roughness_r8.ktx",
			AO:        "scuffed_plastic_ao_r8.ktx",
		},
		{
			Name:      "metal",
			Albedo:    "greasy_metal_albedo_bc3.ktx",
			Normal:    "greasy_metal_normals_bc3.ktx",
			Metallic:  "greasy_metal_metallic_r8.ktx",
			Roughness: "greasy_metal_roughness_r8.ktx",
			AO:        "_dummy_ao_r8.ktx",
		},
		{
			Name:      "stone",
			Albedo:    "bricks_albedo_bc3.ktx",
			Normal:    "bricks_normals_bc3.ktx",
			Metallic:  "_dummy_metallic_r8.ktx",
			Roughness: "bricks_roughness_r8.ktx",
			AO:        "bricks_ao_r8.ktx",
		},
	}
}

// TextureFiles lists the five files in slot order.
func (ms MaterialSpec) TextureFiles() []string {
	return []string{ms.Albedo, ms.Normal, ms.Metallic, ms.Roughness, ms.AO}
}

// Material is one loaded PBR material: five textures and the descriptor set
// binding them together with the shared uniform buffers.
type Material struct {
	Name string

	Albedo    *vulkan.VulkanTexture
	Normal    *vulkan.VulkanTexture
	Metallic  *vulkan.VulkanTexture
	Roughness *vulkan.VulkanTexture
	AO        *vulkan.VulkanTexture

	DescriptorSet vk.DescriptorSet
}

const pbrTextureDir = "textures/pbr"

// LoadMaterial reads the five KTX textures of the spec through the asset
// manager and uploads them.
func LoadMaterial(am *assets.AssetManager, context *vulkan.VulkanContext, spec MaterialSpec) (*Material, error) {
	mat := &Material{Name: spec.Name}

	slots := []struct {
		file string
		dst  **vulkan.VulkanTexture
	}{
		{spec.Albedo, &mat.Albedo},
		{spec.Normal, &mat.Normal},
		{spec.Metallic, &mat.Metallic},
		{spec.Roughness, &mat.Roughness},
		{spec.AO, &mat.AO},
	}
	for _, slot := range slots {
		res, err := am.LoadAsset(path.Join(pbrTextureDir, slot.file))
		if err != nil {
			mat.Destroy(context)
			return nil, err
		}
		data, ok := res.Data.(*loaders.TextureData)
		if !ok {
			mat.Destroy(context)
			return nil, fmt.Errorf("%s is not a texture asset", slot.file)
		}
		tex, err := vulkan.TextureCreate(context, data.Width, data.Height, data.MipLevels, data.Format, data.Pixels, data.MipOffsets)
		if err != nil {
			mat.Destroy(context)
			return nil, fmt.Errorf("failed to upload %s: %w", slot.file, err)
		}
		*slot.dst = tex
	}

	core.LogInfo("material '%s' loaded", mat.Name)
	return mat, nil
}

// Textures returns the five textures in slot order.
func (m *Material) Textures() []*vulkan.VulkanTexture {
	return []*vulkan.VulkanTexture{m.Albedo, m.Normal, m.Metallic, m.Roughness, m.AO}
}

// TextureCount is the number of loaded texture slots.
func (m *Material) TextureCount() int {
	count := 0
	for _, t := range m.Textures() {
		if t != nil {
			count++
		}
	}
	return count
}

func (m *Material) Destroy(context *vulkan.VulkanContext) {
	for _, t := range m.Textures() {
		if t != nil {
			t.Destroy(context)
		}
	}
	m.Albedo, m.Normal, m.Metallic, m.Roughness, m.AO = nil, nil, nil, nil, nil
}

// materialDescriptors owns the layout and pool behind the per-material
// descriptor sets. The pool is sized for exactly the three catalog
// materials.
type materialDescriptors struct {
	Layout vk.DescriptorSetLayout
	Pool   vk.DescriptorPool
}

func newMaterialDescriptors(context *vulkan.VulkanContext, materialCount uint32) (*materialDescriptors, error) {
	samplerBinding := func(binding uint32) vk.DescriptorSetLayoutBinding {
		return vk.DescriptorSetLayoutBinding{
			Binding:         binding,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		}
	}
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
		samplerBinding(2),
		samplerBinding(3),
		samplerBinding(4),
		samplerBinding(5),
		samplerBinding(6),
	}

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &layout); res != vk.Success {
		return nil, fmt.Errorf("vkCreateDescriptorSetLayout failed with %s", vulkan.VulkanResultString(res))
	}

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: 4 * materialCount},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: 5 * materialCount},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       materialCount,
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool); res != vk.Success {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, layout, context.Allocator)
		return nil, fmt.Errorf("vkCreateDescriptorPool failed with %s", vulkan.VulkanResultString(res))
	}

	return &materialDescriptors{Layout: layout, Pool: pool}, nil
}

// BuildDescriptorSet allocates and writes the material's set. Binding 0 is
// the object matrix UBO, binding 1 the shared parameter UBO. The sampler
// bindings 4 and 5 carry roughness and metallic in that order, swapped
// relative to the struct slot order, matching the fragment shader.
func (md *materialDescriptors) BuildDescriptorSet(context *vulkan.VulkanContext, mat *Material, matricesUBO, paramsUBO *vulkan.VulkanBuffer) error {
	if mat.TextureCount() != 5 {
		return fmt.Errorf("material '%s' has %d of 5 textures loaded", mat.Name, mat.TextureCount())
	}

	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     md.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{md.Layout},
	}
	sets := make([]vk.DescriptorSet, 1)
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &sets[0]); res != vk.Success {
		return fmt.Errorf("vkAllocateDescriptorSets failed with %s", vulkan.VulkanResultString(res))
	}
	mat.DescriptorSet = sets[0]

	bufferWrite := func(binding uint32, buffer *vulkan.VulkanBuffer) vk.WriteDescriptorSet {
		return vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          mat.DescriptorSet,
			DstBinding:      binding,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: buffer.Handle,
				Offset: 0,
				Range:  vk.DeviceSize(buffer.Size),
			}},
		}
	}
	imageWrite := func(binding uint32, tex *vulkan.VulkanTexture) vk.WriteDescriptorSet {
		return vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          mat.DescriptorSet,
			DstBinding:      binding,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo:      []vk.DescriptorImageInfo{tex.DescriptorInfo()},
		}
	}

	writes := []vk.WriteDescriptorSet{
		bufferWrite(0, matricesUBO),
		bufferWrite(1, paramsUBO),
		imageWrite(2, mat.Albedo),
		imageWrite(3, mat.Normal),
		imageWrite(4, mat.Roughness),
		imageWrite(5, mat.Metallic),
		imageWrite(6, mat.AO),
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return nil
}

func (md *materialDescriptors) Destroy(context *vulkan.VulkanContext) {
	if md.Pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, md.Pool, context.Allocator)
		md.Pool = vk.NullDescriptorPool
	}
	if md.Layout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, md.Layout, context.Allocator)
		md.Layout = vk.NullDescriptorSetLayout
	}
}

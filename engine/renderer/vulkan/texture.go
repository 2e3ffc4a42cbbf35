package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/tpalli/Vulkan/engine/core"
)

// VulkanTexture is a sampled 2D image with all mip levels uploaded and a
// sampler configured for trilinear filtering.
type VulkanTexture struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

// TextureCreate uploads pixel data (all mips, tightly packed at mipOffsets)
// into a device-local image ready for sampling in the fragment shader.
func TextureCreate(context *VulkanContext, width, height, mipLevels uint32, format vk.Format, pixels []byte, mipOffsets []uint64) (*VulkanTexture, error) {
	if len(mipOffsets) == 0 {
		mipOffsets = []uint64{0}
	}
	if mipLevels == 0 {
		mipLevels = uint32(len(mipOffsets))
	}

	staging, err := BufferCreate(context, uint64(len(pixels)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, fmt.Errorf("failed to create texture staging buffer: %w", err)
	}

	if err := staging.Map(context); err != nil {
		staging.Destroy(context)
		return nil, err
	}
	if err := staging.LoadData(pixels, 0); err != nil {
		staging.Destroy(context)
		return nil, err
	}
	staging.Unmap(context)

	image, err := ImageCreate(
		context,
		vk.ImageType2d,
		width, height, mipLevels,
		format,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		staging.Destroy(context)
		return nil, fmt.Errorf("failed to create texture image: %w", err)
	}

	return textureUpload(context, image, staging, mipOffsets, vk.SamplerAddressModeRepeat)
}

// TextureCreateCube uploads a cubemap with six faces per mip level. The mip
// offsets address the start of each level, faces are packed consecutively
// within a level.
func TextureCreateCube(context *VulkanContext, width, height, mipLevels uint32, format vk.Format, pixels []byte, mipOffsets []uint64) (*VulkanTexture, error) {
	if len(mipOffsets) == 0 {
		mipOffsets = []uint64{0}
	}
	if mipLevels == 0 {
		mipLevels = uint32(len(mipOffsets))
	}

	staging, err := BufferCreate(context, uint64(len(pixels)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, fmt.Errorf("failed to create cubemap staging buffer: %w", err)
	}

	if err := staging.Map(context); err != nil {
		staging.Destroy(context)
		return nil, err
	}
	if err := staging.LoadData(pixels, 0); err != nil {
		staging.Destroy(context)
		return nil, err
	}
	staging.Unmap(context)

	image, err := ImageCreateCube(
		context,
		width, height, mipLevels,
		format,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		staging.Destroy(context)
		return nil, fmt.Errorf("failed to create cubemap image: %w", err)
	}

	return textureUpload(context, image, staging, mipOffsets, vk.SamplerAddressModeClampToEdge)
}

func textureUpload(context *VulkanContext, image *VulkanImage, staging *VulkanBuffer, mipOffsets []uint64, addressMode vk.SamplerAddressMode) (*VulkanTexture, error) {
	defer staging.Destroy(context)

	cb, err := AllocateAndBeginSingleUse(context, context.Device.GraphicsCommandPool)
	if err != nil {
		return nil, err
	}
	if err := image.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return nil, err
	}
	image.CopyFromBuffer(cb, staging.Handle, mipOffsets)
	if err := image.TransitionLayout(cb, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		return nil, err
	}
	if err := cb.EndSingleUse(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue); err != nil {
		return nil, err
	}

	sampler, err := samplerCreate(context, image.MipLevels, addressMode)
	if err != nil {
		image.ImageDestroy(context)
		return nil, err
	}

	core.LogDebug("texture created: %dx%d, %d mips, %d layers, format %d",
		image.Width, image.Height, image.MipLevels, image.LayerCount, image.Format)
	return &VulkanTexture{
		Image:   image,
		Sampler: sampler,
	}, nil
}

func samplerCreate(context *VulkanContext, mipLevels uint32, addressMode vk.SamplerAddressMode) (vk.Sampler, error) {
	samplerCreateInfo := vk.SamplerCreateInfo{
		SType:         vk.StructureTypeSamplerCreateInfo,
		MagFilter:     vk.FilterLinear,
		MinFilter:     vk.FilterLinear,
		MipmapMode:    vk.SamplerMipmapModeLinear,
		AddressModeU:  addressMode,
		AddressModeV:  addressMode,
		AddressModeW:  addressMode,
		MinLod:        0,
		MaxLod:        float32(mipLevels),
		MaxAnisotropy: 1.0,
		BorderColor:   vk.BorderColorFloatOpaqueWhite,
	}
	if context.Device.SupportsAnisotropy {
		samplerCreateInfo.AnisotropyEnable = vk.True
		context.Device.Properties.Limits.Deref()
		samplerCreateInfo.MaxAnisotropy = context.Device.Properties.Limits.MaxSamplerAnisotropy
	}
	samplerCreateInfo.Deref()

	var sampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerCreateInfo, context.Allocator, &sampler); res != vk.Success {
		return vk.NullSampler, fmt.Errorf("vkCreateSampler failed with %s", VulkanResultString(res))
	}
	return sampler, nil
}

// DescriptorInfo returns the image info used when writing this texture into
// a combined image sampler binding.
func (vt *VulkanTexture) DescriptorInfo() vk.DescriptorImageInfo {
	return vk.DescriptorImageInfo{
		Sampler:     vt.Sampler,
		ImageView:   vt.Image.View,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
}

func (vt *VulkanTexture) Destroy(context *VulkanContext) {
	if vt.Sampler != vk.NullSampler {
		vk.DestroySampler(context.Device.LogicalDevice, vt.Sampler, context.Allocator)
		vt.Sampler = vk.NullSampler
	}
	if vt.Image != nil {
		vt.Image.ImageDestroy(context)
		vt.Image = nil
	}
}

package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   uint64
	// Mapped is non-nil for persistently mapped host-visible buffers.
	Mapped unsafe.Pointer
}

func BufferCreate(context *VulkanContext, size uint64, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	outBuffer := &VulkanBuffer{Size: size}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	bufferCreateInfo.Deref()

	var buffer vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferCreateInfo, context.Allocator, &buffer); res != vk.Success {
		return nil, fmt.Errorf("vkCreateBuffer failed with %s", VulkanResultString(res))
	}
	outBuffer.Handle = buffer

	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, outBuffer.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		return nil, fmt.Errorf("required memory type not found, buffer not valid")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		return nil, fmt.Errorf("vkAllocateMemory for buffer failed with %s", VulkanResultString(res))
	}
	outBuffer.Memory = memory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, outBuffer.Handle, outBuffer.Memory, 0); res != vk.Success {
		return nil, fmt.Errorf("vkBindBufferMemory failed with %s", VulkanResultString(res))
	}
	return outBuffer, nil
}

// BufferCreateUniform makes a host-visible, host-coherent buffer and keeps
// it mapped for its whole lifetime. Writes through LoadData land on the GPU
// without explicit flushes.
func BufferCreateUniform(context *VulkanContext, size uint64) (*VulkanBuffer, error) {
	buffer, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err := buffer.Map(context); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (vb *VulkanBuffer) Map(context *VulkanContext) error {
	var mapped unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, vb.Memory, 0, vk.DeviceSize(vb.Size), 0, &mapped); res != vk.Success {
		return fmt.Errorf("vkMapMemory failed with %s", VulkanResultString(res))
	}
	vb.Mapped = mapped
	return nil
}

func (vb *VulkanBuffer) Unmap(context *VulkanContext) {
	if vb.Mapped != nil {
		vk.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
		vb.Mapped = nil
	}
}

// LoadData copies data into a mapped buffer at the given offset.
func (vb *VulkanBuffer) LoadData(data []byte, offset uint64) error {
	if vb.Mapped == nil {
		return fmt.Errorf("buffer is not mapped")
	}
	if offset+uint64(len(data)) > vb.Size {
		return fmt.Errorf("write of %d bytes at offset %d exceeds buffer size %d", len(data), offset, vb.Size)
	}
	dst := unsafe.Pointer(uintptr(vb.Mapped) + uintptr(offset))
	vk.Memcopy(dst, data)
	return nil
}

// BufferCreateLocalWithData builds a device-local buffer and uploads data
// through a throwaway staging buffer.
func BufferCreateLocalWithData(context *VulkanContext, data []byte, usage vk.BufferUsageFlagBits) (*VulkanBuffer, error) {
	size := uint64(len(data))

	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	if err := staging.Map(context); err != nil {
		return nil, err
	}
	if err := staging.LoadData(data, 0); err != nil {
		return nil, err
	}
	staging.Unmap(context)

	local, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|vk.BufferUsageFlags(usage),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}

	if err := staging.CopyTo(context, local, size); err != nil {
		local.Destroy(context)
		return nil, err
	}
	return local, nil
}

func (vb *VulkanBuffer) CopyTo(context *VulkanContext, dst *VulkanBuffer, size uint64) error {
	cb, err := AllocateAndBeginSingleUse(context, context.Device.GraphicsCommandPool)
	if err != nil {
		return err
	}

	region := vk.BufferCopy{
		Size: vk.DeviceSize(size),
	}
	region.Deref()
	vk.CmdCopyBuffer(cb.Handle, vb.Handle, dst.Handle, 1, []vk.BufferCopy{region})

	return cb.EndSingleUse(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue)
}

func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	vb.Unmap(context)
	if vb.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device.LogicalDevice, vb.Handle, context.Allocator)
		vb.Handle = vk.NullBuffer
	}
	if vb.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, vb.Memory, context.Allocator)
		vb.Memory = vk.NullDeviceMemory
	}
	vb.Size = 0
}

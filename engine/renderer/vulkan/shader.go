package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// VulkanShaderStage pairs a shader module with the pipeline stage info that
// references it.
type VulkanShaderStage struct {
	Handle                vk.ShaderModule
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

// NewShaderStage wraps precompiled SPIR-V bytecode into a shader module.
// The entry point is always "main", matching what glslc emits.
func NewShaderStage(context *VulkanContext, bytecode []uint32, stageFlag vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("shader bytecode is empty")
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(bytecode)) * 4,
		PCode:    bytecode,
	}

	var module vk.ShaderModule
	if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &module); res != vk.Success {
		return nil, fmt.Errorf("vkCreateShaderModule failed with %s", VulkanResultString(res))
	}

	return &VulkanShaderStage{
		Handle: module,
		ShaderStageCreateInfo: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  stageFlag,
			Module: module,
			PName:  VulkanSafeString("main"),
		},
	}, nil
}

func (ss *VulkanShaderStage) Destroy(context *VulkanContext) {
	if ss.Handle != vk.NullShaderModule {
		vk.DestroyShaderModule(context.Device.LogicalDevice, ss.Handle, context.Allocator)
		ss.Handle = vk.NullShaderModule
	}
}

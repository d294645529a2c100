package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

func VulkanResultString(result vk.Result, getExtended bool) string {
	// From: https://www.khronos.org/registry/vulkan/specs/1.3-extensions/man/html/VkResult.html
	switch result {
	case vk.Success:
		return ConditionalOperator(!getExtended, "VK_SUCCESS", "VK_SUCCESS Command successfully completed")
	case vk.NotReady:
		return ConditionalOperator(!getExtended, "VK_NOT_READY", "VK_NOT_READY A fence or query has not yet completed")
	case vk.Timeout:
		return ConditionalOperator(!getExtended, "VK_TIMEOUT", "VK_TIMEOUT A wait operation has not completed in the specified time")
	case vk.Incomplete:
		return ConditionalOperator(!getExtended, "VK_INCOMPLETE", "VK_INCOMPLETE A return array was too small for the result")
	case vk.Suboptimal:
		return ConditionalOperator(!getExtended, "VK_SUBOPTIMAL_KHR", "VK_SUBOPTIMAL_KHR A swapchain no longer matches the surface properties exactly, but can still be used to present to the surface successfully.")
	case vk.ErrorOutOfHostMemory:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_HOST_MEMORY", "VK_ERROR_OUT_OF_HOST_MEMORY A host memory allocation has failed.")
	case vk.ErrorOutOfDeviceMemory:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_DEVICE_MEMORY", "VK_ERROR_OUT_OF_DEVICE_MEMORY A device memory allocation has failed.")
	case vk.ErrorInitializationFailed:
		return ConditionalOperator(!getExtended, "VK_ERROR_INITIALIZATION_FAILED", "VK_ERROR_INITIALIZATION_FAILED Initialization of an object could not be completed for implementation-specific reasons.")
	case vk.ErrorDeviceLost:
		return ConditionalOperator(!getExtended, "VK_ERROR_DEVICE_LOST", "VK_ERROR_DEVICE_LOST The logical or physical device has been lost.")
	case vk.ErrorMemoryMapFailed:
		return ConditionalOperator(!getExtended, "VK_ERROR_MEMORY_MAP_FAILED", "VK_ERROR_MEMORY_MAP_FAILED Mapping of a memory object has failed.")
	case vk.ErrorLayerNotPresent:
		return ConditionalOperator(!getExtended, "VK_ERROR_LAYER_NOT_PRESENT", "VK_ERROR_LAYER_NOT_PRESENT A requested layer is not present or could not be loaded.")
	case vk.ErrorExtensionNotPresent:
		return ConditionalOperator(!getExtended, "VK_ERROR_EXTENSION_NOT_PRESENT", "VK_ERROR_EXTENSION_NOT_PRESENT A requested extension is not supported.")
	case vk.ErrorFeatureNotPresent:
		return ConditionalOperator(!getExtended, "VK_ERROR_FEATURE_NOT_PRESENT", "VK_ERROR_FEATURE_NOT_PRESENT A requested feature is not supported.")
	case vk.ErrorIncompatibleDriver:
		return ConditionalOperator(!getExtended, "VK_ERROR_INCOMPATIBLE_DRIVER", "VK_ERROR_INCOMPATIBLE_DRIVER The requested version of Vulkan is not supported by the driver.")
	case vk.ErrorFormatNotSupported:
		return ConditionalOperator(!getExtended, "VK_ERROR_FORMAT_NOT_SUPPORTED", "VK_ERROR_FORMAT_NOT_SUPPORTED A requested format is not supported on this device.")
	case vk.ErrorSurfaceLost:
		return ConditionalOperator(!getExtended, "VK_ERROR_SURFACE_LOST_KHR", "VK_ERROR_SURFACE_LOST_KHR A surface is no longer available.")
	case vk.ErrorOutOfDate:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_DATE_KHR", "VK_ERROR_OUT_OF_DATE_KHR A surface has changed in such a way that it is no longer compatible with the swapchain.")
	case vk.ErrorOutOfPoolMemory:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_POOL_MEMORY", "VK_ERROR_OUT_OF_POOL_MEMORY A pool memory allocation has failed.")
	}
	return ConditionalOperator(!getExtended, fmt.Sprintf("VK_RESULT(%d)", result), fmt.Sprintf("VK_RESULT(%d) An unknown result was returned.", result))
}

// VulkanResultIsSuccess reports whether result is one of the non-error codes.
func VulkanResultIsSuccess(result vk.Result) bool {
	switch result {
	case vk.Success, vk.NotReady, vk.Timeout, vk.EventSet, vk.EventReset,
		vk.Incomplete, vk.Suboptimal:
		return true
	}
	return false
}

// resultError wraps a failed call. Device loss is reported as core.ErrDeviceLost.
func resultError(result vk.Result, call string) error {
	if result == vk.ErrorDeviceLost {
		return fmt.Errorf("%w: %s", core.ErrDeviceLost, call)
	}
	return fmt.Errorf("%s failed with %s", call, VulkanResultString(result, false))
}

func ConditionalOperator(condition bool, res1, res2 string) string {
	if condition {
		return res1
	}
	return res2
}

var end = "\x00"
var endChar byte = '\x00'

func VulkanSafeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func VulkanSafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = VulkanSafeString(list[i])
	}
	return out
}

func toVulkanCompareOp(op metadata.CompareOp) vk.CompareOp {
	switch op {
	case metadata.CompareNever:
		return vk.CompareOpNever
	case metadata.CompareLess:
		return vk.CompareOpLess
	case metadata.CompareEqual:
		return vk.CompareOpEqual
	case metadata.CompareLessOrEqual:
		return vk.CompareOpLessOrEqual
	case metadata.CompareGreater:
		return vk.CompareOpGreater
	case metadata.CompareNotEqual:
		return vk.CompareOpNotEqual
	case metadata.CompareGreaterOrEqual:
		return vk.CompareOpGreaterOrEqual
	}
	return vk.CompareOpAlways
}

func toVulkanStencilOp(op metadata.StencilOp) vk.StencilOp {
	switch op {
	case metadata.StencilZero:
		return vk.StencilOpZero
	case metadata.StencilReplace:
		return vk.StencilOpReplace
	case metadata.StencilIncrementClamp:
		return vk.StencilOpIncrementAndClamp
	case metadata.StencilDecrementClamp:
		return vk.StencilOpDecrementAndClamp
	case metadata.StencilInvert:
		return vk.StencilOpInvert
	}
	return vk.StencilOpKeep
}

func toVulkanBlendFactor(f metadata.BlendFactor) vk.BlendFactor {
	switch f {
	case metadata.BlendOne:
		return vk.BlendFactorOne
	case metadata.BlendSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case metadata.BlendInvSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	}
	return vk.BlendFactorZero
}

func toVulkanCullMode(mode metadata.CullMode) vk.CullModeFlags {
	switch mode {
	case metadata.CullNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case metadata.CullFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	}
	return vk.CullModeFlags(vk.CullModeBackBit)
}

// The viewport is flipped, so on-screen winding carries over unchanged.
func toVulkanFrontFace(face metadata.FrontFace) vk.FrontFace {
	if face == metadata.FrontFaceCounterClockwise {
		return vk.FrontFaceCounterClockwise
	}
	return vk.FrontFaceClockwise
}

func toVulkanColorMask(mask metadata.ColorWriteMask) vk.ColorComponentFlags {
	var out vk.ColorComponentFlags
	if mask&metadata.ColorWriteR != 0 {
		out |= vk.ColorComponentFlags(vk.ColorComponentRBit)
	}
	if mask&metadata.ColorWriteG != 0 {
		out |= vk.ColorComponentFlags(vk.ColorComponentGBit)
	}
	if mask&metadata.ColorWriteB != 0 {
		out |= vk.ColorComponentFlags(vk.ColorComponentBBit)
	}
	if mask&metadata.ColorWriteA != 0 {
		out |= vk.ColorComponentFlags(vk.ColorComponentABit)
	}
	return out
}

func boolToVulkan(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

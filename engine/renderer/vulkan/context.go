package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
)

/**
 * @brief Device level state shared by the objects of the backend.
 */
type VulkanContext struct {
	FramebufferWidth  uint32
	FramebufferHeight uint32
	// Bumped on every resize. The swapchain is rebuilt while it differs from
	// FramebufferSizeLastGeneration.
	FramebufferSizeGeneration     uint64
	FramebufferSizeLastGeneration uint64

	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device         *VulkanDevice
	Swapchain      *VulkanSwapchain
	MainRenderpass *VulkanRenderpass

	// One per frame slot, signalled when the acquired image may be written.
	ImageAvailableSemaphores []vk.Semaphore
	// One per swapchain image, signalled when rendering into it finished.
	QueueCompleteSemaphores []vk.Semaphore

	// swapchain image acquired for the frame being recorded
	ImageIndex uint32
	// frame ring slot being recorded
	CurrentFrame uint32

	RecreatingSwapchain bool
}

// FindMemoryIndex returns the first memory type allowed by typeFilter that has
// every flag of propertyFlags, or -1.
func (vc *VulkanContext) FindMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &props)
	props.Deref()

	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		props.MemoryTypes[i].Deref()
		flags := uint32(props.MemoryTypes[i].PropertyFlags)
		if typeFilter&(1<<i) != 0 && flags&propertyFlags == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("no memory type matches filter %#x with flags %#x", typeFilter, propertyFlags)
	return -1
}

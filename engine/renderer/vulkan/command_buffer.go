package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type VulkanCommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY VulkanCommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_IN_RENDER_PASS
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
	COMMAND_BUFFER_STATE_NOT_ALLOCATED
)

type VulkanCommandBuffer struct {
	Handle vk.CommandBuffer
	// Command buffer state.
	State VulkanCommandBufferState
}

func NewVulkanCommandBuffer(context *VulkanContext, pool vk.CommandPool) (*VulkanCommandBuffer, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		CommandBufferCount: 1,
		Level:              vk.CommandBufferLevelPrimary,
	}

	handles := make([]vk.CommandBuffer, 1)
	if err := lockPool.SafeCall(CommandPoolManagement, func() error {
		if res := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles); res != vk.Success {
			return resultError(res, "vkAllocateCommandBuffers")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &VulkanCommandBuffer{
		Handle: handles[0],
		State:  COMMAND_BUFFER_STATE_READY,
	}, nil
}

func (v *VulkanCommandBuffer) Free(context *VulkanContext, pool vk.CommandPool) {
	lockPool.SafeCall(CommandPoolManagement, func() error {
		vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{v.Handle})
		return nil
	})
	v.Handle = nil
	v.State = COMMAND_BUFFER_STATE_NOT_ALLOCATED
}

func (v *VulkanCommandBuffer) Begin(isSingleUse bool) error {
	beginInfo := &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if isSingleUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	if res := vk.BeginCommandBuffer(v.Handle, beginInfo); res != vk.Success {
		return resultError(res, "vkBeginCommandBuffer")
	}
	v.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

func (v *VulkanCommandBuffer) End() error {
	if res := vk.EndCommandBuffer(v.Handle); res != vk.Success {
		return resultError(res, "vkEndCommandBuffer")
	}
	v.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

func (v *VulkanCommandBuffer) UpdateSubmitted() {
	v.State = COMMAND_BUFFER_STATE_SUBMITTED
}

/**
 * Allocates and begins recording a one-off command buffer.
 */
func AllocateAndBeginSingleUse(context *VulkanContext, pool vk.CommandPool) (*VulkanCommandBuffer, error) {
	cb, err := NewVulkanCommandBuffer(context, pool)
	if err != nil {
		return nil, err
	}
	if err := cb.Begin(true); err != nil {
		cb.Free(context, pool)
		return nil, err
	}
	return cb, nil
}

/**
 * Ends recording, submits to and waits for queue operation and frees the provided command buffer.
 */
func (v *VulkanCommandBuffer) EndSingleUse(context *VulkanContext, pool vk.CommandPool, queue vk.Queue) error {
	defer v.Free(context, pool)

	if err := v.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{v.Handle},
	}
	return lockPool.SafeQueueCall(uint32(context.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence); res != vk.Success {
			return resultError(res, "vkQueueSubmit")
		}
		if res := vk.QueueWaitIdle(queue); res != vk.Success {
			return resultError(res, "vkQueueWaitIdle")
		}
		return nil
	})
}

// commandAllocator is the command pool of one frame slot with its single
// primary buffer. Reset is refused until the timeline passed the value
// signalled after the last submission recorded from it.
type commandAllocator struct {
	context  *VulkanContext
	timeline *fenceTimeline
	pool     vk.CommandPool
	buffer   *VulkanCommandBuffer
	// zero when nothing recorded from the pool is pending
	value uint64
}

func newCommandAllocator(context *VulkanContext, timeline *fenceTimeline) (*commandAllocator, error) {
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(context.Device.LogicalDevice, &poolCreateInfo, context.Allocator, &pool); res != vk.Success {
		return nil, resultError(res, "vkCreateCommandPool")
	}
	buffer, err := NewVulkanCommandBuffer(context, pool)
	if err != nil {
		vk.DestroyCommandPool(context.Device.LogicalDevice, pool, context.Allocator)
		return nil, err
	}
	return &commandAllocator{context: context, timeline: timeline, pool: pool, buffer: buffer}, nil
}

func (c *commandAllocator) Reset() error {
	if c.value != 0 {
		if completed := c.timeline.Completed(); completed < c.value {
			return fmt.Errorf("command pool reset at timeline %d while value %d is pending", completed, c.value)
		}
		c.value = 0
	}
	if res := vk.ResetCommandPool(c.context.Device.LogicalDevice, c.pool, 0); res != vk.Success {
		return resultError(res, "vkResetCommandPool")
	}
	c.buffer.State = COMMAND_BUFFER_STATE_READY
	return nil
}

func (c *commandAllocator) Release() {
	if c.pool == nil {
		return
	}
	c.buffer.Free(c.context, c.pool)
	vk.DestroyCommandPool(c.context.Device.LogicalDevice, c.pool, c.context.Allocator)
	c.pool = nil
}

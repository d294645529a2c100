package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
)

/**
 * @brief A buffer and its backing memory. Host visible buffers can be mapped
 * once and stay mapped until destroyed.
 */
type VulkanBuffer struct {
	context *VulkanContext
	/** @brief The handle to the internal buffer. */
	Handle vk.Buffer
	/** @brief The memory used by the buffer. */
	Memory vk.DeviceMemory
	/** @brief The total size of the buffer in bytes. */
	TotalSize uint64
	/** @brief The usage flags. */
	Usage vk.BufferUsageFlags
	/** @brief The memory property flags. */
	MemoryPropertyFlags uint32

	mapped []byte
}

func BufferCreate(context *VulkanContext, size uint64, usage vk.BufferUsageFlags, memoryPropertyFlags uint32) (*VulkanBuffer, error) {
	out := &VulkanBuffer{
		context:             context,
		TotalSize:           size,
		Usage:               usage,
		MemoryPropertyFlags: memoryPropertyFlags,
	}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	var handle vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &handle); res != vk.Success {
		return nil, resultError(res, "vkCreateBuffer")
	}
	out.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, handle, &requirements)
	requirements.Deref()

	memoryIndex := context.FindMemoryIndex(requirements.MemoryTypeBits, memoryPropertyFlags)
	if memoryIndex == -1 {
		out.Destroy()
		return nil, fmt.Errorf("%w: no memory type for buffer of %d bytes", core.ErrResourceCreation, size)
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		out.Destroy()
		return nil, resultError(res, "vkAllocateMemory")
	}
	out.Memory = memory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, handle, memory, 0); res != vk.Success {
		out.Destroy()
		return nil, resultError(res, "vkBindBufferMemory")
	}
	return out, nil
}

// Map maps the whole buffer persistently. Calling it again returns the same range.
func (b *VulkanBuffer) Map() ([]byte, error) {
	if b.mapped != nil {
		return b.mapped, nil
	}
	var data unsafe.Pointer
	if res := vk.MapMemory(b.context.Device.LogicalDevice, b.Memory, 0, vk.DeviceSize(b.TotalSize), 0, &data); res != vk.Success {
		return nil, resultError(res, "vkMapMemory")
	}
	b.mapped = unsafe.Slice((*byte)(data), int(b.TotalSize))
	return b.mapped, nil
}

// Bytes implements frame.MappedMemory.
func (b *VulkanBuffer) Bytes() []byte {
	return b.mapped
}

// Release implements frame.MappedMemory.
func (b *VulkanBuffer) Release() {
	b.Destroy()
}

func (b *VulkanBuffer) Destroy() {
	device := b.context.Device.LogicalDevice
	if b.mapped != nil {
		vk.UnmapMemory(device, b.Memory)
		b.mapped = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(device, b.Memory, b.context.Allocator)
		b.Memory = nil
	}
	if b.Handle != nil {
		vk.DestroyBuffer(device, b.Handle, b.context.Allocator)
		b.Handle = nil
	}
	b.TotalSize = 0
}

// CopyTo records a copy of size bytes into dest and waits for it on queue.
func (b *VulkanBuffer) CopyTo(pool vk.CommandPool, queue vk.Queue, dest *VulkanBuffer, size uint64) error {
	cb, err := AllocateAndBeginSingleUse(b.context, pool)
	if err != nil {
		return err
	}
	vk.CmdCopyBuffer(cb.Handle, b.Handle, dest.Handle, 1, []vk.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      vk.DeviceSize(size),
	}})
	return cb.EndSingleUse(b.context, pool, queue)
}

// uploadDeviceLocal creates a device local buffer and fills it with data
// through a staging buffer.
func uploadDeviceLocal(context *VulkanContext, data []byte, usage vk.BufferUsageFlags) (*VulkanBuffer, error) {
	size := uint64(len(data))
	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		uint32(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	mapped, err := staging.Map()
	if err != nil {
		return nil, err
	}
	copy(mapped, data)

	buffer, err := BufferCreate(context, size,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		uint32(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	if err := staging.CopyTo(context.Device.GraphicsCommandPool, context.Device.GraphicsQueue, buffer, size); err != nil {
		buffer.Destroy()
		return nil, err
	}
	return buffer, nil
}

func bufferUsageFlags(usage frame.BufferUsage) vk.BufferUsageFlags {
	switch usage {
	case frame.BufferUsageVertex:
		return vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	case frame.BufferUsageIndex:
		return vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	}
	return vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit)
}

package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

/**
 * @brief Device local vertex and index buffers of an uploaded geometry,
 * stored in metadata.Geometry.InternalData.
 */
type vulkanGeometryData struct {
	Vertices    *VulkanBuffer
	Indices     *VulkanBuffer
	VertexCount uint32
	IndexCount  uint32
}

func (g *vulkanGeometryData) destroy() {
	if g.Vertices != nil {
		g.Vertices.Destroy()
	}
	if g.Indices != nil {
		g.Indices.Destroy()
	}
}

func uploadGeometry(context *VulkanContext, geometry *metadata.Geometry) (*vulkanGeometryData, error) {
	if len(geometry.Vertices) == 0 || len(geometry.Indices) == 0 {
		return nil, fmt.Errorf("%w: geometry '%s' is empty", core.ErrResourceCreation, geometry.Name)
	}
	for _, i := range geometry.Indices {
		if int(i) >= len(geometry.Vertices) {
			return nil, fmt.Errorf("%w: geometry '%s' index %d out of range", core.ErrResourceCreation, geometry.Name, i)
		}
	}

	vertexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&geometry.Vertices[0])), len(geometry.Vertices)*int(unsafe.Sizeof(math.Vertex3D{})))
	indexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&geometry.Indices[0])), len(geometry.Indices)*2)

	out := &vulkanGeometryData{
		VertexCount: uint32(len(geometry.Vertices)),
		IndexCount:  uint32(len(geometry.Indices)),
	}
	var err error
	if out.Vertices, err = uploadDeviceLocal(context, vertexBytes, bufferUsageFlags(frame.BufferUsageVertex)); err != nil {
		return nil, err
	}
	if out.Indices, err = uploadDeviceLocal(context, indexBytes, bufferUsageFlags(frame.BufferUsageIndex)); err != nil {
		out.destroy()
		return nil, err
	}
	return out, nil
}

/**
 * @brief Image and sampler of an uploaded texture, stored in
 * metadata.Texture.InternalData.
 */
type vulkanTextureData struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

func (t *vulkanTextureData) destroy(context *VulkanContext) {
	if t.Sampler != nil {
		vk.DestroySampler(context.Device.LogicalDevice, t.Sampler, context.Allocator)
		t.Sampler = nil
	}
	if t.Image != nil {
		t.Image.ImageDestroy(context)
		t.Image = nil
	}
}

func (t *vulkanTextureData) descriptor() vk.DescriptorImageInfo {
	return vk.DescriptorImageInfo{
		Sampler:     t.Sampler,
		ImageView:   t.Image.View,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
}

func toVulkanFilter(f metadata.TextureFilter) vk.Filter {
	if f == metadata.TextureFilterModeNearest {
		return vk.FilterNearest
	}
	return vk.FilterLinear
}

func toVulkanAddressMode(r metadata.TextureRepeat) vk.SamplerAddressMode {
	if r == metadata.TextureRepeatClampToEdge {
		return vk.SamplerAddressModeClampToEdge
	}
	return vk.SamplerAddressModeRepeat
}

func uploadTexture(context *VulkanContext, texture *metadata.Texture) (*vulkanTextureData, error) {
	if texture.Width == 0 || texture.Height == 0 || len(texture.Pixels) != int(texture.Width*texture.Height*4) {
		return nil, fmt.Errorf("%w: texture '%s' has %d bytes for %dx%d", core.ErrResourceCreation, texture.Name, len(texture.Pixels), texture.Width, texture.Height)
	}

	staging, err := BufferCreate(context, uint64(len(texture.Pixels)),
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
	copy(mapped, texture.Pixels)

	image, err := ImageCreate(context, texture.Width, texture.Height,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}
	out := &vulkanTextureData{Image: image}

	pool := context.Device.GraphicsCommandPool
	cb, err := AllocateAndBeginSingleUse(context, pool)
	if err != nil {
		out.destroy(context)
		return nil, err
	}
	if err := image.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		cb.EndSingleUse(context, pool, context.Device.GraphicsQueue)
		out.destroy(context)
		return nil, err
	}
	image.CopyFromBuffer(staging.Handle, cb)
	if err := image.TransitionLayout(cb, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		cb.EndSingleUse(context, pool, context.Device.GraphicsQueue)
		out.destroy(context)
		return nil, err
	}
	if err := cb.EndSingleUse(context, pool, context.Device.GraphicsQueue); err != nil {
		out.destroy(context)
		return nil, err
	}

	addressMode := toVulkanAddressMode(texture.Repeat)
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               toVulkanFilter(texture.FilterMagnify),
		MinFilter:               toVulkanFilter(texture.FilterMinify),
		AddressModeU:            addressMode,
		AddressModeV:            addressMode,
		AddressModeW:            addressMode,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &out.Sampler); res != vk.Success {
		out.destroy(context)
		return nil, resultError(res, "vkCreateSampler")
	}
	return out, nil
}

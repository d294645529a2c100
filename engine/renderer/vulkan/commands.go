package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// noTexture tells the fragment shader to sample white.
const noTexture int32 = -1

// commandList records straight into the slot's primary command buffer.
// Bind calls only move dynamic offsets; they reach the buffer right before
// the next draw.
type commandList struct {
	backend   *VulkanRenderer
	slot      *frame.Resource
	allocator *commandAllocator
	buffer    *VulkanCommandBuffer
	set       vk.DescriptorSet

	pipeline *VulkanPipeline
	offsets  [bindingTextures]uint32
	texture  int32
	// descriptor offsets or push constant changed since the last draw
	dirty bool
	// first recording failure, returned by EndFrame
	err error
}

func (l *commandList) fail(format string, args ...interface{}) {
	if l.err == nil {
		l.err = fmt.Errorf("%w: %s", core.ErrDeviceLost, fmt.Sprintf(format, args...))
	}
}

func (l *commandList) SetPipeline(kind metadata.PipelineKind) {
	p := l.backend.pipelines[kind]
	if p == nil {
		l.fail("pipeline '%s' was never created", kind)
		return
	}
	if p == l.pipeline {
		return
	}
	p.Bind(l.buffer, vk.PipelineBindPointGraphics)
	l.pipeline = p
	l.dirty = true
}

func (l *commandList) SetStencilRef(ref uint32) {
	vk.CmdSetStencilReference(l.buffer.Handle, vk.StencilFaceFlags(vk.StencilFaceFrontBit|vk.StencilFaceBackBit), ref)
}

func (l *commandList) BindCommon(index int) {
	l.offsets[bindingCommon] = uint32(l.slot.Common.Offset(index))
	l.dirty = true
}

func (l *commandList) BindObject(index int) {
	l.offsets[bindingObject] = uint32(l.slot.Objects.Offset(index))
	l.dirty = true
}

func (l *commandList) BindMaterial(index int, diffuseTexture int) {
	l.offsets[bindingMaterial] = uint32(l.slot.Materials.Offset(index))
	l.texture = noTexture
	if diffuseTexture >= 0 && diffuseTexture < int(VULKAN_MAX_TEXTURE_COUNT) {
		l.texture = int32(diffuseTexture)
	}
	l.dirty = true
}

func (l *commandList) DrawIndexed(geometry *metadata.Geometry, submesh metadata.Submesh) {
	if l.pipeline == nil {
		l.fail("draw of '%s' without a pipeline", geometry.Name)
		return
	}
	data, ok := geometry.InternalData.(*vulkanGeometryData)
	if !ok {
		l.fail("draw of '%s' before upload", geometry.Name)
		return
	}

	cb := l.buffer.Handle
	if l.dirty {
		vk.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, l.pipeline.PipelineLayout,
			0, 1, []vk.DescriptorSet{l.set}, uint32(len(l.offsets)), l.offsets[:])
		texture := l.texture
		vk.CmdPushConstants(cb, l.pipeline.PipelineLayout, vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			0, pushConstantSize, unsafe.Pointer(&texture))
		l.dirty = false
	}

	vk.CmdBindVertexBuffers(cb, 0, 1, []vk.Buffer{data.Vertices.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cb, data.Indices.Handle, 0, vk.IndexTypeUint16)
	vk.CmdDrawIndexed(cb, submesh.IndexCount, 1, submesh.StartIndex, submesh.BaseVertex, 0)
}

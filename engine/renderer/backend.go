package renderer

import (
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// RendererBackend is the device a frame is recorded into and submitted to.
type RendererBackend interface {
	frame.ResourceDevice

	Initialize(config metadata.RendererBackendConfig, width, height uint32) error
	Shutdown() error
	Resized(width, height uint32) error

	// Timeline advances once per Signal, after the preceding submissions finished.
	Timeline() frame.Timeline

	CreatePipelines(configs [metadata.PipelineKindCount]metadata.PipelineConfig, pass metadata.RenderPassConfig) error
	UploadGeometry(geometry *metadata.Geometry) error
	UploadTexture(texture *metadata.Texture) error

	// BeginFrame resets the slot's command allocator, acquires the back buffer
	// and opens the render pass with the configured clears.
	BeginFrame(slot *frame.Resource) (CommandList, error)
	// EndFrame closes the render pass and submits the list.
	EndFrame(list CommandList) error
	// Signal asks the device to advance its timeline to value once everything
	// submitted so far finished.
	Signal(value uint64) error
	Present() error
}

// CommandList records draws against the constant buffers of one frame slot.
type CommandList interface {
	SetPipeline(kind metadata.PipelineKind)
	SetStencilRef(ref uint32)
	// BindCommon selects which copy of the common constants the next draws read.
	BindCommon(index int)
	BindObject(index int)
	BindMaterial(index int, diffuseTexture int)
	DrawIndexed(geometry *metadata.Geometry, submesh metadata.Submesh)
}

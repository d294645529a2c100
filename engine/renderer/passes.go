package renderer

import (
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// Scene is the read-only view of the render item registry the passes draw from.
type Scene interface {
	Layer(l metadata.RenderLayer) []metadata.RenderItemHandle
	Get(handle metadata.RenderItemHandle) *metadata.RenderItem
}

/**
 * @brief One step of the frame: a pipeline, the stencil reference it tests
 * against, the layer it draws and the common constants it reads.
 */
type Pass struct {
	Name       string
	Pipeline   metadata.PipelineKind
	StencilRef uint32
	Layer      metadata.RenderLayer
	CommonSlot int
}

/**
 * @brief The mirror frame. Opaque geometry first, then the mirror is marked in
 * the stencil, the reflection is drawn only where it is marked, the mirror is
 * blended over it and finally shadows darken each pixel at most once.
 */
var DefaultPasses = []Pass{
	{
		Name:       "opaque",
		Pipeline:   metadata.PipelineOpaque,
		StencilRef: 0,
		Layer:      metadata.RenderLayerOpaque,
		CommonSlot: metadata.CommonSlotPrimary,
	},
	{
		Name:       "markMirrorStencil",
		Pipeline:   metadata.PipelineMarkStencilMirror,
		StencilRef: 1,
		Layer:      metadata.RenderLayerMirror,
		CommonSlot: metadata.CommonSlotPrimary,
	},
	{
		Name:       "drawReflection",
		Pipeline:   metadata.PipelineDrawStencilReflections,
		StencilRef: 1,
		Layer:      metadata.RenderLayerReflected,
		CommonSlot: metadata.CommonSlotReflected,
	},
	{
		Name:       "restoreTransparent",
		Pipeline:   metadata.PipelineTransparent,
		StencilRef: 0,
		Layer:      metadata.RenderLayerTransparent,
		CommonSlot: metadata.CommonSlotPrimary,
	},
	{
		Name:       "drawShadow",
		Pipeline:   metadata.PipelineShadow,
		StencilRef: 0,
		Layer:      metadata.RenderLayerShadow,
		CommonSlot: metadata.CommonSlotPrimary,
	},
}

// Orchestrator records the passes into a command list.
type Orchestrator struct {
	passes []Pass
}

func NewOrchestrator(passes []Pass) *Orchestrator {
	return &Orchestrator{passes: passes}
}

func (o *Orchestrator) Passes() []Pass {
	return o.passes
}

/**
 * @brief Records every pass in order. State is only re-issued when it
 * differs from the previous pass.
 */
func (o *Orchestrator) Record(list CommandList, scene Scene) {
	pipeline := metadata.PipelineKindCount
	ref := ^uint32(0)
	common := -1

	for _, pass := range o.passes {
		if pass.StencilRef != ref {
			list.SetStencilRef(pass.StencilRef)
			ref = pass.StencilRef
		}
		if pass.Pipeline != pipeline {
			list.SetPipeline(pass.Pipeline)
			pipeline = pass.Pipeline
		}
		if pass.CommonSlot != common {
			list.BindCommon(pass.CommonSlot)
			common = pass.CommonSlot
		}
		drawRenderItems(list, scene, scene.Layer(pass.Layer))
	}
}

func drawRenderItems(list CommandList, scene Scene, handles []metadata.RenderItemHandle) {
	for _, h := range handles {
		item := scene.Get(h)
		list.BindObject(item.ObjectIndex)
		list.BindMaterial(item.Material.BufferIndex, item.Material.DiffuseTextureIndex)
		list.DrawIndexed(item.Geometry, item.Submesh)
	}
}

package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingList struct {
	calls []string
}

func (l *recordingList) SetPipeline(kind metadata.PipelineKind) {
	l.calls = append(l.calls, "pipeline "+kind.String())
}
func (l *recordingList) SetStencilRef(ref uint32) {
	l.calls = append(l.calls, fmt.Sprintf("ref %d", ref))
}
func (l *recordingList) BindCommon(index int) {
	l.calls = append(l.calls, fmt.Sprintf("common %d", index))
}
func (l *recordingList) BindObject(index int) {
	l.calls = append(l.calls, fmt.Sprintf("object %d", index))
}
func (l *recordingList) BindMaterial(index int, diffuseTexture int) {
	l.calls = append(l.calls, fmt.Sprintf("material %d tex %d", index, diffuseTexture))
}
func (l *recordingList) DrawIndexed(geometry *metadata.Geometry, submesh metadata.Submesh) {
	l.calls = append(l.calls, fmt.Sprintf("draw %s %d", geometry.Name, submesh.StartIndex))
}

type layeredScene struct {
	items  []*metadata.RenderItem
	layers [metadata.RenderLayerCount][]metadata.RenderItemHandle
}

func (s *layeredScene) add(index int, material *metadata.Material, layers ...metadata.RenderLayer) {
	h := metadata.RenderItemHandle(len(s.items))
	s.items = append(s.items, &metadata.RenderItem{
		ObjectIndex: index,
		Geometry:    &metadata.Geometry{Name: "geo"},
		Submesh:     metadata.Submesh{StartIndex: uint32(index * 6), IndexCount: 6},
		Material:    material,
		Layers:      layers,
	})
	for _, l := range layers {
		s.layers[l] = append(s.layers[l], h)
	}
}

func (s *layeredScene) Layer(l metadata.RenderLayer) []metadata.RenderItemHandle {
	return s.layers[l]
}

func (s *layeredScene) Get(h metadata.RenderItemHandle) *metadata.RenderItem {
	return s.items[h]
}

func TestOrchestratorRecordsFivePassesInOrder(t *testing.T) {
	wall := &metadata.Material{BufferIndex: 0, DiffuseTextureIndex: 0}
	glass := &metadata.Material{BufferIndex: 2, DiffuseTextureIndex: 2}
	shadow := &metadata.Material{BufferIndex: 4, DiffuseTextureIndex: 3}

	scene := &layeredScene{}
	scene.add(1, wall, metadata.RenderLayerOpaque)
	scene.add(2, glass, metadata.RenderLayerMirror, metadata.RenderLayerTransparent)
	scene.add(7, wall, metadata.RenderLayerReflected)
	scene.add(8, shadow, metadata.RenderLayerShadow)

	list := &recordingList{}
	NewOrchestrator(DefaultPasses).Record(list, scene)

	assert.Equal(t, []string{
		"ref 0", "pipeline opaque", "common 0",
		"object 1", "material 0 tex 0", "draw geo 6",
		"ref 1", "pipeline markStencilMirror",
		"object 2", "material 2 tex 2", "draw geo 12",
		"pipeline drawStencilReflections", "common 1",
		"object 7", "material 0 tex 0", "draw geo 42",
		"ref 0", "pipeline transparent", "common 0",
		"object 2", "material 2 tex 2", "draw geo 12",
		"pipeline shadow",
		"object 8", "material 4 tex 3", "draw geo 48",
	}, list.calls)
}

func TestOrchestratorEmptyLayers(t *testing.T) {
	list := &recordingList{}
	NewOrchestrator(DefaultPasses).Record(list, &layeredScene{})
	require.NotEmpty(t, list.calls)
	for _, c := range list.calls {
		for _, prefix := range []string{"object ", "material ", "draw "} {
			assert.False(t, strings.HasPrefix(c, prefix), "unexpected %q", c)
		}
	}
	assert.Contains(t, list.calls, "pipeline drawStencilReflections")
}

func TestDefaultPasses(t *testing.T) {
	passes := NewOrchestrator(DefaultPasses).Passes()
	assert.Len(t, passes, 5)
	for _, p := range passes {
		if p.Pipeline == metadata.PipelineDrawStencilReflections {
			assert.Equal(t, metadata.CommonSlotReflected, p.CommonSlot)
			assert.Equal(t, uint32(1), p.StencilRef)
		} else {
			assert.Equal(t, metadata.CommonSlotPrimary, p.CommonSlot)
		}
	}
}

func TestDefaultPipelineConfigs(t *testing.T) {
	configs := DefaultPipelineConfigs()
	for kind, c := range configs {
		assert.Equal(t, metadata.PipelineKind(kind), c.Kind)
		assert.Equal(t, BuiltinVertexShader, c.VertexShader)
	}

	opaque := configs[metadata.PipelineOpaque]
	assert.False(t, opaque.DepthStencil.StencilTest)
	assert.False(t, opaque.Blend.Enabled)
	assert.Equal(t, metadata.FrontFaceClockwise, opaque.Raster.FrontFace)

	mark := configs[metadata.PipelineMarkStencilMirror]
	assert.Equal(t, metadata.ColorWriteMask(0), mark.Blend.WriteMask)
	assert.False(t, mark.DepthStencil.DepthWrite)
	assert.True(t, mark.DepthStencil.DepthTest)
	assert.Equal(t, metadata.CompareAlways, mark.DepthStencil.Front.Compare)
	assert.Equal(t, metadata.StencilReplace, mark.DepthStencil.Back.PassOp)

	reflection := configs[metadata.PipelineDrawStencilReflections]
	assert.Equal(t, metadata.FrontFaceCounterClockwise, reflection.Raster.FrontFace)
	assert.Equal(t, metadata.CompareEqual, reflection.DepthStencil.Front.Compare)
	assert.Equal(t, metadata.StencilKeep, reflection.DepthStencil.Front.PassOp)

	transparent := configs[metadata.PipelineTransparent]
	assert.True(t, transparent.Blend.Enabled)
	assert.Equal(t, metadata.BlendSrcAlpha, transparent.Blend.SrcColor)
	assert.Equal(t, metadata.BlendInvSrcAlpha, transparent.Blend.DstColor)
	assert.False(t, transparent.DepthStencil.StencilTest)

	shadow := configs[metadata.PipelineShadow]
	assert.True(t, shadow.Blend.Enabled)
	assert.Equal(t, metadata.CompareEqual, shadow.DepthStencil.Front.Compare)
	assert.Equal(t, metadata.StencilIncrementClamp, shadow.DepthStencil.Front.PassOp)
	assert.True(t, shadow.DepthStencil.DepthWrite)
}

func TestReflectedConstantsMirrorLights(t *testing.T) {
	packet := &RenderPacket{
		View:        math.NewMat4Identity(),
		Projection:  math.NewMat4PerspectiveLH(math.K_QUARTER_PI, 16.0/9.0, 1, 1000),
		Width:       1280,
		Height:      720,
		MirrorPlane: math.Plane{A: 0, B: 0, C: 1, D: 0},
		Lights: []metadata.Light{
			{Direction: math.NewVec3(0.57735, -0.70735, 0.57735), Strength: math.NewVec3(0.8, 0.8, 0.8)},
		},
	}
	primary := BuildCommonConstants(packet)
	assert.InDelta(t, 1.0/1280.0, primary.InvRenderTargetSize.X, 1e-9)
	assert.Equal(t, packet.Lights[0], primary.Lights[0])

	reflected := BuildReflectedConstants(primary, packet.MirrorPlane)
	assert.True(t, reflected.Lights[0].Direction.Compare(math.NewVec3(0.57735, -0.70735, -0.57735), 1e-5))
	assert.Equal(t, primary.Lights[0].Strength, reflected.Lights[0].Strength)
	assert.Equal(t, primary.ViewProj, reflected.ViewProj)
	// the primary copy is left alone
	assert.InDelta(t, 0.57735, primary.Lights[0].Direction.Z, 1e-6)
}

func TestCommonConstantsAreTransposed(t *testing.T) {
	view := math.NewMat4Translation(math.NewVec3(1, 2, 3))
	cc := BuildCommonConstants(&RenderPacket{View: view, Projection: math.NewMat4Identity()})
	assert.Equal(t, view.Transposed(), cc.View)
	assert.Equal(t, view.Transposed(), cc.ViewProj)
	assert.True(t, cc.InvView.Transposed().Compare(view.Inverse(), 1e-6))
	assert.Equal(t, math.Vec2{}, cc.InvRenderTargetSize)
}

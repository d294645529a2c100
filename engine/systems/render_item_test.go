package systems

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScene struct {
	textures  *TextureSystem
	materials *MaterialSystem
	items     *RenderItemSystem
	geometry  *metadata.Geometry
}

func newTestScene(t *testing.T, framesInFlight int) *testScene {
	t.Helper()
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 4, MaxTextureSize: 256}, nil, &recordingUploader{})
	require.NoError(t, err)
	_, err = ts.Load("white1x1")
	require.NoError(t, err)

	ms, err := NewMaterialSystem(MaterialSystemConfig{MaxMaterialCount: 4, FramesInFlight: framesInFlight}, ts)
	require.NoError(t, err)
	for _, name := range []string{"whitesurface", "shadow"} {
		_, err = ms.Create(MaterialConfig{Name: name, DiffuseTextureName: "white1x1", DiffuseAlbedo: math.NewVec4(1, 1, 1, 1)})
		require.NoError(t, err)
	}

	gs, err := NewGeometrySystem(GeometrySystemConfig{MaxGeometryCount: 1}, nil)
	require.NoError(t, err)
	g, err := gs.Create("pendulumGeo", []NamedMesh{
		{Name: "ceiling", Mesh: GenerateBox(2, 0.2, 2)},
		{Name: "sphere", Mesh: GenerateSphere(0.2, 10, 10)},
	})
	require.NoError(t, err)

	rs, err := NewRenderItemSystem(RenderItemSystemConfig{MaxRenderItemCount: 8, FramesInFlight: framesInFlight})
	require.NoError(t, err)
	return &testScene{textures: ts, materials: ms, items: rs, geometry: g}
}

func (s *testScene) addBall(t *testing.T, index int) metadata.RenderItemHandle {
	t.Helper()
	h, err := s.items.Add(RenderItemConfig{
		Name:        "ball",
		ObjectIndex: index,
		World:       math.NewMat4Translation(math.NewVec3(0, 3, -5)),
		Geometry:    s.geometry,
		Submesh:     "sphere",
		Material:    s.materials.MustGet("whitesurface"),
		Layers:      []metadata.RenderLayer{metadata.RenderLayerOpaque},
	})
	require.NoError(t, err)
	return h
}

func TestRenderItemAdd(t *testing.T) {
	s := newTestScene(t, 3)
	h := s.addBall(t, 0)

	item := s.items.Get(h)
	assert.Equal(t, 3, item.Refresh)
	assert.Equal(t, math.NewMat4Identity(), item.TexTransform)
	assert.Equal(t, "sphere", item.SubmeshName)
	assert.Equal(t, s.geometry.Submeshes["sphere"], item.Submesh)
	assert.Equal(t, []metadata.RenderItemHandle{h}, s.items.Layer(metadata.RenderLayerOpaque))
	assert.Empty(t, s.items.Layer(metadata.RenderLayerShadow))

	got, ok := s.items.Lookup("ball")
	assert.True(t, ok)
	assert.Equal(t, h, got)
}

func TestRenderItemAddRejectsBadInput(t *testing.T) {
	s := newTestScene(t, 3)
	base := RenderItemConfig{
		Name:     "x",
		Geometry: s.geometry,
		Submesh:  "ceiling",
		Material: s.materials.MustGet("whitesurface"),
		Layers:   []metadata.RenderLayer{metadata.RenderLayerOpaque},
	}

	missing := base
	missing.Submesh = "wire"
	_, err := s.items.Add(missing)
	assert.Error(t, err)

	noLayer := base
	noLayer.Layers = nil
	_, err = s.items.Add(noLayer)
	assert.Error(t, err)

	noMaterial := base
	noMaterial.Material = nil
	_, err = s.items.Add(noMaterial)
	assert.Error(t, err)
}

func TestRenderItemInvariantViolationsPanic(t *testing.T) {
	s := newTestScene(t, 3)
	s.addBall(t, 2)

	assert.Panics(t, func() {
		_, _ = s.items.Add(RenderItemConfig{
			Name:        "other",
			ObjectIndex: 2,
			Geometry:    s.geometry,
			Submesh:     "ceiling",
			Material:    s.materials.MustGet("whitesurface"),
			Layers:      []metadata.RenderLayer{metadata.RenderLayerOpaque},
		})
	})
	assert.Panics(t, func() {
		_, _ = s.items.Add(RenderItemConfig{
			Name:        "too far",
			ObjectIndex: 8,
			Geometry:    s.geometry,
			Submesh:     "ceiling",
			Material:    s.materials.MustGet("whitesurface"),
			Layers:      []metadata.RenderLayer{metadata.RenderLayerOpaque},
		})
	})
	assert.Panics(t, func() { s.items.Get(5) })
	assert.Panics(t, func() { s.items.Get(metadata.InvalidRenderItemHandle) })
}

func TestRenderItemDerive(t *testing.T) {
	s := newTestScene(t, 3)
	ball := s.addBall(t, 0)

	shadow, err := s.items.Derive(ball, RenderItemOverrides{
		Name:        "ball.shadow",
		ObjectIndex: 2,
		Material:    s.materials.MustGet("shadow"),
		Layer:       metadata.RenderLayerShadow,
	})
	require.NoError(t, err)
	reflected, err := s.items.Derive(ball, RenderItemOverrides{
		Name:        "ball.reflected",
		ObjectIndex: 1,
		Layer:       metadata.RenderLayerReflected,
	})
	require.NoError(t, err)

	b, sh, r := s.items.Get(ball), s.items.Get(shadow), s.items.Get(reflected)
	assert.Equal(t, b.Submesh, sh.Submesh)
	assert.Same(t, b.Geometry, sh.Geometry)
	assert.Equal(t, b.World, sh.World)
	assert.Equal(t, "shadow", sh.Material.Name)
	assert.Same(t, b.Material, r.Material)
	assert.Equal(t, []metadata.RenderLayer{metadata.RenderLayerShadow}, sh.Layers)
	assert.Equal(t, []metadata.RenderItemHandle{shadow}, s.items.Layer(metadata.RenderLayerShadow))
	assert.Equal(t, []metadata.RenderItemHandle{reflected}, s.items.Layer(metadata.RenderLayerReflected))
	assert.Equal(t, 3, s.items.Count())
}

func TestSetWorldRearmsOnlyOnChange(t *testing.T) {
	s := newTestScene(t, 3)
	h := s.addBall(t, 0)
	item := s.items.Get(h)
	item.Refresh = 0

	s.items.SetWorld(h, item.World)
	assert.Equal(t, 0, item.Refresh)

	s.items.SetWorld(h, math.NewMat4Identity())
	assert.Equal(t, 3, item.Refresh)

	item.Refresh = 1
	s.items.SetTexTransform(h, item.TexTransform)
	assert.Equal(t, 1, item.Refresh)
	s.items.SetTexTransform(h, math.NewMat4Scale(math.NewVec3(2, 2, 1)))
	assert.Equal(t, 3, item.Refresh)
}

func TestMaterialSettersRearmOnlyOnChange(t *testing.T) {
	s := newTestScene(t, 3)
	m := s.materials.MustGet("whitesurface")

	m.Refresh = 0
	s.materials.SetDiffuseAlbedo(m, m.DiffuseAlbedo)
	s.materials.SetMatTransform(m, m.MatTransform)
	s.materials.SetFresnelR0(m, m.FresnelR0)
	s.materials.SetRoughness(m, m.Roughness)
	assert.Equal(t, 0, m.Refresh)

	s.materials.SetFresnelR0(m, math.NewVec3(0.1, 0.1, 0.1))
	assert.Equal(t, 3, m.Refresh)
	assert.Equal(t, math.NewVec3(0.1, 0.1, 0.1), m.FresnelR0)

	m.Refresh = 1
	s.materials.SetRoughness(m, m.Roughness)
	assert.Equal(t, 1, m.Refresh)
	s.materials.SetRoughness(m, 0.5)
	assert.Equal(t, 3, m.Refresh)
	assert.Equal(t, float32(0.5), m.Roughness)

	m.Refresh = 0
	s.materials.SetDiffuseAlbedo(m, math.NewVec4(0, 0, 0, 0.5))
	assert.Equal(t, 3, m.Refresh)
}

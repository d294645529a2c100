package testbed

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/components"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/spaghettifunk/pendulum/engine/systems"
)

const (
	variantPrimary = iota
	variantReflected
	variantShadow
	variantCount
)

// shadowLift keeps flattened geometry above the floor to avoid z-fighting.
const shadowLift float32 = 0.001

var (
	// MirrorPlane is the wall, z = 0.
	MirrorPlane = math.Plane{A: 0, B: 0, C: 1, D: 0}
	// ShadowPlane is the floor, y = 0.
	ShadowPlane = math.Plane{A: 0, B: 1, C: 0, D: 0}

	ceilingWorld = math.NewMat4Translation(math.NewVec3(0, 6, -5))
)

// object buffer layout of the scene
const (
	objectFloor = iota
	objectWall
	objectMirror
	objectCeiling // 3..5 primary, reflected, shadow
	objectWire    = objectCeiling + variantCount
	objectBall    = objectWire + variantCount
	objectCount   = objectBall + variantCount
)

/**
 * @brief The fixed demo scene: floor, brick wall with a mirror, and a
 * pendulum whose ceiling block, wire and ball each exist as the real object,
 * its reflection and its planar shadow.
 */
type Scene struct {
	items *systems.RenderItemSystem

	ceiling [variantCount]metadata.RenderItemHandle
	wire    [variantCount]metadata.RenderItemHandle
	ball    [variantCount]metadata.RenderItemHandle

	ambient math.Vec4
	lights  []metadata.Light
	shadow  math.Mat4
	reflect math.Mat4
}

var sceneTextures = []string{"bricks", "grass", "ice", "white1x1"}

var sceneMaterials = []systems.MaterialConfig{
	{Name: "bricks", DiffuseTextureName: "bricks", DiffuseAlbedo: math.NewVec4(1, 1, 1, 1), FresnelR0: math.NewVec3(0.05, 0.05, 0.05), Roughness: 0.25},
	{Name: "grassfloor", DiffuseTextureName: "grass", DiffuseAlbedo: math.NewVec4(1, 1, 1, 1), FresnelR0: math.NewVec3(0.07, 0.07, 0.07), Roughness: 0.3},
	{Name: "glassmirror", DiffuseTextureName: "ice", DiffuseAlbedo: math.NewVec4(1, 1, 1, 0.3), FresnelR0: math.NewVec3(0.1, 0.1, 0.1), Roughness: 0.5},
	{Name: "whitesurface", DiffuseTextureName: "white1x1", DiffuseAlbedo: math.NewVec4(1, 1, 1, 1), FresnelR0: math.NewVec3(0.05, 0.05, 0.05), Roughness: 0.3},
	{Name: "shadow", DiffuseTextureName: "white1x1", DiffuseAlbedo: math.NewVec4(0, 0, 0, 0.5), FresnelR0: math.NewVec3(0.001, 0.001, 0.001), Roughness: 0},
}

// SceneLights are the key, fill and back lights. Lights[0] casts the shadows.
func SceneLights() []metadata.Light {
	return []metadata.Light{
		{Direction: math.NewVec3(0.57735, -0.70735, 0.57735), Strength: math.NewVec3(0.8, 0.8, 0.8)},
		{Direction: math.NewVec3(-0.57735, -0.57735, 0.57735), Strength: math.NewVec3(0.3, 0.3, 0.3)},
		{Direction: math.NewVec3(0, -0.707, -0.707), Strength: math.NewVec3(0.15, 0.15, 0.15)},
	}
}

// BuildScene loads the textures, materials and geometry of the demo and
// registers its render items.
func BuildScene(sm *systems.SystemManager) (*Scene, error) {
	if _, err := sm.Textures().LoadAll(sceneTextures); err != nil {
		return nil, err
	}
	for _, cfg := range sceneMaterials {
		if _, err := sm.Materials().Create(cfg); err != nil {
			return nil, err
		}
	}

	background, err := sm.Geometries().Create("backgroundGeo", backgroundMeshes())
	if err != nil {
		return nil, err
	}
	pendulum, err := sm.Geometries().Create("pendulumGeo", []systems.NamedMesh{
		{Name: "ceiling", Mesh: systems.GenerateBox(2, 0.2, 2)},
		{Name: "cylinder", Mesh: systems.GenerateCylinder(0.05, 0.05, 3, 10, 10)},
		{Name: "sphere", Mesh: systems.GenerateSphere(0.2, 10, 10)},
	})
	if err != nil {
		return nil, err
	}

	lights := SceneLights()
	s := &Scene{
		items:   sm.RenderItems(),
		ambient: math.NewVec4(0.25, 0.25, 0.25, 1),
		lights:  lights,
		reflect: math.NewMat4Reflect(MirrorPlane),
		shadow: math.NewMat4Shadow(ShadowPlane, lights[0].Direction.Negate().ToVec4(0)).
			Mul(math.NewMat4Translation(math.NewVec3(0, shadowLift, 0))),
	}

	materials := sm.Materials()
	statics := []systems.RenderItemConfig{
		{Name: "floor", ObjectIndex: objectFloor, Submesh: "floor", Material: materials.MustGet("grassfloor"), Layers: []metadata.RenderLayer{metadata.RenderLayerOpaque}},
		{Name: "wall", ObjectIndex: objectWall, Submesh: "wall", Material: materials.MustGet("bricks"), Layers: []metadata.RenderLayer{metadata.RenderLayerOpaque}},
		// marks the stencil, then is blended over the reflection
		{Name: "mirror", ObjectIndex: objectMirror, Submesh: "mirror", Material: materials.MustGet("glassmirror"), Layers: []metadata.RenderLayer{metadata.RenderLayerMirror, metadata.RenderLayerTransparent}},
	}
	for _, cfg := range statics {
		cfg.World = math.NewMat4Identity()
		cfg.Geometry = background
		if _, err := s.items.Add(cfg); err != nil {
			return nil, err
		}
	}

	if s.ceiling, err = s.addVariants("ceiling", objectCeiling, pendulum, materials.MustGet("grassfloor"), materials.MustGet("shadow")); err != nil {
		return nil, err
	}
	if s.wire, err = s.addVariants("cylinder", objectWire, pendulum, materials.MustGet("whitesurface"), materials.MustGet("shadow")); err != nil {
		return nil, err
	}
	if s.ball, err = s.addVariants("sphere", objectBall, pendulum, materials.MustGet("whitesurface"), materials.MustGet("shadow")); err != nil {
		return nil, err
	}
	s.place(s.ceiling, ceilingWorld)
	return s, nil
}

// addVariants registers the opaque item and derives its reflection and shadow.
func (s *Scene) addVariants(submesh string, index int, geometry *metadata.Geometry, material, shadow *metadata.Material) ([variantCount]metadata.RenderItemHandle, error) {
	var h [variantCount]metadata.RenderItemHandle
	var err error
	h[variantPrimary], err = s.items.Add(systems.RenderItemConfig{
		Name:        submesh,
		ObjectIndex: index,
		World:       math.NewMat4Identity(),
		Geometry:    geometry,
		Submesh:     submesh,
		Material:    material,
		Layers:      []metadata.RenderLayer{metadata.RenderLayerOpaque},
	})
	if err != nil {
		return h, err
	}
	h[variantReflected], err = s.items.Derive(h[variantPrimary], systems.RenderItemOverrides{
		Name:        fmt.Sprintf("%s.reflected", submesh),
		ObjectIndex: index + variantReflected,
		Layer:       metadata.RenderLayerReflected,
	})
	if err != nil {
		return h, err
	}
	h[variantShadow], err = s.items.Derive(h[variantPrimary], systems.RenderItemOverrides{
		Name:        fmt.Sprintf("%s.shadow", submesh),
		ObjectIndex: index + variantShadow,
		Material:    shadow,
		Layer:       metadata.RenderLayerShadow,
	})
	return h, err
}

// place sets the world of an object and the derived worlds of its reflection and shadow.
func (s *Scene) place(h [variantCount]metadata.RenderItemHandle, world math.Mat4) {
	s.items.SetWorld(h[variantPrimary], world)
	s.items.SetWorld(h[variantReflected], world.Mul(s.reflect))
	s.items.SetWorld(h[variantShadow], world.Mul(s.shadow))
}

// Update moves the wire and ball to the pendulum's current angle.
func (s *Scene) Update(p Pendulum) {
	s.place(s.wire, p.WireWorld())
	s.place(s.ball, p.BallWorld())
}

// Fill completes packet with the camera and lighting of the scene.
func (s *Scene) Fill(packet *renderer.RenderPacket, camera *components.Camera) {
	packet.View = camera.GetView()
	packet.Projection = camera.GetProjection()
	packet.EyePosition = camera.GetPosition()
	packet.NearZ = camera.NearZ
	packet.FarZ = camera.FarZ
	packet.AmbientLight = s.ambient
	packet.Lights = s.lights
	packet.MirrorPlane = MirrorPlane
}

func v(px, py, pz, nx, ny, nz, u, tv float32) math.Vertex3D {
	return math.Vertex3D{
		Position: math.NewVec3(px, py, pz),
		Normal:   math.NewVec3(nx, ny, nz),
		Texcoord: math.NewVec2(u, tv),
	}
}

/**
 * @brief The floor, the wall with a gap for the mirror, and the mirror.
 * Floor and wall texture coordinates are tiled.
 */
func backgroundMeshes() []systems.NamedMesh {
	floor := systems.MeshData{
		Vertices: []math.Vertex3D{
			v(-3.5, 0, -10, 0, 1, 0, 0, 4),
			v(-3.5, 0, 0, 0, 1, 0, 0, 0),
			v(7.5, 0, 0, 0, 1, 0, 4, 0),
			v(7.5, 0, -10, 0, 1, 0, 4, 4),
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
	wall := systems.MeshData{
		Vertices: []math.Vertex3D{
			// left of the mirror
			v(-3.5, 0, 0, 0, 0, -1, 0, 2),
			v(-3.5, 5, 0, 0, 0, -1, 0, 0),
			v(-2.5, 5, 0, 0, 0, -1, 0.5, 0),
			v(-2.5, 0, 0, 0, 0, -1, 0.5, 2),
			// right of the mirror
			v(2.5, 0, 0, 0, 0, -1, 0, 2),
			v(2.5, 5, 0, 0, 0, -1, 0, 0),
			v(7.5, 5, 0, 0, 0, -1, 2, 0),
			v(7.5, 0, 0, 0, 0, -1, 2, 2),
			// zero height strip along the top edge
			v(-3.5, 5, 0, 0, 0, -1, 0, 1),
			v(-3.5, 5, 0, 0, 0, -1, 0, 0),
			v(7.5, 5, 0, 0, 0, -1, 6, 0),
			v(7.5, 5, 0, 0, 0, -1, 6, 1),
		},
		Indices: []uint16{
			0, 1, 2, 0, 2, 3,
			4, 5, 6, 4, 6, 7,
			8, 9, 10, 8, 10, 11,
		},
	}
	mirror := systems.MeshData{
		Vertices: []math.Vertex3D{
			v(-2.5, 0, 0, 0, 0, -1, 0, 1),
			v(-2.5, 5, 0, 0, 0, -1, 0, 0),
			v(2.5, 5, 0, 0, 0, -1, 1, 0),
			v(2.5, 0, 0, 0, 0, -1, 1, 1),
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
	return []systems.NamedMesh{
		{Name: "floor", Mesh: floor},
		{Name: "wall", Mesh: wall},
		{Name: "mirror", Mesh: mirror},
	}
}

package testbed

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/components"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/spaghettifunk/pendulum/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopUploader struct {
	geometries int
	textures   int
}

func (u *nopUploader) UploadGeometry(*metadata.Geometry) error { u.geometries++; return nil }
func (u *nopUploader) UploadTexture(*metadata.Texture) error   { u.textures++; return nil }

func newTestScene(t *testing.T) (*Scene, *systems.SystemManager, *nopUploader) {
	t.Helper()
	uploader := &nopUploader{}
	sm, err := systems.NewSystemManager(core.DefaultConfig(), nil, uploader)
	require.NoError(t, err)
	scene, err := BuildScene(sm)
	require.NoError(t, err)
	return scene, sm, uploader
}

func TestBuildSceneRegistersEveryItem(t *testing.T) {
	_, sm, uploader := newTestScene(t)
	items := sm.RenderItems()

	assert.Equal(t, objectCount, items.Count())
	assert.Equal(t, 2, uploader.geometries)
	assert.Equal(t, len(sceneTextures), uploader.textures)
	assert.Len(t, items.Layer(metadata.RenderLayerOpaque), 5)
	assert.Len(t, items.Layer(metadata.RenderLayerMirror), 1)
	assert.Len(t, items.Layer(metadata.RenderLayerReflected), 3)
	assert.Len(t, items.Layer(metadata.RenderLayerTransparent), 1)
	assert.Len(t, items.Layer(metadata.RenderLayerShadow), 3)

	seen := map[int]bool{}
	for _, item := range items.Items() {
		assert.False(t, seen[item.ObjectIndex], item.Name)
		seen[item.ObjectIndex] = true
	}

	shadow := sm.Materials().MustGet("shadow")
	for _, h := range items.Layer(metadata.RenderLayerShadow) {
		assert.Same(t, shadow, items.Get(h).Material)
	}
	mirror, ok := items.Lookup("mirror")
	require.True(t, ok)
	assert.Equal(t, "ice", sm.Textures().Textures()[items.Get(mirror).Material.DiffuseTextureIndex].Name)
}

// project transforms the model origin and divides by w, as shadow worlds are projective.
func project(world math.Mat4) math.Vec3 {
	p := math.NewVec4(0, 0, 0, 1).Transform(world)
	return math.NewVec3(p.X/p.W, p.Y/p.W, p.Z/p.W)
}

func TestSceneVariantWorlds(t *testing.T) {
	scene, sm, _ := newTestScene(t)
	items := sm.RenderItems()
	p := NewPendulum(core.PendulumConfig{Gravity: 9.8, Length: 3, InitialAngleDegrees: 20})
	scene.Update(p)

	origin := math.NewVec3(0, 0, 0)
	ball := origin.TransformPoint(items.Get(scene.ball[variantPrimary]).World)
	reflected := origin.TransformPoint(items.Get(scene.ball[variantReflected]).World)
	shadow := project(items.Get(scene.ball[variantShadow]).World)

	// mirrored through the wall at z = 0
	assert.True(t, reflected.Compare(math.NewVec3(ball.X, ball.Y, -ball.Z), 1e-4), reflected)
	// flattened onto the floor, just above it
	assert.InDelta(t, shadowLift, shadow.Y, 1e-5)

	// the ceiling block has its own reflected and shadow worlds
	ceiling := origin.TransformPoint(items.Get(scene.ceiling[variantReflected]).World)
	assert.True(t, ceiling.Compare(math.NewVec3(0, 6, 5), 1e-4), ceiling)
	ceilingShadow := project(items.Get(scene.ceiling[variantShadow]).World)
	assert.InDelta(t, shadowLift, ceilingShadow.Y, 1e-5)
}

func TestSceneUpdateOnlyRearmsMovedItems(t *testing.T) {
	scene, sm, _ := newTestScene(t)
	items := sm.RenderItems()
	p := NewPendulum(core.PendulumConfig{Gravity: 9.8, Length: 3, InitialAngleDegrees: 20})
	scene.Update(p)

	for _, item := range items.Items() {
		item.Refresh = 0
	}
	scene.Update(p)
	for _, item := range items.Items() {
		assert.Zero(t, item.Refresh, item.Name)
	}

	scene.Update(p.Step(0.01, nil))
	frames := core.DefaultConfig().Renderer.FramesInFlight
	for _, h := range append(scene.wire[:], scene.ball[:]...) {
		assert.Equal(t, frames, items.Get(h).Refresh, items.Get(h).Name)
	}
	for _, h := range scene.ceiling {
		assert.Zero(t, items.Get(h).Refresh)
	}
}

func TestSceneFill(t *testing.T) {
	scene, _, _ := newTestScene(t)
	camera := components.NewCamera()
	packet := &renderer.RenderPacket{Width: 640, Height: 480}

	scene.Fill(packet, camera)
	assert.Equal(t, camera.GetView(), packet.View)
	assert.Equal(t, camera.GetPosition(), packet.EyePosition)
	assert.Equal(t, MirrorPlane, packet.MirrorPlane)
	assert.Len(t, packet.Lights, 3)
	assert.Equal(t, uint32(640), packet.Width)
	assert.Equal(t, float32(1), packet.NearZ)
}

func TestCaptionAndKeys(t *testing.T) {
	cfg := core.DefaultConfig()
	g := NewTestGame(cfg)
	g.Events = core.NewEventBus()

	assert.Contains(t, g.Caption(), "Pendulum demo: pendulum angle : 0.5236 in radians.")

	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(core.KEY_3)
	assert.True(t, g.onKey(core.EVENT_CODE_KEY_PRESSED, nil, g, ctx))
	require.NotNil(t, g.state().pending)
	assert.InDelta(t, math.DegToRad(30), g.state().pending.Radians, 1e-6)

	ctx.Data.U16[0] = uint16(core.KEY_0)
	g.onKey(core.EVENT_CODE_KEY_PRESSED, nil, g, ctx)
	assert.Equal(t, float32(0), g.state().pending.Radians)

	override := float32(45)
	reloaded := core.DefaultConfig()
	reloaded.Pendulum.OverrideAngleDegrees = &override
	g.onConfigReloaded(core.EVENT_CODE_CONFIG_RELOADED, nil, g, core.EventContext{Payload: reloaded})
	assert.InDelta(t, math.DegToRad(45), g.state().pending.Radians, 1e-6)

	// reloading with the same override keeps the angle picked since
	g.state().pending = nil
	same := core.DefaultConfig()
	unchanged := float32(45)
	same.Pendulum.OverrideAngleDegrees = &unchanged
	g.onConfigReloaded(core.EVENT_CODE_CONFIG_RELOADED, nil, g, core.EventContext{Payload: same})
	assert.Nil(t, g.state().pending)

	changed := float32(-20)
	reloaded = core.DefaultConfig()
	reloaded.Pendulum.OverrideAngleDegrees = &changed
	g.onConfigReloaded(core.EVENT_CODE_CONFIG_RELOADED, nil, g, core.EventContext{Payload: reloaded})
	require.NotNil(t, g.state().pending)
	assert.InDelta(t, math.DegToRad(-20), g.state().pending.Radians, 1e-6)

	g.state().pending = nil
	g.onConfigReloaded(core.EVENT_CODE_CONFIG_RELOADED, nil, g, core.EventContext{Payload: core.DefaultConfig()})
	assert.Nil(t, g.state().pending)
}

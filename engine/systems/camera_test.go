package systems

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCameraSystem(t *testing.T, initial core.CameraConfig) *CameraSystem {
	t.Helper()
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 4, Initial: initial})
	require.NoError(t, err)
	return cs
}

func drag(button core.Button, dx, dy int32) core.EventContext {
	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(button)
	ctx.Data.I32[0] = dx
	ctx.Data.I32[1] = dy
	return ctx
}

func TestCameraSystemRejectsZeroCapacity(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)
}

func TestCameraDragPinsAtBounds(t *testing.T) {
	cs := newCameraSystem(t, core.DefaultConfig().Camera)
	cam := cs.GetDefault()

	assert.True(t, cs.OnDrag(core.EVENT_CODE_MOUSE_DRAGGED, nil, cs, drag(core.BUTTON_LEFT, 100000, 100000)))
	assert.Equal(t, components.MaxTheta, cam.Theta)
	assert.Equal(t, components.MaxPhi, cam.Phi)

	cs.OnDrag(core.EVENT_CODE_MOUSE_DRAGGED, nil, cs, drag(core.BUTTON_LEFT, -100000, -100000))
	assert.Equal(t, components.MinTheta, cam.Theta)
	assert.Equal(t, components.MinPhi, cam.Phi)

	cs.OnDrag(core.EVENT_CODE_MOUSE_DRAGGED, nil, cs, drag(core.BUTTON_RIGHT, 100000, 0))
	assert.Equal(t, components.MaxRadius, cam.Radius)
	cs.OnDrag(core.EVENT_CODE_MOUSE_DRAGGED, nil, cs, drag(core.BUTTON_RIGHT, 0, 100000))
	assert.Equal(t, components.MinRadius, cam.Radius)

	// middle button is not ours
	assert.False(t, cs.OnDrag(core.EVENT_CODE_MOUSE_DRAGGED, nil, cs, drag(core.BUTTON_MIDDLE, 5, 5)))
}

func TestCameraFullOrbitReload(t *testing.T) {
	cfg := core.DefaultConfig().Camera
	cfg.FullOrbit = true
	cs := newCameraSystem(t, cfg)
	cam := cs.GetDefault()

	cs.OnDrag(core.EVENT_CODE_MOUSE_DRAGGED, nil, cs, drag(core.BUTTON_LEFT, 1000, 0))
	assert.Greater(t, cam.Theta, components.MaxTheta)

	cfg.FullOrbit = false
	cs.ApplyConfig(cfg)
	assert.Equal(t, components.MaxTheta, cam.Theta)
}

func TestCameraAcquireRelease(t *testing.T) {
	cs := newCameraSystem(t, core.DefaultConfig().Camera)

	def, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)

	a, err := cs.Acquire("overhead")
	require.NoError(t, err)
	b, err := cs.Acquire("overhead")
	require.NoError(t, err)
	assert.Same(t, a, b)

	cs.Release("overhead")
	assert.Contains(t, cs.Lookup, "overhead")
	cs.Release("overhead")
	assert.NotContains(t, cs.Lookup, "overhead")
}

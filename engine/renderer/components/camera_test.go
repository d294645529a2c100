package components

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestCameraInitialPosition(t *testing.T) {
	c := NewCamera()
	p := c.GetPosition()
	// theta = 1.5 pi puts the eye on the -z side, in front of the wall
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 20*math.Cos(0.4*math.K_PI), p.Y, 1e-4)
	assert.InDelta(t, -20*math.Sin(0.4*math.K_PI), p.Z, 1e-4)
}

func TestCameraDragBeyondBoundsIsPinned(t *testing.T) {
	c := NewCamera()

	c.Orbit(0, 100000)
	assert.Equal(t, MaxPhi, c.Phi)
	c.Orbit(0, -100000)
	assert.Equal(t, MinPhi, c.Phi)

	c.Orbit(100000, 0)
	assert.Equal(t, MaxTheta, c.Theta)
	c.Orbit(-100000, 0)
	assert.Equal(t, MinTheta, c.Theta)

	c.Zoom(100000, -100000)
	assert.Equal(t, MaxRadius, c.Radius)
	c.Zoom(-100000, 100000)
	assert.Equal(t, MinRadius, c.Radius)

	for i := 0; i < 50; i++ {
		c.Orbit(37, -91)
		c.Zoom(-13, 29)
		assert.GreaterOrEqual(t, c.Phi, MinPhi)
		assert.LessOrEqual(t, c.Phi, MaxPhi)
		assert.GreaterOrEqual(t, c.Radius, MinRadius)
		assert.LessOrEqual(t, c.Radius, MaxRadius)
	}
}

func TestCameraFullOrbitReleasesAzimuth(t *testing.T) {
	c := NewCamera()
	c.FullOrbit = true
	c.Orbit(4000, 0)
	assert.Greater(t, c.Theta, MaxTheta)
	assert.InDelta(t, 0.4*math.K_PI, c.Phi, 1e-6)
}

func TestCameraSensitivity(t *testing.T) {
	c := NewCamera()
	before := c.Theta
	c.Orbit(4, 0)
	assert.InDelta(t, math.DegToRad(1), c.Theta-before, 1e-5)

	r := c.Radius
	c.Zoom(10, 0)
	assert.InDelta(t, r+2, c.Radius, 1e-5)
}

func TestCameraViewCachesUntilDirty(t *testing.T) {
	c := NewCamera()
	v := c.GetView()
	assert.False(t, c.IsDirty)
	c.Zoom(5, 0)
	assert.True(t, c.IsDirty)
	assert.NotEqual(t, v, c.GetView())
}

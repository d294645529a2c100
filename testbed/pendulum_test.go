package testbed

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestPendulumAtRestStaysAtRest(t *testing.T) {
	p := NewPendulum(core.PendulumConfig{Gravity: 9.8, Length: 3, InitialAngleDegrees: 0})

	next := p.Step(0.01, nil)
	assert.Equal(t, float32(0), next.Omega)
	assert.Equal(t, float32(0), next.Theta)
}

func TestPendulumEulerStep(t *testing.T) {
	p := Pendulum{Theta: math.K_PI / 3, Length: 3, Gravity: 9.8}

	next := p.Step(0.01, nil)
	omega := -0.01 * (9.8 / 3) * math.Sin(math.K_PI/3)
	assert.InDelta(t, omega, next.Omega, 1e-6)
	assert.InDelta(t, -0.02829, next.Omega, 1e-5)
	assert.InDelta(t, math.K_PI/3+0.01*omega, next.Theta, 1e-6)
	// the receiver is a value, stepping never mutates it
	assert.Equal(t, math.K_PI/3, p.Theta)
}

func TestPendulumSetAngleRestartsAtRest(t *testing.T) {
	p := Pendulum{Theta: 0.3, Omega: 2, Length: 3, Gravity: 9.8}

	cmd := SetAngleDegrees(0)
	next := p.Step(0.01, &cmd)
	assert.Equal(t, float32(0), next.Theta)
	assert.Equal(t, float32(0), next.Omega)

	cmd = SetAngleDegrees(90)
	next = p.Step(0, &cmd)
	assert.InDelta(t, math.K_HALF_PI, next.Theta, 1e-6)
	assert.Equal(t, float32(0), next.Omega)
}

func TestPendulumWorlds(t *testing.T) {
	p := Pendulum{Length: 3, Gravity: 9.8, Pivot: math.NewVec3(0, 6, -5)}
	origin := math.NewVec3(0, 0, 0)

	assert.True(t, origin.TransformPoint(p.WireWorld()).Compare(math.NewVec3(0, 4.5, -5), 1e-5))
	assert.True(t, origin.TransformPoint(p.BallWorld()).Compare(math.NewVec3(0, 2.9, -5), 1e-5))

	// the top of the wire stays on the pivot whatever the angle
	p.Theta = 0.7
	top := math.NewVec3(0, 1.5, 0).TransformPoint(p.WireWorld())
	assert.True(t, top.Compare(p.Pivot, 1e-5), top)
	ball := origin.TransformPoint(p.BallWorld())
	assert.InDelta(t, 3.1*math.Sin(0.7), ball.X, 1e-5)
}

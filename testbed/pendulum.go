package testbed

import (
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
)

// ballRadius offsets the ball centre past the end of the wire.
const ballRadius float32 = 0.1

// SetAngle restarts the pendulum at rest at Radians.
type SetAngle struct {
	Radians float32
}

// SetAngleDegrees builds the command issued by the number keys and the config reload.
func SetAngleDegrees(degrees float32) SetAngle {
	return SetAngle{Radians: math.DegToRad(degrees)}
}

/**
 * @brief A simple pendulum hanging from Pivot. Theta is measured from the
 * downward vertical, counter-clockwise around +z.
 */
type Pendulum struct {
	Theta   float32
	Omega   float32
	Length  float32
	Gravity float32
	Pivot   math.Vec3
}

func NewPendulum(cfg core.PendulumConfig) Pendulum {
	return Pendulum{
		Theta:   math.DegToRad(cfg.InitialAngleDegrees),
		Length:  cfg.Length,
		Gravity: cfg.Gravity,
		Pivot:   math.NewVec3(0, 6, -5),
	}
}

/**
 * @brief Advances one explicit Euler step of dt seconds. A pending command is
 * applied first and resets the angular speed.
 */
func (p Pendulum) Step(dt float32, cmd *SetAngle) Pendulum {
	if cmd != nil {
		p.Theta = cmd.Radians
		p.Omega = 0
	}
	p.Omega -= dt * (p.Gravity / p.Length) * math.Sin(p.Theta)
	p.Theta += dt * p.Omega
	return p
}

// WireWorld places the unit cylinder so it spans pivot to ball.
func (p Pendulum) WireWorld() math.Mat4 {
	return p.worldAt(p.Length / 2)
}

func (p Pendulum) BallWorld() math.Mat4 {
	return p.worldAt(p.Length + ballRadius)
}

// worldAt rotates by Theta and moves to distance d along the wire.
func (p Pendulum) worldAt(d float32) math.Mat4 {
	s, c := math.Sin(p.Theta), math.Cos(p.Theta)
	offset := math.NewVec3(d*s, -d*c, 0)
	return math.NewMat4EulerZ(p.Theta).Mul(math.NewMat4Translation(p.Pivot.Add(offset)))
}

package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func TestReflectIsInvolutive(t *testing.T) {
	planes := []Plane{
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{1, 2, 3, -4},
	}
	for _, p := range planes {
		r := NewMat4Reflect(p)
		assert.True(t, r.Mul(r).Compare(NewMat4Identity(), tolerance), "plane %+v", p)
	}
}

func TestReflectMirrorPlane(t *testing.T) {
	r := NewMat4Reflect(Plane{0, 0, 1, 0})

	p := NewVec3(1, 2, -5).TransformPoint(r)
	assert.True(t, p.Compare(NewVec3(1, 2, 5), tolerance))

	n := NewVec3(0.57735, -0.70735, 0.57735).TransformNormal(r)
	assert.True(t, n.Compare(NewVec3(0.57735, -0.70735, -0.57735), tolerance))
}

func TestShadowProjectsOntoPlane(t *testing.T) {
	floor := Plane{0, 1, 0, 0}
	toLight := NewVec3(-0.57735, 0.70735, -0.57735)
	s := NewMat4Shadow(floor, toLight.ToVec4(0))

	points := []Vec3{{0, 6, -5}, {1.5, 3, -4}, {-2, 0.5, -8}}
	for _, p := range points {
		h := p.ToVec4(1).Transform(s)
		assert.NotZero(t, h.W)
		projected := NewVec3(h.X/h.W, h.Y/h.W, h.Z/h.W)
		assert.InDelta(t, 0, projected.Y, tolerance)

		// the projected point lies on the ray from p along the light direction
		delta := p.Sub(projected)
		assert.InDelta(t, 0, delta.Cross(toLight).Length(), 1e-3)
	}
}

func TestShadowStraightDown(t *testing.T) {
	s := NewMat4Shadow(Plane{0, 1, 0, 0}, NewVec4(0, 1, 0, 0))
	h := NewVec4(1, 5, -5, 1).Transform(s)
	assert.True(t, h.Compare(NewVec4(1, 0, -5, 1), tolerance))
}

func TestInverse(t *testing.T) {
	m := NewMat4EulerZ(0.7).Mul(NewMat4Translation(NewVec3(1, 6, -5))).Mul(NewMat4Scale(NewVec3(2, 2, 2)))
	assert.True(t, m.Mul(m.Inverse()).Compare(NewMat4Identity(), tolerance))

	assert.Equal(t, NewMat4Identity(), Mat4{}.Inverse())
}

func TestTransposed(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	tr := m.Transposed()
	assert.Equal(t, float32(1), tr.At(0, 3))
	assert.Equal(t, float32(2), tr.At(1, 3))
	assert.Equal(t, float32(3), tr.At(2, 3))
	assert.Equal(t, m, tr.Transposed())
}

func TestLookAtAndPerspective(t *testing.T) {
	eye := NewVec3(0, 0, -10)
	view := NewMat4LookAtLH(eye, NewVec3(0, 0, 0), NewVec3Up())
	proj := NewMat4PerspectiveLH(K_QUARTER_PI, 1, 1, 1000)

	// the target lands in the centre of clip space, in front of the camera
	clip := NewVec4(0, 0, 0, 1).Transform(view.Mul(proj))
	assert.InDelta(t, 0, clip.X/clip.W, tolerance)
	assert.InDelta(t, 0, clip.Y/clip.W, tolerance)
	z := clip.Z / clip.W
	assert.True(t, z > 0 && z < 1)

	near := NewVec4(0, 0, -9, 1).Transform(view.Mul(proj))
	assert.InDelta(t, 0, near.Z/near.W, tolerance)
}

func TestEulerZ(t *testing.T) {
	p := NewVec3(1, 0, 0).TransformPoint(NewMat4EulerZ(K_HALF_PI))
	assert.True(t, p.Compare(NewVec3(0, 1, 0), tolerance))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 1, 3))
	assert.Equal(t, float32(15), Clamp(float32(10), 15, 50))
	assert.Equal(t, 2.5, Clamp(2.5, 1, 3))
}

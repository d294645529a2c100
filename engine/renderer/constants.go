package renderer

import (
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

/**
 * @brief Everything the frontend needs from the application to draw a frame.
 */
type RenderPacket struct {
	View        math.Mat4
	Projection  math.Mat4
	EyePosition math.Vec3

	Width, Height uint32
	NearZ, FarZ   float32

	TotalTime float32
	DeltaTime float32

	AmbientLight math.Vec4
	Lights       []metadata.Light
	// MirrorPlane is the plane the reflected common constants mirror the lights across.
	MirrorPlane math.Plane
}

/**
 * @brief Builds the primary common constants. Matrices are stored transposed.
 */
func BuildCommonConstants(packet *RenderPacket) metadata.CommonConstants {
	view := packet.View
	proj := packet.Projection
	viewProj := view.Mul(proj)

	cc := metadata.CommonConstants{
		View:        view.Transposed(),
		InvView:     view.Inverse().Transposed(),
		Proj:        proj.Transposed(),
		InvProj:     proj.Inverse().Transposed(),
		ViewProj:    viewProj.Transposed(),
		InvViewProj: viewProj.Inverse().Transposed(),

		EyePosW:          packet.EyePosition,
		RenderTargetSize: math.NewVec2(float32(packet.Width), float32(packet.Height)),
		NearZ:            packet.NearZ,
		FarZ:             packet.FarZ,
		TotalTime:        packet.TotalTime,
		DeltaTime:        packet.DeltaTime,
		AmbientLight:     packet.AmbientLight,
	}
	if packet.Width > 0 && packet.Height > 0 {
		cc.InvRenderTargetSize = math.NewVec2(1/float32(packet.Width), 1/float32(packet.Height))
	}
	copy(cc.Lights[:], packet.Lights)
	return cc
}

/**
 * @brief Returns a copy of primary with every light direction mirrored across
 * plane, so reflected geometry is lit as its mirror image would be.
 */
func BuildReflectedConstants(primary metadata.CommonConstants, plane math.Plane) metadata.CommonConstants {
	r := math.NewMat4Reflect(plane)
	reflected := primary
	for i := range reflected.Lights {
		reflected.Lights[i].Direction = primary.Lights[i].Direction.TransformNormal(r)
	}
	return reflected
}

package metadata

import (
	"unsafe"

	"github.com/spaghettifunk/pendulum/engine/math"
)

/** @brief Light array size shared with the shaders. */
const MaxLights = 16

// Layouts below match std140 and HLSL packing: every vec3 is followed by a float.

type Light struct {
	Strength     math.Vec3
	FalloffStart float32
	/** @brief Direction the light travels in (directional and spot lights). */
	Direction  math.Vec3
	FalloffEnd float32
	Position   math.Vec3
	SpotPower  float32
}

/**
 * @brief Per render item constants. Matrices are stored transposed.
 */
type ObjectConstants struct {
	World        math.Mat4
	TexTransform math.Mat4
}

/**
 * @brief Per material constants. MatTransform is stored transposed.
 */
type MaterialConstants struct {
	DiffuseAlbedo math.Vec4
	FresnelR0     math.Vec3
	Roughness     float32
	MatTransform  math.Mat4
}

/**
 * @brief Per pass constants. Two copies live in every frame slot: the primary
 * one at index 0 and the mirror-reflected one at index 1. Matrices are stored
 * transposed.
 */
type CommonConstants struct {
	View        math.Mat4
	InvView     math.Mat4
	Proj        math.Mat4
	InvProj     math.Mat4
	ViewProj    math.Mat4
	InvViewProj math.Mat4

	EyePosW math.Vec3
	_       float32

	RenderTargetSize    math.Vec2
	InvRenderTargetSize math.Vec2

	NearZ     float32
	FarZ      float32
	TotalTime float32
	DeltaTime float32

	AmbientLight math.Vec4
	Lights       [MaxLights]Light
}

const (
	CommonSlotPrimary   = 0
	CommonSlotReflected = 1
	CommonSlotCount     = 2
)

var (
	SizeOfObjectConstants   = uint64(unsafe.Sizeof(ObjectConstants{}))
	SizeOfMaterialConstants = uint64(unsafe.Sizeof(MaterialConstants{}))
	SizeOfCommonConstants   = uint64(unsafe.Sizeof(CommonConstants{}))
)

package components

import (
	"github.com/spaghettifunk/pendulum/engine/math"
)

/** @brief Orbit limits and drag sensitivity. */
const (
	/** @brief Orbit sensitivity in degrees per dragged pixel. */
	OrbitDegreesPerPixel float32 = 0.25
	/** @brief Zoom sensitivity in world units per dragged pixel. */
	ZoomPerPixel float32 = 0.2

	MinPhi    float32 = math.K_PI / 6.0
	MaxPhi    float32 = math.K_PI/2.0 - 0.1
	MinTheta  float32 = math.K_PI * 7.0 / 6.0
	MaxTheta  float32 = math.K_PI * 11.0 / 6.0
	MinRadius float32 = 15.0
	MaxRadius float32 = 50.0
)

/**
 * @brief A camera orbiting a fixed target on a sphere described by azimuth
 * (Theta), polar angle (Phi) and Radius. Ideally, these are created and
 * managed by the camera system.
 */
type Camera struct {
	/**
	 * @brief Spherical coordinates of the eye around Target.
	 * NOTE: Do not set these directly, use SetOrbit() so the view matrix is rebuilt.
	 */
	Theta  float32
	Phi    float32
	Radius float32
	Target math.Vec3
	Up     math.Vec3
	/** @brief Lifts the azimuth restriction when set. */
	FullOrbit bool

	FovY   float32
	Aspect float32
	NearZ  float32
	FarZ   float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty          bool
	ViewMatrix       math.Mat4
	ProjectionMatrix math.Mat4
	position         math.Vec3
}

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Theta = 1.5 * math.K_PI
	c.Phi = 0.4 * math.K_PI
	c.Radius = 20.0
	c.Target = math.NewVec3(1, 0, 0)
	c.Up = math.NewVec3Up()
	c.FullOrbit = false
	c.FovY = 0.25 * math.K_PI
	c.Aspect = 16.0 / 9.0
	c.NearZ = 1.0
	c.FarZ = 1000.0
	c.IsDirty = true
	c.ProjectionMatrix = math.NewMat4PerspectiveLH(c.FovY, c.Aspect, c.NearZ, c.FarZ)
}

// SetOrbit places the eye, applying the same clamps as dragging.
func (c *Camera) SetOrbit(theta, phi, radius float32) {
	c.Theta = theta
	c.Phi = phi
	c.Radius = radius
	c.clamp()
	c.IsDirty = true
}

// Orbit rotates the eye by a mouse drag of (dx, dy) pixels.
func (c *Camera) Orbit(dx, dy float32) {
	c.Theta += math.DegToRad(OrbitDegreesPerPixel * dx)
	c.Phi += math.DegToRad(OrbitDegreesPerPixel * dy)
	c.clamp()
	c.IsDirty = true
}

// Zoom moves the eye closer or further by a mouse drag of (dx, dy) pixels.
func (c *Camera) Zoom(dx, dy float32) {
	c.Radius += ZoomPerPixel*dx - ZoomPerPixel*dy
	c.clamp()
	c.IsDirty = true
}

func (c *Camera) clamp() {
	c.Phi = math.Clamp(c.Phi, MinPhi, MaxPhi)
	if !c.FullOrbit {
		c.Theta = math.Clamp(c.Theta, MinTheta, MaxTheta)
	}
	c.Radius = math.Clamp(c.Radius, MinRadius, MaxRadius)
}

// SetAspect rebuilds the projection for a new render target size.
func (c *Camera) SetAspect(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
	c.ProjectionMatrix = math.NewMat4PerspectiveLH(c.FovY, c.Aspect, c.NearZ, c.FarZ)
}

func (c *Camera) GetPosition() math.Vec3 {
	c.rebuild()
	return c.position
}

func (c *Camera) GetView() math.Mat4 {
	c.rebuild()
	return c.ViewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	return c.ProjectionMatrix
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	sinPhi := math.Sin(c.Phi)
	c.position = math.NewVec3(
		c.Radius*sinPhi*math.Cos(c.Theta),
		c.Radius*math.Cos(c.Phi),
		c.Radius*sinPhi*math.Sin(c.Theta),
	)
	c.ViewMatrix = math.NewMat4LookAtLH(c.position, c.Target, c.Up)
	c.IsDirty = false
}

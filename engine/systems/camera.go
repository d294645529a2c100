package systems

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/components"
)

type CameraSystem struct {
	Config *CameraSystemConfig
	Lookup map[string]*components.CameraLookup
	nextID uint16
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of cameras that can be managed by
	 * the system.
	 */
	MaxCameraCount uint16
	/** @brief Initial orbit of the default camera. */
	Initial core.CameraConfig
}

/**
 * @brief Initializes the camera system and places the default camera.
 */
func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	cs := &CameraSystem{
		Config:        config,
		Lookup:        make(map[string]*components.CameraLookup, config.MaxCameraCount),
		DefaultCamera: components.NewCamera(),
	}
	cs.ApplyConfig(config.Initial)
	if config.Initial.Radius > 0 {
		cs.DefaultCamera.SetOrbit(config.Initial.Theta, config.Initial.Phi, config.Initial.Radius)
	}
	return cs, nil
}

/**
 * @brief Shuts down the camera system.
 */
func (cs *CameraSystem) Shutdown() error {
	cs.Lookup = nil
	return nil
}

/**
 * @brief Acquires a pointer to a camera by name.
 * If one is not found, a new one is created and retuned.
 * Internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	lookup, ok := cs.Lookup[name]
	if !ok {
		if uint16(len(cs.Lookup)) >= cs.Config.MaxCameraCount {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		lookup = &components.CameraLookup{ID: cs.nextID, Camera: components.NewCamera()}
		cs.nextID++
		cs.Lookup[name] = lookup
	}
	lookup.ReferenceCount++
	return lookup.Camera, nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	lookup, ok := cs.Lookup[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	lookup.ReferenceCount--
	if lookup.ReferenceCount < 1 {
		delete(cs.Lookup, name)
	}
}

/**
 * @brief Gets a pointer to the default camera.
 */
func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}

// ApplyConfig applies the settings that may change at runtime.
func (cs *CameraSystem) ApplyConfig(cfg core.CameraConfig) {
	cs.DefaultCamera.FullOrbit = cfg.FullOrbit
	if !cfg.FullOrbit {
		// re-pin the azimuth if the restriction came back
		c := cs.DefaultCamera
		c.SetOrbit(c.Theta, c.Phi, c.Radius)
	}
}

// OnDrag orbits the default camera on left drag and zooms it on right drag.
func (cs *CameraSystem) OnDrag(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	dx := float32(data.Data.I32[0])
	dy := float32(data.Data.I32[1])
	switch core.Button(data.Data.U16[0]) {
	case core.BUTTON_LEFT:
		cs.DefaultCamera.Orbit(dx, dy)
	case core.BUTTON_RIGHT:
		cs.DefaultCamera.Zoom(dx, dy)
	default:
		return false
	}
	return true
}

// OnResize rebuilds the default camera projection.
func (cs *CameraSystem) OnResize(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	cs.DefaultCamera.SetAspect(uint32(data.Data.U16[0]), uint32(data.Data.U16[1]))
	return false
}

package systems

import (
	"errors"
	"runtime"

	"github.com/spaghettifunk/pendulum/engine/assets"
	"github.com/spaghettifunk/pendulum/engine/core"
)

const (
	// MaxRenderItemCount sizes the object constant buffer of every frame slot.
	MaxRenderItemCount = 16
	// MaxMaterialCount sizes the material constant buffer of every frame slot.
	MaxMaterialCount = 8
	// MaxTextureCount is the length of the texture table bound by the shaders.
	MaxTextureCount  = 8
	MaxGeometryCount = 4
	MaxCameraCount   = 4
	MaxTextureSize   = 1024
	// workers decoding textures at load time
	MaxJobWorkers = 4
)

// Uploader is the part of the render device the systems hand data to.
type Uploader interface {
	TextureUploader
	GeometryUploader
}

type SystemManager struct {
	jobSystem        *JobSystem
	cameraSystem     *CameraSystem
	textureSystem    *TextureSystem
	materialSystem   *MaterialSystem
	geometrySystem   *GeometrySystem
	renderItemSystem *RenderItemSystem
	refreshSystem    *RefreshSystem
}

func NewSystemManager(config *core.Config, am *assets.AssetManager, uploader Uploader) (_ *SystemManager, err error) {
	framesInFlight := config.Renderer.FramesInFlight

	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: MaxCameraCount,
		Initial:        config.Camera,
	})
	if err != nil {
		return nil, err
	}
	js, err := NewJobSystem(min(runtime.NumCPU(), MaxJobWorkers), MaxTextureCount)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			js.Shutdown()
		}
	}()
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: MaxTextureCount,
		MaxTextureSize:  MaxTextureSize,
		Jobs:            js,
	}, am, uploader)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(MaterialSystemConfig{
		MaxMaterialCount: MaxMaterialCount,
		FramesInFlight:   framesInFlight,
	}, ts)
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(GeometrySystemConfig{
		MaxGeometryCount: MaxGeometryCount,
	}, uploader)
	if err != nil {
		return nil, err
	}
	rs, err := NewRenderItemSystem(RenderItemSystemConfig{
		MaxRenderItemCount: MaxRenderItemCount,
		FramesInFlight:     framesInFlight,
	})
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		jobSystem:        js,
		cameraSystem:     cs,
		textureSystem:    ts,
		materialSystem:   ms,
		geometrySystem:   gs,
		renderItemSystem: rs,
		refreshSystem:    NewRefreshSystem(rs, ms),
	}, nil
}

func (sm *SystemManager) Cameras() *CameraSystem         { return sm.cameraSystem }
func (sm *SystemManager) Textures() *TextureSystem       { return sm.textureSystem }
func (sm *SystemManager) Materials() *MaterialSystem     { return sm.materialSystem }
func (sm *SystemManager) Geometries() *GeometrySystem    { return sm.geometrySystem }
func (sm *SystemManager) RenderItems() *RenderItemSystem { return sm.renderItemSystem }
func (sm *SystemManager) Refresh() *RefreshSystem        { return sm.refreshSystem }

// Shutdown stops the systems in reverse creation order.
func (sm *SystemManager) Shutdown() error {
	return errors.Join(
		sm.renderItemSystem.Shutdown(),
		sm.geometrySystem.Shutdown(),
		sm.materialSystem.Shutdown(),
		sm.textureSystem.Shutdown(),
		sm.cameraSystem.Shutdown(),
		sm.jobSystem.Shutdown(),
	)
}

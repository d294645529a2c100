package systems

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

/**
 * @brief Material configuration created in code to register a material from.
 */
type MaterialConfig struct {
	Name               string
	DiffuseTextureName string
	DiffuseAlbedo      math.Vec4
	FresnelR0          math.Vec3
	Roughness          float32
}

type MaterialSystemConfig struct {
	MaxMaterialCount int
	/** @brief Frame slots a change has to reach. */
	FramesInFlight int
}

// MaterialSystem owns every material for the process lifetime. Materials get
// consecutive buffer indices in registration order.
type MaterialSystem struct {
	config    MaterialSystemConfig
	textures  *TextureSystem
	materials []*metadata.Material
	lookup    map[string]*metadata.Material
}

func NewMaterialSystem(config MaterialSystemConfig, textures *TextureSystem) (*MaterialSystem, error) {
	if config.MaxMaterialCount <= 0 || config.FramesInFlight <= 0 {
		err := fmt.Errorf("func NewMaterialSystem - MaxMaterialCount and FramesInFlight must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &MaterialSystem{
		config:    config,
		textures:  textures,
		materials: make([]*metadata.Material, 0, config.MaxMaterialCount),
		lookup:    make(map[string]*metadata.Material, config.MaxMaterialCount),
	}, nil
}

/**
 * @brief Registers a material. Its constants are pending for every frame slot.
 */
func (ms *MaterialSystem) Create(config MaterialConfig) (*metadata.Material, error) {
	if _, ok := ms.lookup[config.Name]; ok {
		return nil, fmt.Errorf("material '%s' already exists", config.Name)
	}
	if len(ms.materials) >= ms.config.MaxMaterialCount {
		return nil, fmt.Errorf("material '%s': limit of %d materials reached", config.Name, ms.config.MaxMaterialCount)
	}
	texture, err := ms.textures.Get(config.DiffuseTextureName)
	if err != nil {
		return nil, fmt.Errorf("material '%s': %w", config.Name, err)
	}
	m := &metadata.Material{
		Name:                config.Name,
		BufferIndex:         len(ms.materials),
		DiffuseTextureIndex: int(texture.ID),
		DiffuseAlbedo:       config.DiffuseAlbedo,
		FresnelR0:           config.FresnelR0,
		Roughness:           config.Roughness,
		MatTransform:        math.NewMat4Identity(),
		Refresh:             ms.config.FramesInFlight,
	}
	ms.materials = append(ms.materials, m)
	ms.lookup[m.Name] = m
	core.LogDebug("material '%s' registered at index %d", m.Name, m.BufferIndex)
	return m, nil
}

func (ms *MaterialSystem) Get(name string) (*metadata.Material, error) {
	m, ok := ms.lookup[name]
	if !ok {
		return nil, fmt.Errorf("material '%s' not found", name)
	}
	return m, nil
}

// MustGet panics on an unknown name. Used while building the fixed scene.
func (ms *MaterialSystem) MustGet(name string) *metadata.Material {
	m, err := ms.Get(name)
	if err != nil {
		panic(err)
	}
	return m
}

// SetDiffuseAlbedo updates the albedo and re-arms the material if it changed.
func (ms *MaterialSystem) SetDiffuseAlbedo(m *metadata.Material, albedo math.Vec4) {
	if m.DiffuseAlbedo == albedo {
		return
	}
	m.DiffuseAlbedo = albedo
	m.Refresh = ms.config.FramesInFlight
}

// SetMatTransform updates the texture animation transform and re-arms the
// material if it changed.
func (ms *MaterialSystem) SetMatTransform(m *metadata.Material, transform math.Mat4) {
	if m.MatTransform == transform {
		return
	}
	m.MatTransform = transform
	m.Refresh = ms.config.FramesInFlight
}

func (ms *MaterialSystem) SetFresnelR0(m *metadata.Material, r0 math.Vec3) {
	if m.FresnelR0 == r0 {
		return
	}
	m.FresnelR0 = r0
	m.Refresh = ms.config.FramesInFlight
}

func (ms *MaterialSystem) SetRoughness(m *metadata.Material, roughness float32) {
	if m.Roughness == roughness {
		return
	}
	m.Roughness = roughness
	m.Refresh = ms.config.FramesInFlight
}

// Materials returns every material in buffer index order.
func (ms *MaterialSystem) Materials() []*metadata.Material {
	return ms.materials
}

func (ms *MaterialSystem) Count() int {
	return len(ms.materials)
}

func (ms *MaterialSystem) Shutdown() error {
	ms.lookup = nil
	ms.materials = nil
	return nil
}

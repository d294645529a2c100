package systems

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// GeometryUploader copies vertex and index data to the device.
type GeometryUploader interface {
	UploadGeometry(geometry *metadata.Geometry) error
}

type GeometrySystemConfig struct {
	MaxGeometryCount uint32
}

// NamedMesh is one submesh of a geometry under construction.
type NamedMesh struct {
	Name string
	Mesh MeshData
}

// GeometrySystem owns every geometry for the process lifetime.
type GeometrySystem struct {
	config     GeometrySystemConfig
	uploader   GeometryUploader
	geometries map[string]*metadata.Geometry
	nextID     uint32
}

func NewGeometrySystem(config GeometrySystemConfig, uploader GeometryUploader) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &GeometrySystem{
		config:     config,
		uploader:   uploader,
		geometries: make(map[string]*metadata.Geometry),
	}, nil
}

/**
 * @brief Concatenates parts into one vertex and index array, records a
 * submesh per part and uploads the result. Part indices stay local; each
 * submesh carries the base vertex of its part.
 */
func (gs *GeometrySystem) Create(name string, parts []NamedMesh) (*metadata.Geometry, error) {
	if _, ok := gs.geometries[name]; ok {
		return nil, fmt.Errorf("geometry '%s' already exists", name)
	}
	if uint32(len(gs.geometries)) >= gs.config.MaxGeometryCount {
		return nil, fmt.Errorf("geometry '%s': limit of %d geometries reached", name, gs.config.MaxGeometryCount)
	}

	g := &metadata.Geometry{
		ID:        gs.nextID,
		Name:      name,
		Submeshes: make(map[string]metadata.Submesh, len(parts)),
	}
	for _, part := range parts {
		if _, dup := g.Submeshes[part.Name]; dup {
			return nil, fmt.Errorf("geometry '%s': duplicate submesh '%s'", name, part.Name)
		}
		g.Submeshes[part.Name] = metadata.Submesh{
			IndexCount: uint32(len(part.Mesh.Indices)),
			StartIndex: uint32(len(g.Indices)),
			BaseVertex: int32(len(g.Vertices)),
		}
		g.Vertices = append(g.Vertices, part.Mesh.Vertices...)
		g.Indices = append(g.Indices, part.Mesh.Indices...)
	}

	if gs.uploader != nil {
		if err := gs.uploader.UploadGeometry(g); err != nil {
			return nil, fmt.Errorf("%w: geometry '%s': %v", core.ErrResourceCreation, name, err)
		}
	}
	gs.nextID++
	gs.geometries[name] = g
	core.LogDebug("geometry '%s' created: %d vertices, %d indices, %d submeshes", name, len(g.Vertices), len(g.Indices), len(parts))
	return g, nil
}

func (gs *GeometrySystem) Get(name string) (*metadata.Geometry, error) {
	g, ok := gs.geometries[name]
	if !ok {
		return nil, fmt.Errorf("geometry '%s' not found", name)
	}
	return g, nil
}

func (gs *GeometrySystem) Shutdown() error {
	gs.geometries = nil
	return nil
}

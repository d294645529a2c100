package metadata

import "github.com/spaghettifunk/pendulum/engine/math"

/**
 * @brief A draw range inside a Geometry's shared vertex and index buffers.
 */
type Submesh struct {
	IndexCount uint32
	StartIndex uint32
	BaseVertex int32
}

/**
 * @brief Immutable vertex and index data with named draw ranges.
 * Render items refer to geometries, they never own them.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The geometry name. */
	Name      string
	Vertices  []math.Vertex3D
	Indices   []uint16
	Submeshes map[string]Submesh
	/** @brief Backend specific buffers. */
	InternalData interface{}
}

// Submesh returns the named draw range and whether it exists.
func (g *Geometry) Submesh(name string) (Submesh, bool) {
	s, ok := g.Submeshes[name]
	return s, ok
}

package metadata

import "github.com/spaghettifunk/pendulum/engine/math"

/**
 * @brief Surface properties shared by render items.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief Element of the material constant buffer this material is written to. */
	BufferIndex int
	/** @brief Index into the texture table bound for this material. */
	DiffuseTextureIndex int

	DiffuseAlbedo math.Vec4
	FresnelR0     math.Vec3
	Roughness     float32
	MatTransform  math.Mat4

	/** @brief Frame slots that still hold stale constants for this material. */
	Refresh int
}

// Constants returns what is written to the material constant buffer.
func (m *Material) Constants() MaterialConstants {
	return MaterialConstants{
		DiffuseAlbedo: m.DiffuseAlbedo,
		FresnelR0:     m.FresnelR0,
		Roughness:     m.Roughness,
		MatTransform:  m.MatTransform.Transposed(),
	}
}

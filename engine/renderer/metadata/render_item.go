package metadata

import "github.com/spaghettifunk/pendulum/engine/math"

/** @brief Arena index of a render item. */
type RenderItemHandle int

const InvalidRenderItemHandle RenderItemHandle = -1

/**
 * @brief The minimal unit drawn by the orchestrator: one submesh of a geometry
 * drawn with one material at one world transform.
 */
type RenderItem struct {
	Name         string
	World        math.Mat4
	TexTransform math.Mat4
	/** @brief Frame slots that still hold stale constants for this item. */
	Refresh int
	/** @brief Element of the object constant buffer. Unique and identical across slots. */
	ObjectIndex int
	Geometry    *Geometry
	Submesh     Submesh
	SubmeshName string
	Material    *Material
	Layers      []RenderLayer
}

// Constants returns what is written to the object constant buffer.
func (r *RenderItem) Constants() ObjectConstants {
	return ObjectConstants{
		World:        r.World.Transposed(),
		TexTransform: r.TexTransform.Transposed(),
	}
}

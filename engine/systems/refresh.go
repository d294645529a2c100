package systems

import (
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
)

// RefreshSystem copies changed item and material constants into the frame
// slot being recorded. A change reaches every slot exactly once because each
// source carries a countdown of slots still holding the old value.
type RefreshSystem struct {
	items     *RenderItemSystem
	materials *MaterialSystem
}

func NewRefreshSystem(items *RenderItemSystem, materials *MaterialSystem) *RefreshSystem {
	return &RefreshSystem{items: items, materials: materials}
}

/**
 * @brief Writes every pending item and material into slot and counts the
 * pending sources down by one.
 *
 * @return The number of object and material constants written.
 */
func (rs *RefreshSystem) Refresh(slot *frame.Resource) (objects int, materials int) {
	for _, item := range rs.items.Items() {
		if item.Refresh <= 0 {
			continue
		}
		slot.Objects.Write(item.ObjectIndex, item.Constants())
		item.Refresh--
		objects++
	}
	for _, m := range rs.materials.Materials() {
		if m.Refresh <= 0 {
			continue
		}
		slot.Materials.Write(m.BufferIndex, m.Constants())
		m.Refresh--
		materials++
	}
	return objects, materials
}

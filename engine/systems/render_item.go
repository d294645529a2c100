package systems

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

type RenderItemSystemConfig struct {
	/** @brief Capacity of the object constant buffer in every frame slot. */
	MaxRenderItemCount int
	/** @brief Frame slots a change has to reach. */
	FramesInFlight int
}

/**
 * @brief Everything needed to register a render item.
 */
type RenderItemConfig struct {
	Name        string
	ObjectIndex int
	World       math.Mat4
	// TexTransform defaults to identity when left zero.
	TexTransform math.Mat4
	Geometry     *metadata.Geometry
	Submesh      string
	Material     *metadata.Material
	Layers       []metadata.RenderLayer
}

/**
 * @brief The fields a derived variant replaces. Everything else is taken from
 * the base item at the time Derive is called.
 */
type RenderItemOverrides struct {
	Name        string
	ObjectIndex int
	Material    *metadata.Material
	Layer       metadata.RenderLayer
}

// RenderItemSystem is an arena of render items addressed by handle, with one
// handle list per render layer.
type RenderItemSystem struct {
	config  RenderItemSystemConfig
	items   []*metadata.RenderItem
	layers  [metadata.RenderLayerCount][]metadata.RenderItemHandle
	indices map[int]metadata.RenderItemHandle
	names   map[string]metadata.RenderItemHandle
}

func NewRenderItemSystem(config RenderItemSystemConfig) (*RenderItemSystem, error) {
	if config.MaxRenderItemCount <= 0 || config.FramesInFlight <= 0 {
		err := fmt.Errorf("func NewRenderItemSystem - MaxRenderItemCount and FramesInFlight must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &RenderItemSystem{
		config:  config,
		items:   make([]*metadata.RenderItem, 0, config.MaxRenderItemCount),
		indices: make(map[int]metadata.RenderItemHandle, config.MaxRenderItemCount),
		names:   make(map[string]metadata.RenderItemHandle, config.MaxRenderItemCount),
	}, nil
}

/**
 * @brief Registers an item. The item is pending for every frame slot.
 * Reusing an object index or leaving the object buffer panics.
 */
func (rs *RenderItemSystem) Add(config RenderItemConfig) (metadata.RenderItemHandle, error) {
	if config.Geometry == nil || config.Material == nil {
		return metadata.InvalidRenderItemHandle, fmt.Errorf("render item '%s': geometry and material are required", config.Name)
	}
	submesh, ok := config.Geometry.Submesh(config.Submesh)
	if !ok {
		return metadata.InvalidRenderItemHandle, fmt.Errorf("render item '%s': geometry '%s' has no submesh '%s'", config.Name, config.Geometry.Name, config.Submesh)
	}
	if len(config.Layers) == 0 {
		return metadata.InvalidRenderItemHandle, fmt.Errorf("render item '%s': no render layer", config.Name)
	}
	if _, dup := rs.names[config.Name]; dup {
		return metadata.InvalidRenderItemHandle, fmt.Errorf("render item '%s' already exists", config.Name)
	}
	if config.ObjectIndex < 0 || config.ObjectIndex >= rs.config.MaxRenderItemCount {
		panic(fmt.Sprintf("render item '%s': object index %d out of range [0, %d)", config.Name, config.ObjectIndex, rs.config.MaxRenderItemCount))
	}
	if other, dup := rs.indices[config.ObjectIndex]; dup {
		panic(fmt.Sprintf("render item '%s': object index %d already used by '%s'", config.Name, config.ObjectIndex, rs.items[other].Name))
	}

	texTransform := config.TexTransform
	if texTransform == (math.Mat4{}) {
		texTransform = math.NewMat4Identity()
	}
	item := &metadata.RenderItem{
		Name:         config.Name,
		World:        config.World,
		TexTransform: texTransform,
		Refresh:      rs.config.FramesInFlight,
		ObjectIndex:  config.ObjectIndex,
		Geometry:     config.Geometry,
		Submesh:      submesh,
		SubmeshName:  config.Submesh,
		Material:     config.Material,
		Layers:       append([]metadata.RenderLayer(nil), config.Layers...),
	}

	handle := metadata.RenderItemHandle(len(rs.items))
	rs.items = append(rs.items, item)
	rs.indices[item.ObjectIndex] = handle
	rs.names[item.Name] = handle
	for _, l := range item.Layers {
		rs.layers[l] = append(rs.layers[l], handle)
	}
	core.LogDebug("render item '%s' registered at object index %d, layers %v", item.Name, item.ObjectIndex, item.Layers)
	return handle, nil
}

/**
 * @brief Registers a variant of base sharing its geometry, submesh and
 * transforms, with the overridden index, material and single layer.
 */
func (rs *RenderItemSystem) Derive(base metadata.RenderItemHandle, overrides RenderItemOverrides) (metadata.RenderItemHandle, error) {
	b := rs.Get(base)
	material := overrides.Material
	if material == nil {
		material = b.Material
	}
	h, err := rs.Add(RenderItemConfig{
		Name:         overrides.Name,
		ObjectIndex:  overrides.ObjectIndex,
		World:        b.World,
		TexTransform: b.TexTransform,
		Geometry:     b.Geometry,
		Material:     material,
		Layers:       []metadata.RenderLayer{overrides.Layer},
		Submesh:      b.SubmeshName,
	})
	if err != nil {
		return metadata.InvalidRenderItemHandle, fmt.Errorf("derive from '%s': %w", b.Name, err)
	}
	return h, nil
}

// Get panics on a handle the arena never returned.
func (rs *RenderItemSystem) Get(handle metadata.RenderItemHandle) *metadata.RenderItem {
	if handle < 0 || int(handle) >= len(rs.items) {
		panic(fmt.Sprintf("unknown render item handle %d", handle))
	}
	return rs.items[handle]
}

func (rs *RenderItemSystem) Lookup(name string) (metadata.RenderItemHandle, bool) {
	h, ok := rs.names[name]
	return h, ok
}

// Layer returns the handles drawn in layer l, in registration order.
func (rs *RenderItemSystem) Layer(l metadata.RenderLayer) []metadata.RenderItemHandle {
	return rs.layers[l]
}

// Items returns every item in handle order.
func (rs *RenderItemSystem) Items() []*metadata.RenderItem {
	return rs.items
}

func (rs *RenderItemSystem) Count() int {
	return len(rs.items)
}

// SetWorld updates the world transform and re-arms the item if it changed.
func (rs *RenderItemSystem) SetWorld(handle metadata.RenderItemHandle, world math.Mat4) {
	item := rs.Get(handle)
	if item.World == world {
		return
	}
	item.World = world
	item.Refresh = rs.config.FramesInFlight
}

func (rs *RenderItemSystem) SetTexTransform(handle metadata.RenderItemHandle, transform math.Mat4) {
	item := rs.Get(handle)
	if item.TexTransform == transform {
		return
	}
	item.TexTransform = transform
	item.Refresh = rs.config.FramesInFlight
}

func (rs *RenderItemSystem) Shutdown() error {
	rs.items = nil
	rs.indices = nil
	rs.names = nil
	for i := range rs.layers {
		rs.layers[i] = nil
	}
	return nil
}

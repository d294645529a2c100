package systems

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlots(t *testing.T, n int) []*frame.Resource {
	t.Helper()
	slots := make([]*frame.Resource, n)
	for i := range slots {
		var err error
		slots[i], err = frame.NewResource(heapDevice{}, i, metadata.CommonSlotCount, 8, 4)
		require.NoError(t, err)
	}
	return slots
}

func clearPending(s *testScene) {
	for _, item := range s.items.Items() {
		item.Refresh = 0
	}
	for _, m := range s.materials.Materials() {
		m.Refresh = 0
	}
}

func TestRefreshChangedWorldReachesEverySlotOnce(t *testing.T) {
	const depth = 3
	s := newTestScene(t, depth)
	ball := s.addBall(t, 4)
	clearPending(s)
	refresh := NewRefreshSystem(s.items, s.materials)
	slots := newSlots(t, depth)

	// tick T changes the world; T, T+1 and T+2 land in slots 1, 2 and 0
	moved := math.NewMat4Translation(math.NewVec3(1, 2, -5))
	s.items.SetWorld(ball, moved)
	want := metadata.ObjectConstants{World: moved.Transposed(), TexTransform: math.NewMat4Identity()}

	order := []int{1, 2, 0}
	for _, i := range order {
		objects, materials := refresh.Refresh(slots[i])
		assert.Equal(t, 1, objects)
		assert.Equal(t, 0, materials)
		assert.Equal(t, want, slots[i].Objects.Read(4))
	}

	// untouched afterwards until the next change
	marker := metadata.ObjectConstants{World: math.NewMat4Scale(math.NewVec3(9, 9, 9))}
	slots[1].Objects.Write(4, marker)
	objects, _ := refresh.Refresh(slots[1])
	assert.Zero(t, objects)
	assert.Equal(t, marker, slots[1].Objects.Read(4))
	assert.Equal(t, 0, s.items.Get(ball).Refresh)
}

func TestRefreshExactlyOncePerSlot(t *testing.T) {
	for depth := 1; depth <= 5; depth++ {
		s := newTestScene(t, depth)
		ball := s.addBall(t, 0)
		refresh := NewRefreshSystem(s.items, s.materials)
		slots := newSlots(t, depth)

		writes := make([]int, depth)
		materialWrites := 0
		ticks := 3*depth + 2
		for k := 1; k <= ticks; k++ {
			objects, materials := refresh.Refresh(slots[k%depth])
			writes[k%depth] += objects
			materialWrites += materials
		}
		for i, w := range writes {
			assert.Equal(t, 1, w, "depth %d slot %d", depth, i)
		}
		// two materials, each written into every slot once
		assert.Equal(t, 2*depth, materialWrites, "depth %d", depth)
		assert.Zero(t, s.items.Get(ball).Refresh)
	}
}

func TestRefreshWritesTransposedMaterial(t *testing.T) {
	s := newTestScene(t, 1)
	refresh := NewRefreshSystem(s.items, s.materials)
	slots := newSlots(t, 1)

	shadow := s.materials.MustGet("shadow")
	s.materials.SetMatTransform(shadow, math.NewMat4Translation(math.NewVec3(0.5, 0, 0)))
	_, materials := refresh.Refresh(slots[0])
	assert.Equal(t, 2, materials)

	got := slots[0].Materials.Read(shadow.BufferIndex)
	assert.Equal(t, float32(0.5), got.MatTransform.At(0, 3))
	assert.Equal(t, shadow.DiffuseAlbedo, got.DiffuseAlbedo)
}

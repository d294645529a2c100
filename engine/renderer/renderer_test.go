package renderer_test

import (
	"context"
	"testing"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/headless"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyScene struct{}

func (emptyScene) Layer(metadata.RenderLayer) []metadata.RenderItemHandle { return nil }
func (emptyScene) Get(metadata.RenderItemHandle) *metadata.RenderItem     { return nil }

type countingRefresher struct {
	slots []int
}

func (c *countingRefresher) Refresh(slot *frame.Resource) (int, int) {
	c.slots = append(c.slots, slot.Index)
	return 0, 0
}

func TestDrawFrameCyclesSlots(t *testing.T) {
	device := headless.New(headless.Options{})
	r := renderer.New(device, core.NewMetrics())
	require.NoError(t, r.Initialize(renderer.RendererConfig{
		ApplicationName: "test",
		Width:           4,
		Height:          4,
		FramesInFlight:  3,
		ClearColour:     math.NewVec4(0.690196097, 0.768627524, 0.870588303, 1),
		ObjectCount:     1,
		MaterialCount:   1,
	}))

	ctx := context.Background()
	refresher := &countingRefresher{}
	packet := &renderer.RenderPacket{
		View:        math.NewMat4Identity(),
		Projection:  math.NewMat4Identity(),
		Width:       4,
		Height:      4,
		MirrorPlane: math.Plane{C: 1},
		Lights:      []metadata.Light{{Direction: math.NewVec3(0, 0, 1)}},
	}
	for i := 0; i < 7; i++ {
		require.NoError(t, r.DrawFrame(ctx, packet, emptyScene{}, refresher))
	}
	assert.Equal(t, []int{1, 2, 0, 1, 2, 0, 1}, refresher.slots)
	assert.Equal(t, uint64(7), r.FrameNumber())
	assert.Equal(t, uint64(7), r.Ring().Submitted())

	require.NoError(t, r.Ring().Flush(ctx))
	slot := r.Ring().Slot(1)
	reflected := slot.Common.Read(metadata.CommonSlotReflected)
	assert.Equal(t, math.NewVec3(0, 0, -1), reflected.Lights[0].Direction)
	assert.Equal(t, math.NewVec3(0, 0, 1), slot.Common.Read(metadata.CommonSlotPrimary).Lights[0].Direction)

	assert.Equal(t, [4]float32{0.690196097, 0.768627524, 0.870588303, 1}, device.Pixel(2, 2))
	require.NoError(t, r.Shutdown(ctx))
}

type oneItemScene struct {
	item *metadata.RenderItem
}

func (s oneItemScene) Layer(l metadata.RenderLayer) []metadata.RenderItemHandle {
	if l == metadata.RenderLayerOpaque {
		return []metadata.RenderItemHandle{0}
	}
	return nil
}
func (s oneItemScene) Get(metadata.RenderItemHandle) *metadata.RenderItem { return s.item }

func TestDrawFrameFailsOnUnuploadedGeometry(t *testing.T) {
	device := headless.New(headless.Options{})
	r := renderer.New(device, core.NewMetrics())
	require.NoError(t, r.Initialize(renderer.RendererConfig{
		ApplicationName: "test",
		Width:           4,
		Height:          4,
		FramesInFlight:  2,
		ObjectCount:     1,
		MaterialCount:   1,
	}))

	ctx := context.Background()
	scene := oneItemScene{item: &metadata.RenderItem{
		Geometry: &metadata.Geometry{Name: "box"},
		Submesh:  metadata.Submesh{IndexCount: 36},
		Material: &metadata.Material{},
		Layers:   []metadata.RenderLayer{metadata.RenderLayerOpaque},
	}}
	packet := &renderer.RenderPacket{
		View:        math.NewMat4Identity(),
		Projection:  math.NewMat4Identity(),
		Width:       4,
		Height:      4,
		MirrorPlane: math.Plane{C: 1},
	}
	err := r.DrawFrame(ctx, packet, scene, &countingRefresher{})
	assert.ErrorIs(t, err, core.ErrDeviceLost)
	assert.Equal(t, uint64(0), r.FrameNumber())
	assert.Equal(t, uint64(0), r.Ring().Submitted())
	require.NoError(t, r.Shutdown(ctx))
}

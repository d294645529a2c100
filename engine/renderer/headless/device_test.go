package headless

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const size = 8

var white = math.NewVec4(1, 1, 1, 1)

func newTestDevice(t *testing.T, opts Options) *Device {
	t.Helper()
	d := New(opts)
	require.NoError(t, d.Initialize(metadata.RendererBackendConfig{FramesInFlight: 2}, size, size))
	t.Cleanup(func() { _ = d.Shutdown() })
	require.NoError(t, d.CreatePipelines(renderer.DefaultPipelineConfigs(), metadata.RenderPassConfig{
		ClearColour: white,
		ClearDepth:  1,
	}))
	require.NoError(t, d.UploadTexture(&metadata.Texture{ID: 0, Name: "white1x1", Width: 1, Height: 1, Pixels: []uint8{255, 255, 255, 255}}))
	return d
}

// newTestSlot writes identity transforms and an unlit, fully ambient scene so
// that a fragment's colour is its material albedo.
func newTestSlot(t *testing.T, d *Device, albedos ...math.Vec4) *frame.Resource {
	t.Helper()
	slot, err := frame.NewResource(d, 0, metadata.CommonSlotCount, 4, 4)
	require.NoError(t, err)
	identity := math.NewMat4Identity()
	slot.Common.Write(0, metadata.CommonConstants{ViewProj: identity, AmbientLight: white, EyePosW: math.NewVec3(0, 0, -1)})
	slot.Objects.Write(0, metadata.ObjectConstants{World: identity, TexTransform: identity})
	for i, a := range albedos {
		slot.Materials.Write(i, metadata.MaterialConstants{DiffuseAlbedo: a, MatTransform: identity})
	}
	return slot
}

func ndc(x, y, z float32) math.Vertex3D {
	return math.Vertex3D{Position: math.NewVec3(x, y, z), Normal: math.NewVec3(0, 0, -1)}
}

func uploadTriangles(t *testing.T, d *Device, vertices ...math.Vertex3D) (*metadata.Geometry, metadata.Submesh) {
	t.Helper()
	g := &metadata.Geometry{Name: "tris", Vertices: vertices}
	for i := range vertices {
		g.Indices = append(g.Indices, uint16(i))
	}
	require.NoError(t, d.UploadGeometry(g))
	return g, metadata.Submesh{IndexCount: uint32(len(g.Indices))}
}

func submit(t *testing.T, d *Device, list renderer.CommandList, stamp uint64) {
	t.Helper()
	require.NoError(t, d.EndFrame(list))
	require.NoError(t, d.Signal(stamp))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Timeline().WaitFor(ctx, stamp))
}

// two clockwise triangles: the upper-left half at depth 0.5 and the
// upper-right half in front of it at depth 0.4
func overlappingTriangles() []math.Vertex3D {
	return []math.Vertex3D{
		ndc(-1, 1, 0.5), ndc(1, 1, 0.5), ndc(-1, -1, 0.5),
		ndc(-1, 1, 0.4), ndc(1, 1, 0.4), ndc(1, -1, 0.4),
	}
}

func TestShadowDarkensEachPixelOnce(t *testing.T) {
	d := newTestDevice(t, Options{})
	slot := newTestSlot(t, d, math.NewVec4(0, 0, 0, 0.5))
	g, submesh := uploadTriangles(t, d, overlappingTriangles()...)

	list, err := d.BeginFrame(slot)
	require.NoError(t, err)
	list.SetStencilRef(0)
	list.SetPipeline(metadata.PipelineShadow)
	list.BindCommon(0)
	list.BindObject(0)
	list.BindMaterial(0, 0)
	list.DrawIndexed(g, submesh)
	submit(t, d, list, 1)

	// covered by both triangles
	assert.Equal(t, uint8(1), d.Stencil(4, 1))
	assert.InDelta(t, 0.5, d.Pixel(4, 1)[0], 1e-5)
	// covered by one
	assert.Equal(t, uint8(1), d.Stencil(1, 5))
	assert.InDelta(t, 0.5, d.Pixel(1, 5)[1], 1e-5)
	assert.Equal(t, uint8(1), d.Stencil(7, 6))
	// covered by none
	assert.Equal(t, uint8(0), d.Stencil(4, 7))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, d.Pixel(4, 7))
}

func TestTransparentBlendsEveryLayer(t *testing.T) {
	d := newTestDevice(t, Options{})
	slot := newTestSlot(t, d, math.NewVec4(0, 0, 0, 0.5))
	g, submesh := uploadTriangles(t, d, overlappingTriangles()...)

	list, err := d.BeginFrame(slot)
	require.NoError(t, err)
	list.SetPipeline(metadata.PipelineTransparent)
	list.BindCommon(0)
	list.BindObject(0)
	list.BindMaterial(0, 0)
	list.DrawIndexed(g, submesh)
	submit(t, d, list, 1)

	// without the stencil the overlap is darkened twice
	assert.InDelta(t, 0.25, d.Pixel(4, 1)[0], 1e-5)
	assert.Equal(t, uint8(0), d.Stencil(4, 1))
}

func TestReflectionOnlyInsideMirror(t *testing.T) {
	d := newTestDevice(t, Options{})
	red := math.NewVec4(1, 0, 0, 1)
	slot := newTestSlot(t, d, white, red)

	g, _ := uploadTriangles(t, d,
		// mirror: left half, clockwise
		ndc(-1, 1, 0.5), ndc(0, 1, 0.5), ndc(0, -1, 0.5),
		ndc(-1, 1, 0.5), ndc(0, -1, 0.5), ndc(-1, -1, 0.5),
		// reflection: whole screen, counter-clockwise
		ndc(-1, 1, 0.6), ndc(1, -1, 0.6), ndc(1, 1, 0.6),
		ndc(-1, 1, 0.6), ndc(-1, -1, 0.6), ndc(1, -1, 0.6),
	)
	mirror := metadata.Submesh{IndexCount: 6}
	reflection := metadata.Submesh{IndexCount: 6, StartIndex: 6}

	list, err := d.BeginFrame(slot)
	require.NoError(t, err)
	list.BindCommon(0)
	list.BindObject(0)
	list.SetStencilRef(1)
	list.SetPipeline(metadata.PipelineMarkStencilMirror)
	list.BindMaterial(0, 0)
	list.DrawIndexed(g, mirror)
	list.SetPipeline(metadata.PipelineDrawStencilReflections)
	list.BindMaterial(1, 0)
	list.DrawIndexed(g, reflection)
	submit(t, d, list, 1)

	for y := 0; y < size; y++ {
		assert.Equal(t, uint8(1), d.Stencil(1, y))
		assert.Equal(t, [4]float32{1, 0, 0, 1}, d.Pixel(1, y), "inside row %d", y)
		assert.Equal(t, uint8(0), d.Stencil(6, y))
		assert.Equal(t, [4]float32{1, 1, 1, 1}, d.Pixel(6, y), "outside row %d", y)
	}
	// marking the mirror writes neither colour nor depth
	assert.InDelta(t, 0.6, d.Depth(1, 3), 1e-6)
	assert.Equal(t, float32(1), d.Depth(6, 3))
}

func TestBackFacesCulled(t *testing.T) {
	d := newTestDevice(t, Options{})
	slot := newTestSlot(t, d, math.NewVec4(0, 0, 0, 1))
	g, submesh := uploadTriangles(t, d, ndc(-1, 1, 0.5), ndc(-1, -1, 0.5), ndc(1, 1, 0.5))

	list, err := d.BeginFrame(slot)
	require.NoError(t, err)
	list.SetPipeline(metadata.PipelineOpaque)
	list.BindCommon(0)
	list.BindObject(0)
	list.BindMaterial(0, 0)
	list.DrawIndexed(g, submesh)
	submit(t, d, list, 1)

	assert.Equal(t, [4]float32{1, 1, 1, 1}, d.Pixel(1, 1))
	assert.Equal(t, float32(1), d.Depth(1, 1))
}

func TestRingWaitsForBusyDevice(t *testing.T) {
	d := newTestDevice(t, Options{})
	ring, err := frame.NewRing(d, d.Timeline(), frame.RingOptions{
		Depth:         2,
		CommonCount:   metadata.CommonSlotCount,
		ObjectCount:   1,
		MaterialCount: 1,
		FenceTimeout:  20 * time.Millisecond,
	})
	require.NoError(t, err)
	ctx := context.Background()

	d.Pause()
	for i := 0; i < 2; i++ {
		slot, err := ring.AcquireNext(ctx)
		require.NoError(t, err)
		list, err := d.BeginFrame(slot)
		require.NoError(t, err)
		require.NoError(t, d.EndFrame(list))
		require.NoError(t, d.Signal(ring.Retire(slot)))
	}

	// the device has not executed anything, so slot 1 is still in use
	_, err = ring.AcquireNext(ctx)
	assert.ErrorIs(t, err, core.ErrDeviceLost)

	// recording into a slot the device still reads from is refused
	_, err = d.BeginFrame(ring.Slot(0))
	assert.Error(t, err)

	d.Resume()
	require.NoError(t, ring.Flush(ctx))
	assert.Equal(t, uint64(2), d.Timeline().Completed())
	slot, err := ring.AcquireNext(ctx)
	require.NoError(t, err)
	_, err = d.BeginFrame(slot)
	assert.NoError(t, err)
}

func TestCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame-%d.bmp")
	d := newTestDevice(t, Options{CapturePath: path, CaptureEvery: 2})
	slot := newTestSlot(t, d)

	for stamp := uint64(1); stamp <= 2; stamp++ {
		list, err := d.BeginFrame(slot)
		require.NoError(t, err)
		submit(t, d, list, stamp)
		require.NoError(t, d.Present())
	}
	require.Eventually(t, func() bool { return d.Presented() == 2 }, 5*time.Second, time.Millisecond)

	_, err := os.Stat(filepath.Join(filepath.Dir(path), "frame-1.bmp"))
	assert.True(t, os.IsNotExist(err))

	f, err := os.Open(filepath.Join(filepath.Dir(path), "frame-2.bmp"))
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, size, img.Bounds().Dx())
	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestUploadValidation(t *testing.T) {
	d := newTestDevice(t, Options{})
	err := d.UploadGeometry(&metadata.Geometry{Name: "bad", Vertices: make([]math.Vertex3D, 2), Indices: []uint16{0, 1, 2}})
	assert.ErrorIs(t, err, core.ErrResourceCreation)

	err = d.UploadTexture(&metadata.Texture{Name: "bad", Width: 2, Height: 2, Pixels: make([]uint8, 4)})
	assert.ErrorIs(t, err, core.ErrResourceCreation)
}

func TestFailedDrawIsNotSubmitted(t *testing.T) {
	d := newTestDevice(t, Options{})
	slot := newTestSlot(t, d, white)
	tris, sub := uploadTriangles(t, d, overlappingTriangles()...)

	// geometry that never reached the device
	list, err := d.BeginFrame(slot)
	require.NoError(t, err)
	list.SetPipeline(metadata.PipelineOpaque)
	list.DrawIndexed(&metadata.Geometry{Name: "never-uploaded"}, metadata.Submesh{IndexCount: 3})
	list.DrawIndexed(tris, sub)
	err = d.EndFrame(list)
	assert.ErrorIs(t, err, core.ErrDeviceLost)
	assert.Contains(t, err.Error(), "never-uploaded")

	// no pipeline bound
	list, err = d.BeginFrame(slot)
	require.NoError(t, err)
	list.DrawIndexed(tris, sub)
	assert.ErrorIs(t, d.EndFrame(list), core.ErrDeviceLost)

	// nothing reached the worker, so the slot can be recorded again
	list, err = d.BeginFrame(slot)
	require.NoError(t, err)
	list.SetPipeline(metadata.PipelineOpaque)
	list.BindCommon(0)
	list.BindObject(0)
	list.BindMaterial(0, 0)
	list.DrawIndexed(tris, sub)
	submit(t, d, list, 1)
	assert.Equal(t, uint64(1), d.Timeline().Completed())
}

func TestCallsAfterShutdownFail(t *testing.T) {
	d := newTestDevice(t, Options{})
	slot := newTestSlot(t, d)
	list, err := d.BeginFrame(slot)
	require.NoError(t, err)

	require.NoError(t, d.Shutdown())
	assert.ErrorIs(t, d.EndFrame(list), core.ErrDeviceLost)
	assert.ErrorIs(t, d.Signal(1), core.ErrDeviceLost)
	assert.ErrorIs(t, d.Present(), core.ErrDeviceLost)
	assert.ErrorIs(t, d.Resized(16, 16), core.ErrDeviceLost)
	assert.NoError(t, d.Shutdown())
}

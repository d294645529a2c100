package headless

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*Device)(nil)

const jobQueueDepth = 64

type Options struct {
	// CapturePath receives a BMP of the back buffer every CaptureEvery
	// presents. A %d verb in the path is replaced by the present count.
	CapturePath  string
	CaptureEvery uint64
}

type job struct {
	list    *commandList
	signal  uint64
	present bool
	resize  [2]int
}

// Device is a software implementation of the render backend. Submissions are
// executed in order by a worker goroutine, which plays the role of the GPU
// queue: the caller only learns about completion through the timeline.
type Device struct {
	opts      Options
	config    metadata.RendererBackendConfig
	target    *target
	pass      metadata.RenderPassConfig
	pipelines [metadata.PipelineKindCount]metadata.PipelineConfig
	ready     bool
	textures  []*textureData

	timeline *Timeline
	jobs     chan job
	done     chan struct{}
	hold     sync.Mutex
	once     sync.Once
	// guards jobs against sends after Shutdown closed it
	state  sync.RWMutex
	closed bool

	presented atomic.Uint64
}

func New(opts Options) *Device {
	return &Device{
		opts:     opts,
		timeline: newTimeline(),
	}
}

func (d *Device) Initialize(config metadata.RendererBackendConfig, width, height uint32) error {
	d.config = config
	d.target = newTarget(max(int(width), 1), max(int(height), 1))
	d.jobs = make(chan job, jobQueueDepth)
	d.done = make(chan struct{})
	go d.run()
	core.LogInfo("headless device initialized (%dx%d)", d.target.width, d.target.height)
	return nil
}

func (d *Device) Shutdown() error {
	d.once.Do(func() {
		d.state.Lock()
		d.closed = true
		if d.jobs != nil {
			close(d.jobs)
		}
		d.state.Unlock()
		if d.done != nil {
			<-d.done
		}
	})
	return nil
}

// Resized replaces the render target once every earlier submission executed.
func (d *Device) Resized(width, height uint32) error {
	return d.submit(job{resize: [2]int{max(int(width), 1), max(int(height), 1)}})
}

func (d *Device) Timeline() frame.Timeline {
	return d.timeline
}

func (d *Device) AllocateMapped(size uint64, usage frame.BufferUsage) (frame.MappedMemory, error) {
	return &hostMemory{bytes: make([]byte, size), usage: usage}, nil
}

func (d *Device) NewCommandAllocator() (frame.CommandAllocator, error) {
	return &commandAllocator{}, nil
}

func (d *Device) CreatePipelines(configs [metadata.PipelineKindCount]metadata.PipelineConfig, pass metadata.RenderPassConfig) error {
	for kind, c := range configs {
		if c.Kind != metadata.PipelineKind(kind) {
			return fmt.Errorf("%w: pipeline '%s' stored under kind %d", core.ErrPipelineCreation, c.Name, kind)
		}
	}
	d.pipelines = configs
	d.pass = pass
	d.ready = true
	return nil
}

func (d *Device) UploadGeometry(geometry *metadata.Geometry) error {
	for _, i := range geometry.Indices {
		if int(i) >= len(geometry.Vertices) {
			return fmt.Errorf("%w: geometry '%s' index %d out of range", core.ErrResourceCreation, geometry.Name, i)
		}
	}
	geometry.InternalData = &geometryData{
		vertices: append([]math.Vertex3D(nil), geometry.Vertices...),
		indices:  append([]uint16(nil), geometry.Indices...),
	}
	return nil
}

func (d *Device) UploadTexture(texture *metadata.Texture) error {
	if len(texture.Pixels) != int(texture.Width*texture.Height*4) {
		return fmt.Errorf("%w: texture '%s' has %d bytes for %dx%d", core.ErrResourceCreation, texture.Name, len(texture.Pixels), texture.Width, texture.Height)
	}
	data := &textureData{
		width:  int(texture.Width),
		height: int(texture.Height),
		pixels: append([]uint8(nil), texture.Pixels...),
	}
	for len(d.textures) <= int(texture.ID) {
		d.textures = append(d.textures, nil)
	}
	d.textures[texture.ID] = data
	texture.InternalData = data
	return nil
}

func (d *Device) BeginFrame(slot *frame.Resource) (renderer.CommandList, error) {
	if !d.ready {
		return nil, fmt.Errorf("%w: no pipelines", core.ErrPipelineCreation)
	}
	allocator, ok := slot.Commands.(*commandAllocator)
	if !ok {
		return nil, fmt.Errorf("frame slot %d was not created by the headless device", slot.Index)
	}
	if err := allocator.Reset(); err != nil {
		return nil, fmt.Errorf("frame slot %d: %w", slot.Index, err)
	}
	list := &commandList{slot: slot, allocator: allocator}
	list.commands = append(list.commands, command{op: opClear})
	return list, nil
}

func (d *Device) EndFrame(list renderer.CommandList) error {
	l, ok := list.(*commandList)
	if !ok {
		return fmt.Errorf("command list %T was not recorded by the headless device", list)
	}
	if l.err != nil {
		core.LogError("frame slot %d not submitted: %v", l.slot.Index, l.err)
		return l.err
	}
	l.allocator.pending.Add(1)
	if err := d.submit(job{list: l}); err != nil {
		l.allocator.pending.Add(-1)
		return err
	}
	return nil
}

func (d *Device) Signal(value uint64) error {
	return d.submit(job{signal: value})
}

func (d *Device) Present() error {
	return d.submit(job{present: true})
}

// submit queues j for the worker. It fails once the device was shut down.
func (d *Device) submit(j job) error {
	d.state.RLock()
	defer d.state.RUnlock()
	if d.jobs == nil || d.closed {
		return fmt.Errorf("%w: headless device is shut down", core.ErrDeviceLost)
	}
	d.jobs <- j
	return nil
}

// Pause stops the worker before its next job, simulating a busy device.
func (d *Device) Pause() {
	d.hold.Lock()
}

func (d *Device) Resume() {
	d.hold.Unlock()
}

func (d *Device) run() {
	defer close(d.done)
	for j := range d.jobs {
		d.hold.Lock()
		switch {
		case j.list != nil:
			d.execute(j.list)
			j.list.allocator.pending.Add(-1)
		case j.signal != 0:
			d.timeline.advance(j.signal)
		case j.present:
			d.capture(d.presented.Add(1))
		case j.resize[0] != 0:
			d.target = newTarget(j.resize[0], j.resize[1])
		}
		d.hold.Unlock()
	}
}

func (d *Device) texture(index int) *textureData {
	if index < 0 || index >= len(d.textures) {
		return nil
	}
	return d.textures[index]
}

func (d *Device) execute(list *commandList) {
	slot := list.slot
	state := drawState{}
	for i := range list.commands {
		c := &list.commands[i]
		switch c.op {
		case opClear:
			d.target.clear(d.pass)
		case opSetPipeline:
			state.pipeline = &d.pipelines[c.pipeline]
		case opSetStencilRef:
			state.stencilRef = uint8(c.value)
		case opBindCommon:
			state.common = slot.Common.Read(c.index)
			state.viewProj = state.common.ViewProj.Transposed()
		case opBindObject:
			state.object = slot.Objects.Read(c.index)
			state.world = state.object.World.Transposed()
		case opBindMaterial:
			state.material = slot.Materials.Read(c.index)
			state.texture = d.texture(c.texture)
		case opDraw:
			// validated while recording
			data := c.geometry.InternalData.(*geometryData)
			state.uvTransform = state.object.TexTransform.Transposed().Mul(state.material.MatTransform.Transposed())
			d.target.drawIndexed(&state, data, c.submesh)
		}
	}
}

// Pixel returns the back buffer colour at (x, y). Only valid while the device is idle.
func (d *Device) Pixel(x, y int) [4]float32 {
	i := (y*d.target.width + x) * 4
	var out [4]float32
	copy(out[:], d.target.colour[i:i+4])
	return out
}

// Stencil returns the stencil value at (x, y). Only valid while the device is idle.
func (d *Device) Stencil(x, y int) uint8 {
	return d.target.stencil[y*d.target.width+x]
}

// Depth returns the depth value at (x, y). Only valid while the device is idle.
func (d *Device) Depth(x, y int) float32 {
	return d.target.depth[y*d.target.width+x]
}

// Presented counts executed presents.
func (d *Device) Presented() uint64 {
	return d.presented.Load()
}

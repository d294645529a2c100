package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// Refresher copies pending per-object and per-material constants into a slot.
type Refresher interface {
	Refresh(slot *frame.Resource) (objects int, materials int)
}

type RendererConfig struct {
	ApplicationName  string
	Width, Height    uint32
	FramesInFlight   int
	FenceTimeout     time.Duration
	EnableValidation bool
	ClearColour      math.Vec4
	// Capacities of the per-slot constant buffers.
	ObjectCount   int
	MaterialCount int
}

// Renderer is the frontend: it owns the frame ring and drives the backend
// through one frame per DrawFrame call.
type Renderer struct {
	backend      RendererBackend
	ring         *frame.Ring
	orchestrator *Orchestrator
	metrics      *core.Metrics
	frameNumber  uint64
}

func New(backend RendererBackend, metrics *core.Metrics) *Renderer {
	return &Renderer{
		backend:      backend,
		orchestrator: NewOrchestrator(DefaultPasses),
		metrics:      metrics,
	}
}

func (r *Renderer) Initialize(config RendererConfig) error {
	if err := r.backend.Initialize(metadata.RendererBackendConfig{
		ApplicationName:  config.ApplicationName,
		FramesInFlight:   config.FramesInFlight,
		EnableValidation: config.EnableValidation,
	}, config.Width, config.Height); err != nil {
		return err
	}

	pass := metadata.RenderPassConfig{
		ClearColour:  config.ClearColour,
		ClearDepth:   1.0,
		ClearStencil: 0,
	}
	if err := r.backend.CreatePipelines(DefaultPipelineConfigs(), pass); err != nil {
		if errors.Is(err, core.ErrPipelineCreation) {
			return err
		}
		return fmt.Errorf("%w: %v", core.ErrPipelineCreation, err)
	}

	ring, err := frame.NewRing(r.backend, r.backend.Timeline(), frame.RingOptions{
		Depth:         config.FramesInFlight,
		CommonCount:   metadata.CommonSlotCount,
		ObjectCount:   config.ObjectCount,
		MaterialCount: config.MaterialCount,
		FenceTimeout:  config.FenceTimeout,
		OnStall:       r.metrics.RecordStall,
	})
	if err != nil {
		return err
	}
	r.ring = ring
	core.LogInfo("renderer initialized with %d frames in flight", ring.Depth())
	return nil
}

/**
 * @brief Records and submits one frame. Blocks only when the next frame slot
 * is still in use by the device.
 */
func (r *Renderer) DrawFrame(ctx context.Context, packet *RenderPacket, scene Scene, refresher Refresher) error {
	slot, err := r.ring.AcquireNext(ctx)
	if err != nil {
		core.LogError("frame slot unavailable: %v", err)
		return err
	}

	objects, materials := refresher.Refresh(slot)
	primary := BuildCommonConstants(packet)
	slot.Common.Write(metadata.CommonSlotPrimary, primary)
	slot.Common.Write(metadata.CommonSlotReflected, BuildReflectedConstants(primary, packet.MirrorPlane))

	list, err := r.backend.BeginFrame(slot)
	if errors.Is(err, core.ErrSwapchainBooting) {
		// nothing was submitted, the slot keeps its previous stamp
		return nil
	}
	if err != nil {
		core.LogError("begin frame failed: %v", err)
		return err
	}

	r.orchestrator.Record(list, scene)

	if err := r.backend.EndFrame(list); err != nil {
		core.LogError("end frame failed: %v", err)
		return err
	}
	stamp := r.ring.Retire(slot)
	if err := r.backend.Signal(stamp); err != nil {
		core.LogError("signal %d failed: %v", stamp, err)
		return err
	}
	if err := r.backend.Present(); err != nil && !errors.Is(err, core.ErrSwapchainBooting) {
		core.LogError("present failed: %v", err)
		return err
	}

	r.frameNumber++
	core.LogWith("slot", slot.Index, "stamp", stamp).Debug("frame submitted", "objects", objects, "materials", materials)
	return nil
}

// OnResize waits for the device to go idle before the backend rebuilds its
// size dependent resources.
func (r *Renderer) OnResize(ctx context.Context, width, height uint32) error {
	if r.ring != nil {
		if err := r.ring.Flush(ctx); err != nil {
			return err
		}
	}
	return r.backend.Resized(width, height)
}

func (r *Renderer) UploadGeometry(geometry *metadata.Geometry) error {
	return r.backend.UploadGeometry(geometry)
}

func (r *Renderer) UploadTexture(texture *metadata.Texture) error {
	return r.backend.UploadTexture(texture)
}

// FrameNumber counts submitted frames.
func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

func (r *Renderer) Ring() *frame.Ring {
	return r.ring
}

func (r *Renderer) Shutdown(ctx context.Context) error {
	var flushErr error
	if r.ring != nil {
		flushErr = r.ring.Flush(ctx)
		if flushErr != nil {
			core.LogWarn("device did not drain before shutdown: %v", flushErr)
		}
		r.ring.Close()
		r.ring = nil
	}
	return errors.Join(flushErr, r.backend.Shutdown())
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spaghettifunk/pendulum/engine/assets"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/platform"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// suspendedPoll is how long a minimized window sleeps between event pumps.
const suspendedPoll = 50 * time.Millisecond

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *core.Config
	configPath    string
	runID         string
	isRunning     bool
	isSuspended   bool
	bus           *core.EventBus
	input         *core.Input
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	clock         *core.Clock
	metrics       *core.Metrics
	width         uint32
	height        uint32
	pendingResize bool
	assetsStarted bool
	frameCount    uint64

	// reloads carries configurations parsed by the watcher goroutine to the loop.
	reloads chan *core.Config
}

// New wires the engine for g. configPath is watched for changes while the
// engine runs; it may be empty.
func New(g *Game, configPath string) (*Engine, error) {
	if g.Config == nil {
		g.Config = core.DefaultConfig()
	}
	cfg := g.Config
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(cfg.Log.Level)

	bus := core.NewEventBus()
	input := core.NewInput(bus)
	p := newPlatform(cfg, input, bus)

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	backend, err := newBackend(cfg, p, am)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	metrics := core.NewMetrics()

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		configPath:   configPath,
		runID:        core.NewIdentifier(),
		bus:          bus,
		input:        input,
		platform:     p,
		assetManager: am,
		renderer:     renderer.New(backend, metrics),
		clock:        core.NewClock(),
		metrics:      metrics,
		width:        cfg.Application.StartWidth,
		height:       cfg.Application.StartHeight,
		reloads:      make(chan *core.Config, 1),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.config
	core.LogWith("run", core.ShortIdentifier(e.runID)).Info("initializing", "backend", cfg.Application.Backend, "frames_in_flight", cfg.Renderer.FramesInFlight)

	e.bus.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.bus.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.bus.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.bus.Register(core.EVENT_CODE_CONFIG_RELOADED, e, e.onConfigReloaded)

	if err := e.platform.Startup(cfg.Application.Name,
		cfg.Application.StartPosX,
		cfg.Application.StartPosY,
		cfg.Application.StartWidth,
		cfg.Application.StartHeight); err != nil {
		return err
	}
	if w, h := e.platform.FramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}

	e.assetsStarted = true
	if err := e.assetManager.Initialize(cfg.Assets.Dir); err != nil {
		return err
	}

	c := cfg.Renderer.ClearColor
	if err := e.renderer.Initialize(renderer.RendererConfig{
		ApplicationName:  cfg.Application.Name,
		Width:            e.width,
		Height:           e.height,
		FramesInFlight:   cfg.Renderer.FramesInFlight,
		FenceTimeout:     time.Duration(cfg.Renderer.FenceTimeoutMS) * time.Millisecond,
		EnableValidation: cfg.Renderer.EnableValidation,
		ClearColour:      math.NewVec4(c[0], c[1], c[2], c[3]),
		ObjectCount:      systems.MaxRenderItemCount,
		MaterialCount:    systems.MaxMaterialCount,
	}); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(cfg, e.assetManager, e.renderer)
	if err != nil {
		return err
	}
	e.systemManager = sm
	cameras := sm.Cameras()
	cameras.GetDefault().SetAspect(e.width, e.height)
	e.bus.Register(core.EVENT_CODE_MOUSE_DRAGGED, cameras, cameras.OnDrag)
	e.bus.Register(core.EVENT_CODE_RESIZED, cameras, cameras.OnResize)

	g := e.gameInstance
	g.SystemManager = sm
	g.Input = e.input
	g.Events = e.bus
	if err := g.FnInitialize(); err != nil {
		return err
	}
	if err := g.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run ticks until the window closes, ctx is cancelled, the configured number
// of frames was drawn or a frame fails. A failing frame is returned.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine run before initialization")
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if e.configPath != "" {
		go func() {
			if err := core.WatchConfig(ctx, e.configPath, e.onConfigFile); err != nil {
				core.LogWarn("config hot reload disabled: %v", err)
			}
		}()
	}

	e.clock.Start()
	maxFrames := e.config.Application.MaxFrames

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("context done, stopping")
			e.isRunning = false
			continue
		default:
		}

		if !e.platform.PumpMessages() {
			e.isRunning = false
			continue
		}
		e.drainReloads()

		if e.pendingResize {
			e.pendingResize = false
			if err := e.resize(ctx); err != nil {
				return err
			}
		}
		if e.isSuspended {
			time.Sleep(suspendedPoll)
			continue
		}

		e.clock.Tick()
		if err := e.tick(ctx); err != nil {
			core.LogError("frame %d failed, shutting down: %v", e.frameCount, err)
			e.isRunning = false
			return err
		}
		e.input.Update()
		e.frameCount++

		if e.metrics.Update(e.clock.Delta()) {
			core.LogWith("run", core.ShortIdentifier(e.runID)).Info("frame stats",
				"fps", e.metrics.FPS(),
				"frame_ms", fmt.Sprintf("%.3f", e.metrics.FrameTime()),
				"stalls", e.metrics.Stalls())
		}
		if maxFrames > 0 && e.frameCount >= maxFrames {
			core.LogInfo("drew %d frames, stopping", e.frameCount)
			e.isRunning = false
		}
	}
	return nil
}

func (e *Engine) tick(ctx context.Context) error {
	g := e.gameInstance
	delta := e.clock.Delta()

	if err := g.FnUpdate(delta); err != nil {
		return err
	}

	packet := &renderer.RenderPacket{
		Width:     e.width,
		Height:    e.height,
		TotalTime: float32(e.clock.Total()),
		DeltaTime: float32(delta),
	}
	if err := g.FnRender(packet, delta); err != nil {
		return err
	}
	if err := e.renderer.DrawFrame(ctx, packet, e.systemManager.RenderItems(), e.systemManager.Refresh()); err != nil {
		return err
	}
	if g.FnCaption != nil {
		e.platform.SetTitle(g.FnCaption())
	}
	return nil
}

func (e *Engine) resize(ctx context.Context) error {
	core.LogDebug("window resize: %d, %d", e.width, e.height)
	if err := e.renderer.OnResize(ctx, e.width, e.height); err != nil {
		core.LogError("resize failed: %v", err)
		return err
	}
	return e.gameInstance.FnOnResize(e.width, e.height)
}

func (e *Engine) Shutdown(ctx context.Context) error {
	e.currentStage = EngineStageShuttingDown
	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.renderer.Shutdown(ctx))
	if e.systemManager != nil {
		errs = append(errs, e.systemManager.Shutdown())
	}
	if e.assetsStarted {
		errs = append(errs, e.assetManager.Close())
	}
	e.bus.Shutdown()
	errs = append(errs, e.platform.Shutdown())
	e.clock.Stop()
	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// FrameCount is the number of ticks drawn so far.
func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// onConfigFile runs on the watcher goroutine. Only the newest configuration is kept.
func (e *Engine) onConfigFile(cfg *core.Config, err error) {
	if err != nil {
		core.LogWarn("ignoring config reload: %v", err)
		return
	}
	select {
	case <-e.reloads:
	default:
	}
	e.reloads <- cfg
}

func (e *Engine) drainReloads() {
	select {
	case cfg := <-e.reloads:
		e.bus.Fire(core.EVENT_CODE_CONFIG_RELOADED, e, core.EventContext{Payload: cfg})
	default:
	}
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if core.KeyCode(data.Data.U16[0]) == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.bus.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
		return true
	}
	return false
}

// onResized only records the size; the device is rebuilt at the top of the next tick.
func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	width := uint32(data.Data.U16[0])
	height := uint32(data.Data.U16[1])
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	} else if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	e.pendingResize = true
	return false
}

// onConfigReloaded applies the settings that may change while running.
func (e *Engine) onConfigReloaded(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	cfg, ok := data.Payload.(*core.Config)
	if !ok {
		return false
	}
	core.SetLogLevel(cfg.Log.Level)
	if e.systemManager != nil {
		e.systemManager.Cameras().ApplyConfig(cfg.Camera)
	}
	core.LogInfo("configuration reloaded (log level %s, full orbit %t)", cfg.Log.Level, cfg.Camera.FullOrbit)
	return false
}

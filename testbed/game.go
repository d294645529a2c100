package testbed

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/components"
)

const (
	// maxStepSeconds bounds a single Euler step after a long stall.
	maxStepSeconds = 1.0 / 15.0
	// keyboard orbit and zoom, in dragged pixels per second
	keyOrbitRate = 240.0
	keyZoomRate  = 60.0
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	camera   *components.Camera
	scene    *Scene
	pendulum Pendulum
	paused   bool
	// pending is drained once per tick by Update.
	pending *SetAngle

	width  uint32
	height uint32
}

func NewTestGame(cfg *core.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State: &gameState{
				pendulum: NewPendulum(cfg.Pendulum),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnCaption = tg.Caption
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.state()
	state.camera = g.SystemManager.Cameras().GetDefault()

	scene, err := BuildScene(g.SystemManager)
	if err != nil {
		core.LogError("failed to build the scene: %v", err)
		return err
	}
	state.scene = scene
	scene.Update(state.pendulum)

	g.Events.Register(core.EVENT_CODE_KEY_PRESSED, g, g.onKey)
	g.Events.Register(core.EVENT_CODE_CONFIG_RELOADED, g, g.onConfigReloaded)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	dt := float32(deltaTime)

	if g.Input.IsKeyDown(core.KEY_A) {
		state.camera.Orbit(-keyOrbitRate*dt, 0)
	}
	if g.Input.IsKeyDown(core.KEY_D) {
		state.camera.Orbit(keyOrbitRate*dt, 0)
	}
	if g.Input.IsKeyDown(core.KEY_W) {
		state.camera.Zoom(0, keyZoomRate*dt)
	}
	if g.Input.IsKeyDown(core.KEY_S) {
		state.camera.Zoom(0, -keyZoomRate*dt)
	}

	cmd := state.pending
	state.pending = nil
	if state.paused && cmd == nil {
		return nil
	}
	if dt > maxStepSeconds {
		dt = maxStepSeconds
	}
	state.pendulum = state.pendulum.Step(dt, cmd)
	state.scene.Update(state.pendulum)
	return nil
}

func (g *TestGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	state := g.state()
	state.scene.Fill(packet, state.camera)
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	state.camera.SetAspect(width, height)
	return nil
}

func (g *TestGame) Caption() string {
	return fmt.Sprintf("Pendulum demo: pendulum angle : %.5g in radians.", g.state().pendulum.Theta)
}

func (g *TestGame) Shutdown() error {
	if g.Events != nil {
		g.Events.Unregister(core.EVENT_CODE_KEY_PRESSED, g)
		g.Events.Unregister(core.EVENT_CODE_CONFIG_RELOADED, g)
	}
	return nil
}

// Queue replaces any command not yet drained by Update.
func (g *TestGame) Queue(cmd SetAngle) {
	g.state().pending = &cmd
}

func (g *TestGame) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	key := core.KeyCode(data.Data.U16[0])
	switch {
	case key >= core.KEY_0 && key <= core.KEY_9:
		// 1..9 start the swing at 10..90 degrees, 0 hangs it straight down
		g.Queue(SetAngleDegrees(10 * float32(key-core.KEY_0)))
		return true
	case key == core.KEY_R:
		g.Queue(SetAngleDegrees(g.Config.Pendulum.InitialAngleDegrees))
		return true
	case key == core.KEY_SPACE:
		state := g.state()
		state.paused = !state.paused
		core.LogInfo("simulation paused: %t (angle %.1f degrees)", state.paused, math.RadToDeg(state.pendulum.Theta))
		return true
	}
	return false
}

func (g *TestGame) onConfigReloaded(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	cfg, ok := data.Payload.(*core.Config)
	if !ok {
		return false
	}
	var previous *float32
	if g.Config != nil {
		previous = g.Config.Pendulum.OverrideAngleDegrees
	}
	g.Config = cfg
	// a reload that leaves the override alone must not undo keyboard changes
	override := cfg.Pendulum.OverrideAngleDegrees
	if override != nil && (previous == nil || *previous != *override) {
		g.Queue(SetAngleDegrees(*override))
	}
	return false
}

package engine

import (
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/systems"
)

// Game is the application driven by the engine. The engine fills in the
// shared services before FnInitialize is called.
type Game struct {
	Config        *core.Config
	SystemManager *systems.SystemManager
	Input         *core.Input
	Events        *core.EventBus
	State         interface{}

	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnCaption    Caption
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render completes a packet the engine already sized and timed.
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error

// Caption is the window title for the current tick.
type Caption func() string
type Shutdown func() error

package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/pendulum/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the window and forwards its callbacks to the input state and
// the event bus. A headless platform has no window and never closes by itself.
type Platform struct {
	Window *glfw.Window

	input    *core.Input
	bus      *core.EventBus
	headless bool
	title    string
}

func New(input *core.Input, bus *core.EventBus) *Platform {
	return &Platform{input: input, bus: bus}
}

func NewHeadless(input *core.Input, bus *core.EventBus) *Platform {
	return &Platform{input: input, bus: bus, headless: true}
}

func (p *Platform) Headless() bool {
	return p.headless
}

func (p *Platform) Startup(applicationName string, x, y, width, height uint32) error {
	p.title = applicationName
	if p.headless {
		core.LogInfo("headless platform started (%dx%d)", width, height)
		return nil
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return fmt.Errorf("glfw reports no vulkan loader")
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	p.Window = window

	window.SetKeyCallback(p.keyCallback)
	window.SetMouseButtonCallback(p.mouseButtonCallback)
	window.SetCursorPosCallback(p.cursorPosCallback)
	window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	window.SetCloseCallback(p.closeCallback)
	window.SetPos(int(x), int(y))
	window.Show()
	return nil
}

func (p *Platform) Shutdown() error {
	if p.headless {
		return nil
	}
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once the
// window was asked to close.
func (p *Platform) PumpMessages() bool {
	if p.headless {
		return true
	}
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

func (p *Platform) SetTitle(title string) {
	if title == p.title {
		return
	}
	p.title = title
	if p.headless {
		core.LogDebug("title: %s", title)
		return
	}
	p.Window.SetTitle(title)
}

// FramebufferSize is the drawable size in pixels.
func (p *Platform) FramebufferSize() (uint32, uint32) {
	if p.headless || p.Window == nil {
		return 0, 0
	}
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func (p *Platform) RequiredInstanceExtensions() []string {
	if p.Window == nil {
		return nil
	}
	return p.Window.GetRequiredInstanceExtensions()
}

// CreateWindowSurface creates a VkSurfaceKHR for the window and returns its handle.
func (p *Platform) CreateWindowSurface(instance interface{}) (uintptr, error) {
	if p.Window == nil {
		return 0, fmt.Errorf("platform has no window")
	}
	return p.Window.CreateWindowSurface(instance, nil)
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok || action == glfw.Repeat {
		return
	}
	p.input.ProcessKey(code, action == glfw.Press)
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	p.input.ProcessButton(b, action == glfw.Press)
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.input.ProcessMouseMove(int32(xpos), int32(ypos))
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(width)
	ctx.Data.U16[1] = uint16(height)
	p.bus.Fire(core.EVENT_CODE_RESIZED, p, ctx)
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.bus.Fire(core.EVENT_CODE_APPLICATION_QUIT, p, core.EventContext{})
}

func translateKey(key glfw.Key) (core.KeyCode, bool) {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return core.KEY_0 + core.KeyCode(key-glfw.Key0), true
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return core.KEY_0 + core.KeyCode(key-glfw.KeyKP0), true
	}
	switch key {
	case glfw.KeyEscape:
		return core.KEY_ESCAPE, true
	case glfw.KeySpace:
		return core.KEY_SPACE, true
	case glfw.KeyA:
		return core.KEY_A, true
	case glfw.KeyD:
		return core.KEY_D, true
	case glfw.KeyR:
		return core.KEY_R, true
	case glfw.KeyS:
		return core.KEY_S, true
	case glfw.KeyW:
		return core.KEY_W, true
	}
	return 0, false
}

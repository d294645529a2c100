package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_ESCAPE KeyCode = 0x1B
	KEY_SPACE  KeyCode = 0x20
	KEY_0      KeyCode = 0x30
	KEY_1      KeyCode = 0x31
	KEY_2      KeyCode = 0x32
	KEY_3      KeyCode = 0x33
	KEY_4      KeyCode = 0x34
	KEY_5      KeyCode = 0x35
	KEY_6      KeyCode = 0x36
	KEY_7      KeyCode = 0x37
	KEY_8      KeyCode = 0x38
	KEY_9      KeyCode = 0x39
	KEY_A      KeyCode = 0x41
	KEY_D      KeyCode = 0x44
	KEY_R      KeyCode = 0x52
	KEY_S      KeyCode = 0x53
	KEY_W      KeyCode = 0x57
	KEYS_MAX_KEYS
)

// Mouse state structure
type MouseState struct {
	X       int32
	Y       int32
	Buttons [BUTTON_MAX_BUTTONS]bool
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// Input holds current and previous states for keyboard and mouse and turns
// raw platform callbacks into events.
type Input struct {
	bus              *EventBus
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
}

func NewInput(bus *EventBus) *Input {
	return &Input{bus: bus}
}

// Update copies current states to previous states. Called once per tick.
func (in *Input) Update() {
	in.KeyboardPrevious = in.KeyboardCurrent
	in.MousePrevious = in.MouseCurrent
}

func (in *Input) IsKeyDown(key KeyCode) bool {
	return in.KeyboardCurrent.Keys[uint8(key)]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return in.KeyboardPrevious.Keys[uint8(key)]
}

func (in *Input) IsButtonDown(button Button) bool {
	return in.MouseCurrent.Buttons[button]
}

func (in *Input) MousePosition() (int32, int32) {
	return in.MouseCurrent.X, in.MouseCurrent.Y
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if in.KeyboardCurrent.Keys[uint8(key)] == pressed {
		return
	}
	in.KeyboardCurrent.Keys[uint8(key)] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	ctx := EventContext{}
	ctx.Data.U16[0] = uint16(key)
	in.bus.Fire(code, in, ctx)
}

func (in *Input) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS || in.MouseCurrent.Buttons[button] == pressed {
		return
	}
	in.MouseCurrent.Buttons[button] = pressed

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	ctx := EventContext{}
	ctx.Data.U16[0] = uint16(button)
	ctx.Data.I32[0] = in.MouseCurrent.X
	ctx.Data.I32[1] = in.MouseCurrent.Y
	in.bus.Fire(code, in, ctx)
}

// ProcessMouseMove records the cursor and fires a drag event for every held
// button, carrying the pixel delta since the last position.
func (in *Input) ProcessMouseMove(x, y int32) {
	if in.MouseCurrent.X == x && in.MouseCurrent.Y == y {
		return
	}
	dx := x - in.MouseCurrent.X
	dy := y - in.MouseCurrent.Y
	in.MouseCurrent.X = x
	in.MouseCurrent.Y = y

	moved := EventContext{}
	moved.Data.I32[0] = x
	moved.Data.I32[1] = y
	in.bus.Fire(EVENT_CODE_MOUSE_MOVED, in, moved)

	for b := BUTTON_LEFT; b < BUTTON_MAX_BUTTONS; b++ {
		if !in.MouseCurrent.Buttons[b] {
			continue
		}
		drag := EventContext{}
		drag.Data.U16[0] = uint16(b)
		drag.Data.I32[0] = dx
		drag.Data.I32[1] = dy
		in.bus.Fire(EVENT_CODE_MOUSE_DRAGGED, in, drag)
	}
}

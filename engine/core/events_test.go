package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusRegisterFire(t *testing.T) {
	bus := NewEventBus()
	listener := &struct{}{}
	var got EventContext

	ok := bus.Register(EVENT_CODE_RESIZED, listener, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		got = data
		return true
	})
	assert.True(t, ok)
	assert.False(t, bus.Register(EVENT_CODE_RESIZED, listener, nil), "duplicate listener")

	ctx := EventContext{}
	ctx.Data.U16[0] = 800
	ctx.Data.U16[1] = 600
	assert.True(t, bus.Fire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, uint16(800), got.Data.U16[0])

	assert.True(t, bus.Unregister(EVENT_CODE_RESIZED, listener))
	assert.False(t, bus.Fire(EVENT_CODE_RESIZED, nil, ctx))
}

func TestInputDragDeltas(t *testing.T) {
	bus := NewEventBus()
	in := NewInput(bus)

	type drag struct {
		button Button
		dx, dy int32
	}
	var drags []drag
	bus.Register(EVENT_CODE_MOUSE_DRAGGED, t, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		drags = append(drags, drag{Button(data.Data.U16[0]), data.Data.I32[0], data.Data.I32[1]})
		return true
	})

	in.ProcessMouseMove(10, 10)
	assert.Empty(t, drags, "no button held")

	in.ProcessButton(BUTTON_LEFT, true)
	in.ProcessMouseMove(14, 8)
	in.ProcessButton(BUTTON_LEFT, false)
	in.ProcessButton(BUTTON_RIGHT, true)
	in.ProcessMouseMove(10, 8)

	assert.Equal(t, []drag{{BUTTON_LEFT, 4, -2}, {BUTTON_RIGHT, -4, 0}}, drags)
}

func TestInputKeyEdges(t *testing.T) {
	bus := NewEventBus()
	in := NewInput(bus)
	pressed := 0
	bus.Register(EVENT_CODE_KEY_PRESSED, t, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		pressed++
		return true
	})

	in.ProcessKey(KEY_3, true)
	in.ProcessKey(KEY_3, true)
	assert.Equal(t, 1, pressed)
	assert.True(t, in.IsKeyDown(KEY_3))
	assert.False(t, in.WasKeyDown(KEY_3))
	in.Update()
	assert.True(t, in.WasKeyDown(KEY_3))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	reported := false
	for i := 0; i < 70; i++ {
		if m.Update(1.0 / 60.0) {
			reported = true
		}
	}
	assert.True(t, reported)
	assert.InDelta(t, 16.666, m.FrameTime(), 0.01)
	assert.InDelta(t, 60, m.FPS(), 2)

	m.RecordStall()
	assert.Equal(t, uint64(1), m.Stalls())
}

package headless

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
)

// hostMemory stands in for a persistently mapped device allocation.
type hostMemory struct {
	bytes []byte
	usage frame.BufferUsage
}

func (m *hostMemory) Bytes() []byte { return m.bytes }
func (m *hostMemory) Release()      { m.bytes = nil }

// commandAllocator tracks how many lists recorded from it the device has not
// executed yet, and refuses a reset while any are pending.
type commandAllocator struct {
	pending atomic.Int32
	resets  int
}

func (c *commandAllocator) Reset() error {
	if n := c.pending.Load(); n > 0 {
		return fmt.Errorf("command allocator reset with %d lists still executing", n)
	}
	c.resets++
	return nil
}

func (c *commandAllocator) Release() {}

package frame

import (
	"context"
	"sync"
)

type heapMemory struct {
	bytes    []byte
	released bool
}

func (m *heapMemory) Bytes() []byte { return m.bytes }
func (m *heapMemory) Release()      { m.released = true }

type nopCommands struct{ resets int }

func (c *nopCommands) Reset() error { c.resets++; return nil }
func (c *nopCommands) Release()     {}

type heapDevice struct {
	allocations []*heapMemory
}

func (d *heapDevice) AllocateMapped(size uint64, usage BufferUsage) (MappedMemory, error) {
	m := &heapMemory{bytes: make([]byte, size)}
	d.allocations = append(d.allocations, m)
	return m, nil
}

func (d *heapDevice) NewCommandAllocator() (CommandAllocator, error) {
	return &nopCommands{}, nil
}

// simTimeline is a device completion counter driven by the test.
type simTimeline struct {
	mu        sync.Mutex
	completed uint64
	changed   chan struct{}
}

func newSimTimeline() *simTimeline {
	return &simTimeline{changed: make(chan struct{})}
}

func (s *simTimeline) Completed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *simTimeline) Complete(value uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value > s.completed {
		s.completed = value
		close(s.changed)
		s.changed = make(chan struct{})
	}
}

func (s *simTimeline) WaitFor(ctx context.Context, value uint64) error {
	for {
		s.mu.Lock()
		if s.completed >= value {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

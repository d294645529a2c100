package headless

import (
	"context"
	"sync"
)

// Timeline is the completion counter the worker advances after executing
// everything submitted before a signal.
type Timeline struct {
	mu        sync.Mutex
	completed uint64
	changed   chan struct{}
}

func newTimeline() *Timeline {
	return &Timeline{changed: make(chan struct{})}
}

func (t *Timeline) Completed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

func (t *Timeline) advance(value uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if value <= t.completed {
		return
	}
	t.completed = value
	close(t.changed)
	t.changed = make(chan struct{})
}

func (t *Timeline) WaitFor(ctx context.Context, value uint64) error {
	for {
		t.mu.Lock()
		if t.completed >= value {
			t.mu.Unlock()
			return nil
		}
		changed := t.changed
		t.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package vulkan

import (
	"context"
	"fmt"
	"sync"

	"github.com/spaghettifunk/pendulum/engine/containers"
	"github.com/spaghettifunk/pendulum/engine/core"
)

type pendingSignal struct {
	value uint64
	fence *VulkanFence
}

// fenceTimeline emulates a timeline semaphore with binary fences: every
// Signal pairs the value with the fence of the last submission, and Completed
// is the value of the newest fence found signalled, in submission order.
type fenceTimeline struct {
	context *VulkanContext

	mu        sync.Mutex
	completed uint64
	signalled uint64
	pending   *containers.RingQueue[pendingSignal]
	free      []*VulkanFence
}

func newFenceTimeline(context *VulkanContext, capacity int) *fenceTimeline {
	return &fenceTimeline{
		context: context,
		pending: containers.NewRingQueue[pendingSignal](capacity),
	}
}

// acquireFence hands out an unsignalled fence for the next submission.
func (t *fenceTimeline) acquireFence() (*VulkanFence, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.free); n > 0 {
		f := t.free[n-1]
		t.free = t.free[:n-1]
		if err := f.FenceReset(t.context); err != nil {
			return nil, err
		}
		return f, nil
	}
	return NewFence(t.context, false)
}

func (t *fenceTimeline) signal(value uint64, fence *VulkanFence) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if value > t.signalled {
		t.signalled = value
	}
	if fence == nil {
		// nothing was submitted since the last signal
		if value > t.completed {
			t.completed = value
		}
		return nil
	}
	if err := t.pending.Enqueue(pendingSignal{value: value, fence: fence}); err != nil {
		return fmt.Errorf("signal %d: %w", value, err)
	}
	return nil
}

// retain queues a fence that is followed by another submission before the
// next signal. It carries the last signalled value, so it never advances the
// timeline but keeps the fence from being recycled while in flight.
func (t *fenceTimeline) retain(fence *VulkanFence) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.pending.Enqueue(pendingSignal{value: t.signalled, fence: fence}); err != nil {
		return fmt.Errorf("retain fence: %w", err)
	}
	return nil
}

// poll retires every leading pending signal whose fence has fired.
func (t *fenceTimeline) poll() error {
	for {
		head, err := t.pending.Peek()
		if err != nil {
			return nil
		}
		done, err := head.fence.FenceSignaled(t.context)
		if err != nil {
			return err
		}
		if !done {
			return nil
		}
		t.pending.Dequeue()
		t.completed = head.value
		t.free = append(t.free, head.fence)
	}
}

func (t *fenceTimeline) Completed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.poll(); err != nil {
		core.LogError("timeline poll failed: %s", err)
	}
	return t.completed
}

func (t *fenceTimeline) WaitFor(ctx context.Context, value uint64) error {
	for {
		t.mu.Lock()
		if err := t.poll(); err != nil {
			t.mu.Unlock()
			return err
		}
		if t.completed >= value {
			t.mu.Unlock()
			return nil
		}
		head, err := t.pending.Peek()
		t.mu.Unlock()
		if err != nil {
			return fmt.Errorf("%w: timeline value %d was never signalled", core.ErrDeviceLost, value)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := head.fence.FenceWait(t.context, fenceWaitSliceNS); err != nil {
			return err
		}
	}
}

func (t *fenceTimeline) destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		p, err := t.pending.Dequeue()
		if err != nil {
			break
		}
		p.fence.FenceDestroy(t.context)
	}
	for _, f := range t.free {
		f.FenceDestroy(t.context)
	}
	t.free = nil
}

package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spaghettifunk/pendulum/engine/core"
)

type RingOptions struct {
	Depth         int
	CommonCount   int
	ObjectCount   int
	MaterialCount int
	// FenceTimeout bounds a wait on a slot. Zero waits until ctx is done.
	FenceTimeout time.Duration
	// OnStall is called every time AcquireNext has to wait.
	OnStall func()
}

// Ring hands out frame slots round robin and makes sure a slot is only reused
// once the device signalled the stamp of its previous submission.
type Ring struct {
	slots     []*Resource
	cursor    int
	submitted uint64
	timeline  Timeline
	timeout   time.Duration
	onStall   func()
}

func NewRing(device ResourceDevice, timeline Timeline, opts RingOptions) (*Ring, error) {
	if opts.Depth < 1 {
		return nil, fmt.Errorf("%w: ring depth must be at least 1, got %d", core.ErrInvalidConfig, opts.Depth)
	}
	r := &Ring{
		slots:    make([]*Resource, 0, opts.Depth),
		timeline: timeline,
		timeout:  opts.FenceTimeout,
		onStall:  opts.OnStall,
	}
	for i := 0; i < opts.Depth; i++ {
		slot, err := NewResource(device, i, opts.CommonCount, opts.ObjectCount, opts.MaterialCount)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.slots = append(r.slots, slot)
		core.LogDebug("frame slot %d created (%s)", i, core.ShortIdentifier(slot.ID))
	}
	return r, nil
}

// AcquireNext advances the cursor and returns the slot there, blocking until
// the device completed the slot's previous submission. This is the only place
// the frame loop waits on the device. A wait that times out or is cancelled
// reports core.ErrDeviceLost.
func (r *Ring) AcquireNext(ctx context.Context) (*Resource, error) {
	r.cursor = (r.cursor + 1) % len(r.slots)
	slot := r.slots[r.cursor]

	if slot.Stamp != 0 && r.timeline.Completed() < slot.Stamp {
		if r.onStall != nil {
			r.onStall()
		}
		if err := r.wait(ctx, slot.Stamp); err != nil {
			return nil, err
		}
	}
	return slot, nil
}

// Retire stamps slot with the next timeline value and returns it. The caller
// asks the device to signal that value once the submission finished.
func (r *Ring) Retire(slot *Resource) uint64 {
	r.submitted++
	slot.Stamp = r.submitted
	return r.submitted
}

// Flush waits until every retired slot completed.
func (r *Ring) Flush(ctx context.Context) error {
	if r.submitted == 0 || r.timeline.Completed() >= r.submitted {
		return nil
	}
	return r.wait(ctx, r.submitted)
}

func (r *Ring) wait(ctx context.Context, stamp uint64) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.timeline.WaitFor(ctx, stamp); err != nil {
		if errors.Is(err, core.ErrDeviceLost) {
			return err
		}
		return fmt.Errorf("%w: waiting for frame %d (completed %d): %v", core.ErrDeviceLost, stamp, r.timeline.Completed(), err)
	}
	return nil
}

// Submitted is the last value handed out by Retire.
func (r *Ring) Submitted() uint64 {
	return r.submitted
}

func (r *Ring) Depth() int {
	return len(r.slots)
}

func (r *Ring) Slot(i int) *Resource {
	return r.slots[i]
}

// Close releases every slot. Call Flush first.
func (r *Ring) Close() {
	for _, s := range r.slots {
		s.Close()
	}
	r.slots = nil
}

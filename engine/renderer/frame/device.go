package frame

import "context"

type BufferUsage int

const (
	BufferUsageConstant BufferUsage = iota
	BufferUsageVertex
	BufferUsageIndex
)

// MappedMemory is a host-visible allocation that stays mapped until Release.
type MappedMemory interface {
	// Bytes is the mapped range. Writes are visible to the device without a flush.
	Bytes() []byte
	Release()
}

// Allocator creates persistently mapped memory.
type Allocator interface {
	AllocateMapped(size uint64, usage BufferUsage) (MappedMemory, error)
}

// CommandAllocator backs the command lists recorded into one frame slot. It
// may only be reset once the device finished every list recorded from it.
type CommandAllocator interface {
	Reset() error
	Release()
}

// ResourceDevice creates everything a frame slot owns.
type ResourceDevice interface {
	Allocator
	NewCommandAllocator() (CommandAllocator, error)
}

// Timeline is the device's monotonically increasing completion counter.
type Timeline interface {
	Completed() uint64
	// WaitFor blocks until Completed() >= value or ctx is done.
	WaitFor(ctx context.Context, value uint64) error
}

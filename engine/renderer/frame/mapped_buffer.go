package frame

import (
	"fmt"
	"unsafe"

	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// ConstantBufferAlignment is the element alignment required for constant
// buffers bound with an offset.
const ConstantBufferAlignment uint64 = 256

// MappedBuffer is a fixed-capacity array of T in persistently mapped memory.
// Constant buffers pad every element to ConstantBufferAlignment.
type MappedBuffer[T any] struct {
	memory   MappedMemory
	bytes    []byte
	size     uint64
	stride   uint64
	capacity int
}

func NewMappedBuffer[T any](alloc Allocator, capacity int, constant bool) (*MappedBuffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("mapped buffer capacity must be positive, got %d", capacity)
	}
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	stride := size
	usage := BufferUsageVertex
	if constant {
		stride = metadata.GetAligned(size, ConstantBufferAlignment)
		usage = BufferUsageConstant
	}
	memory, err := alloc.AllocateMapped(stride*uint64(capacity), usage)
	if err != nil {
		return nil, err
	}
	bytes := memory.Bytes()
	if uint64(len(bytes)) < stride*uint64(capacity) {
		memory.Release()
		return nil, fmt.Errorf("mapped %d bytes, need %d", len(bytes), stride*uint64(capacity))
	}
	return &MappedBuffer[T]{
		memory:   memory,
		bytes:    bytes,
		size:     size,
		stride:   stride,
		capacity: capacity,
	}, nil
}

// Write overwrites element index. An index outside [0, Capacity) panics.
func (b *MappedBuffer[T]) Write(index int, value T) {
	offset := b.offset(index)
	src := unsafe.Slice((*byte)(unsafe.Pointer(&value)), b.size)
	copy(b.bytes[offset:offset+b.size], src)
}

// Read returns element index as currently stored in mapped memory.
func (b *MappedBuffer[T]) Read(index int) T {
	offset := b.offset(index)
	var value T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&value)), b.size)
	copy(dst, b.bytes[offset:offset+b.size])
	return value
}

func (b *MappedBuffer[T]) offset(index int) uint64 {
	if index < 0 || index >= b.capacity {
		panic(fmt.Sprintf("mapped buffer index %d out of range [0, %d)", index, b.capacity))
	}
	return uint64(index) * b.stride
}

// Offset is the byte offset of element index, used to bind a single element.
func (b *MappedBuffer[T]) Offset(index int) uint64 {
	return b.offset(index)
}

func (b *MappedBuffer[T]) Stride() uint64 {
	return b.stride
}

// ElementSize is sizeof(T) without padding.
func (b *MappedBuffer[T]) ElementSize() uint64 {
	return b.size
}

func (b *MappedBuffer[T]) Capacity() int {
	return b.capacity
}

// Memory exposes the allocation so a backend can bind it.
func (b *MappedBuffer[T]) Memory() MappedMemory {
	return b.memory
}

// Close unmaps and releases the memory. The buffer is unusable afterwards.
func (b *MappedBuffer[T]) Close() {
	if b.memory == nil {
		return
	}
	b.memory.Release()
	b.memory = nil
	b.bytes = nil
}

package frame

import (
	"testing"

	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedBufferConstantStride(t *testing.T) {
	dev := &heapDevice{}
	b, err := NewMappedBuffer[metadata.ObjectConstants](dev, 12, true)
	require.NoError(t, err)

	assert.Equal(t, uint64(256), b.Stride())
	assert.Equal(t, uint64(128), b.ElementSize())
	assert.Len(t, dev.allocations[0].bytes, 12*256)

	common, err := NewMappedBuffer[metadata.CommonConstants](dev, 2, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), common.Stride()%ConstantBufferAlignment)
	assert.GreaterOrEqual(t, common.Stride(), common.ElementSize())
}

func TestMappedBufferPlainStride(t *testing.T) {
	b, err := NewMappedBuffer[math.Vertex3D](&heapDevice{}, 4, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(32), b.Stride())
}

func TestMappedBufferWriteOnlyTouchesOneElement(t *testing.T) {
	dev := &heapDevice{}
	b, err := NewMappedBuffer[metadata.ObjectConstants](dev, 3, true)
	require.NoError(t, err)

	value := metadata.ObjectConstants{World: math.NewMat4Translation(math.NewVec3(1, 2, 3))}
	b.Write(1, value)

	assert.Equal(t, value, b.Read(1))
	assert.Equal(t, metadata.ObjectConstants{}, b.Read(0))
	assert.Equal(t, metadata.ObjectConstants{}, b.Read(2))

	raw := dev.allocations[0].bytes
	for i := uint64(256 + 128); i < 512; i++ {
		assert.Zero(t, raw[i], "padding byte %d", i)
	}
	assert.Equal(t, uint64(256), b.Offset(1))
}

func TestMappedBufferOutOfRangePanics(t *testing.T) {
	b, err := NewMappedBuffer[metadata.MaterialConstants](&heapDevice{}, 5, true)
	require.NoError(t, err)

	assert.Panics(t, func() { b.Write(5, metadata.MaterialConstants{}) })
	assert.Panics(t, func() { b.Write(-1, metadata.MaterialConstants{}) })
	assert.NotPanics(t, func() { b.Write(4, metadata.MaterialConstants{}) })
}

func TestMappedBufferClose(t *testing.T) {
	dev := &heapDevice{}
	b, err := NewMappedBuffer[metadata.MaterialConstants](dev, 1, true)
	require.NoError(t, err)
	b.Close()
	b.Close()
	assert.True(t, dev.allocations[0].released)
}

func TestMappedBufferRejectsEmpty(t *testing.T) {
	_, err := NewMappedBuffer[metadata.MaterialConstants](&heapDevice{}, 0, true)
	assert.Error(t, err)
}

package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueWrapsAround(t *testing.T) {
	q := NewRingQueue[uint64](3)
	assert.True(t, q.IsEmpty())

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue(4), ErrQueueFull)

	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	require.NoError(t, q.Enqueue(4))
	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), head)

	var drained []uint64
	for !q.IsEmpty() {
		v, err := q.Dequeue()
		require.NoError(t, err)
		drained = append(drained, v)
	}
	assert.Equal(t, []uint64{2, 3, 4}, drained)

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.Equal(t, 3, q.Cap())
	assert.Equal(t, 0, q.Len())
}

package systems

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidates(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestRunAllWaitsAndJoinsErrors(t *testing.T) {
	js, err := NewJobSystem(3, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	var ran, completed, failed atomic.Int32
	boom := errors.New("boom")
	jobs := make([]Job, 0, 10)
	for i := 0; i < 10; i++ {
		fail := i%5 == 0
		jobs = append(jobs, Job{
			Name: "job",
			Run: func() error {
				ran.Add(1)
				if fail {
					return boom
				}
				return nil
			},
			OnComplete: func() { completed.Add(1) },
			OnFailure:  func(error) { failed.Add(1) },
		})
	}

	err = js.RunAll(jobs)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(10), ran.Load())
	assert.Equal(t, int32(8), completed.Load())
	assert.Equal(t, int32(2), failed.Load())
}

func TestShutdownIsIdempotent(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	assert.NoError(t, js.Shutdown())
	assert.NoError(t, js.Shutdown())
}

func TestLoadAllDecodesConcurrentlyAndKeepsOrder(t *testing.T) {
	js, err := NewJobSystem(4, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	uploader := &recordingUploader{}
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 4, MaxTextureSize: 256, Jobs: js}, nil, uploader)
	require.NoError(t, err)

	_, err = ts.Load("grass")
	require.NoError(t, err)

	textures, err := ts.LoadAll([]string{"bricks", "grass", "ice", "bricks"})
	require.NoError(t, err)
	require.Len(t, textures, 4)
	assert.Equal(t, "bricks", textures[0].Name)
	assert.Same(t, textures[0], textures[3])

	// grass kept its slot, the rest are numbered in request order
	assert.Equal(t, uint32(0), textures[1].ID)
	assert.Equal(t, uint32(1), textures[0].ID)
	assert.Equal(t, uint32(2), textures[2].ID)
	assert.Len(t, uploader.textures, 3)

	_, err = ts.LoadAll([]string{"white1x1", "missing"})
	assert.Error(t, err)
}

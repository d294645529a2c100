package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[application]
backend = "headless"
max_frames = 12

[renderer]
frames_in_flight = 2
fence_timeout_ms = 500

[camera]
full_orbit = true

[pendulum]
override_angle_degrees = 45.0
`))
	require.NoError(t, err)

	assert.Equal(t, "headless", cfg.Application.Backend)
	assert.Equal(t, uint64(12), cfg.Application.MaxFrames)
	assert.Equal(t, 2, cfg.Renderer.FramesInFlight)
	assert.Equal(t, int64(500), cfg.Renderer.FenceTimeoutMS)
	assert.True(t, cfg.Camera.FullOrbit)
	require.NotNil(t, cfg.Pendulum.OverrideAngleDegrees)
	assert.Equal(t, float32(45), *cfg.Pendulum.OverrideAngleDegrees)

	// untouched keys keep their defaults
	assert.Equal(t, uint32(1280), cfg.Application.StartWidth)
	assert.Equal(t, float32(9.8), cfg.Pendulum.Gravity)
	assert.Equal(t, float32(20), cfg.Camera.Radius)
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	_, err := ParseConfig([]byte(`
[renderer]
frame_in_flight = 3
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseConfigValidation(t *testing.T) {
	cases := map[string]string{
		"zero frames":   "[renderer]\nframes_in_flight = 0\n",
		"bad backend":   "[application]\nbackend = \"metal\"\n",
		"zero length":   "[pendulum]\nlength = 0.0\n",
		"negative wait": "[renderer]\nfence_timeout_ms = -1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(c *Config, err error) {
			if err == nil {
				reloaded <- c
			}
		})
	}()

	// give the watcher a moment to register the directory
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644)
		select {
		case c := <-reloaded:
			return c.Log.Level == LogLevelDebug
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

package engine_test

import (
	"context"
	"testing"

	"github.com/spaghettifunk/pendulum/engine"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/testbed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessConfig(t *testing.T, frames uint64) *core.Config {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Application.Backend = engine.BackendHeadless
	cfg.Application.StartWidth = 64
	cfg.Application.StartHeight = 48
	cfg.Application.MaxFrames = frames
	cfg.Assets.Dir = t.TempDir()
	cfg.Log.Level = core.LogLevelWarn
	return cfg
}

func TestHeadlessRunDrawsConfiguredFrames(t *testing.T) {
	cfg := headlessConfig(t, 5)
	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game, "")
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run(context.Background()))

	assert.Equal(t, uint64(5), e.FrameCount())
	assert.Equal(t, uint64(5), e.Renderer().Ring().Submitted())
	assert.Equal(t, 12, tb.SystemManager.RenderItems().Count())
	assert.Contains(t, tb.Caption(), "Pendulum demo: pendulum angle :")

	assert.NoError(t, e.Shutdown(context.Background()))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	cfg := headlessConfig(t, 0)
	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game, "")
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Run(ctx))
	assert.Zero(t, e.FrameCount())

	assert.NoError(t, e.Shutdown(context.Background()))
}

func TestRunBeforeInitializeFails(t *testing.T) {
	tb := testbed.NewTestGame(headlessConfig(t, 1))
	e, err := engine.New(tb.Game, "")
	require.NoError(t, err)

	assert.Error(t, e.Run(context.Background()))
	assert.NoError(t, e.Shutdown(context.Background()))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := headlessConfig(t, 1)
	cfg.Application.Backend = "directx"
	_, err := engine.New(testbed.NewTestGame(cfg).Game, "")
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

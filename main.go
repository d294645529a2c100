/*
The pendulum mirror demo: a pendulum swinging in front of a mirror, with its
reflection and planar shadow.
*/
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/spaghettifunk/pendulum/engine"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/testbed"
)

// shutdownTimeout bounds the wait for the device to drain on exit.
const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file, watched for changes")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal("loading configuration: %v", err)
	}

	// capture sigterm and other system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	tb := testbed.NewTestGame(cfg)
	e, err := engine.New(tb.Game, *configPath)
	if err != nil {
		core.LogFatal("creating engine: %v", err)
	}

	runErr := e.Initialize()
	if runErr == nil {
		runErr = e.Run(ctx)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		core.LogError("shutdown: %v", err)
	}
	if runErr != nil {
		core.LogFatal("%v", runErr)
	}
}

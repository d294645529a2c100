//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Compiles the shaders and opens the demo window with config.toml.
func (Run) Demo() error {
	if err := buildShaders(); err != nil {
		return err
	}
	fmt.Println("Run pendulum demo...")
	_, err := executeCmd("go", withArgs("run", ".", "-config", "config.toml"), withStream())
	return err
}

// Runs the demo on the software device for a few hundred frames, capturing the last one.
func (Run) Headless() error {
	fmt.Println("Run pendulum demo headless...")
	_, err := executeCmd("go", withArgs("run", ".", "-config", "headless.toml"), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests, which only need the software device.
func (Test) Unit() error {
	// the race detector needs cgo
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

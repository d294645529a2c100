//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderSources = []string{"basic.vert", "basic.frag"}

// Compiles the GLSL sources under assets/shaders to SPIR-V.
func (Build) Shaders() error {
	return buildShaders()
}

// Compiles the shaders and builds the pendulum binary into bin/.
func (Build) Binary() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "pendulum"), "."), withStream())
	return err
}

func buildShaders() error {
	dir := filepath.Join("assets", "shaders")
	for _, src := range shaderSources {
		out := src + ".spv"
		if _, err := executeCmd("glslc", withArgs(src, "-o", out), withDir(dir), withStream()); err != nil {
			return fmt.Errorf("compiling %s: %w", src, err)
		}
	}
	return nil
}

package engine

import (
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/assets"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/platform"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/headless"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
	"github.com/spaghettifunk/pendulum/engine/renderer/vulkan"
)

const (
	BackendVulkan   = "vulkan"
	BackendHeadless = "headless"
)

func newPlatform(cfg *core.Config, input *core.Input, bus *core.EventBus) *platform.Platform {
	if cfg.Application.Backend == BackendHeadless {
		return platform.NewHeadless(input, bus)
	}
	return platform.New(input, bus)
}

// newBackend picks the render device named in the configuration.
func newBackend(cfg *core.Config, p *platform.Platform, am *assets.AssetManager) (renderer.RendererBackend, error) {
	switch cfg.Application.Backend {
	case BackendVulkan:
		return vulkan.NewVulkan(p, shaderLoader(am)), nil
	case BackendHeadless:
		return headless.New(headless.Options{
			CapturePath:  cfg.Renderer.CapturePath,
			CaptureEvery: cfg.Renderer.CaptureEvery,
		}), nil
	}
	return nil, fmt.Errorf("%w: unknown backend '%s'", core.ErrInvalidConfig, cfg.Application.Backend)
}

// shaderLoader resolves compiled SPIR-V through the asset manager.
func shaderLoader(am *assets.AssetManager) vulkan.ShaderLoader {
	return func(name string) ([]uint32, error) {
		res, err := am.LoadAsset(name, metadata.ResourceTypeShader, nil)
		if err != nil {
			return nil, fmt.Errorf("shader '%s' (run `mage build:shaders`): %w", name, err)
		}
		code, ok := res.Data.([]uint32)
		if !ok {
			return nil, fmt.Errorf("shader '%s' is not SPIR-V bytecode", name)
		}
		return code, nil
	}
}

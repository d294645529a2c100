package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// "vulkan" opens a window; "headless" renders with the software device.
	Backend string `toml:"backend"`
	// Number of ticks to run before exiting; 0 runs until the window closes.
	MaxFrames uint64 `toml:"max_frames"`
}

type LogConfig struct {
	Level LogLevel `toml:"level"`
}

type RendererConfig struct {
	FramesInFlight int `toml:"frames_in_flight"`
	// Upper bound for a wait on a frame slot; 0 waits forever.
	FenceTimeoutMS   int64      `toml:"fence_timeout_ms"`
	ClearColor       [4]float32 `toml:"clear_color"`
	EnableValidation bool       `toml:"enable_validation"`
	// Headless only: write the back buffer to CapturePath every CaptureEvery frames.
	CapturePath  string `toml:"capture_path"`
	CaptureEvery uint64 `toml:"capture_every"`
}

type CameraConfig struct {
	Theta  float32 `toml:"theta"`
	Phi    float32 `toml:"phi"`
	Radius float32 `toml:"radius"`
	// Lift the azimuth restriction that keeps the camera in front of the wall.
	FullOrbit bool `toml:"full_orbit"`
}

type PendulumConfig struct {
	Gravity             float32 `toml:"gravity"`
	Length              float32 `toml:"length"`
	InitialAngleDegrees float32 `toml:"initial_angle_degrees"`
	// When set, a reload issues a one-shot angle override.
	OverrideAngleDegrees *float32 `toml:"override_angle_degrees"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Log         LogConfig         `toml:"log"`
	Renderer    RendererConfig    `toml:"renderer"`
	Camera      CameraConfig      `toml:"camera"`
	Pendulum    PendulumConfig    `toml:"pendulum"`
	Assets      AssetsConfig      `toml:"assets"`
}

// DefaultConfig returns the values used when no file is given or a key is absent.
func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "Pendulum demo",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Backend:     "vulkan",
		},
		Log: LogConfig{Level: LogLevelInfo},
		Renderer: RendererConfig{
			FramesInFlight: 3,
			// LightSteelBlue
			ClearColor: [4]float32{0.690196097, 0.768627524, 0.870588303, 1.0},
		},
		Camera: CameraConfig{
			Theta:  1.5 * 3.14159265,
			Phi:    0.4 * 3.14159265,
			Radius: 20,
		},
		Pendulum: PendulumConfig{
			Gravity:             9.8,
			Length:              3,
			InitialAngleDegrees: 30,
		},
		Assets: AssetsConfig{Dir: "assets"},
	}
}

// ParseConfig decodes TOML over the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads path. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func (c *Config) Validate() error {
	if c.Renderer.FramesInFlight < 1 {
		return fmt.Errorf("%w: renderer.frames_in_flight must be at least 1, got %d", ErrInvalidConfig, c.Renderer.FramesInFlight)
	}
	if c.Renderer.FenceTimeoutMS < 0 {
		return fmt.Errorf("%w: renderer.fence_timeout_ms must not be negative", ErrInvalidConfig)
	}
	switch c.Application.Backend {
	case "vulkan", "headless":
	default:
		return fmt.Errorf("%w: unknown backend '%s'", ErrInvalidConfig, c.Application.Backend)
	}
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return fmt.Errorf("%w: window size must be non-zero", ErrInvalidConfig)
	}
	if c.Pendulum.Length <= 0 {
		return fmt.Errorf("%w: pendulum.length must be positive", ErrInvalidConfig)
	}
	if c.Camera.Radius <= 0 {
		return fmt.Errorf("%w: camera.radius must be positive", ErrInvalidConfig)
	}
	return nil
}

// WatchConfig reloads path whenever it is written and hands the result to fn.
// Parse failures are passed through so the caller can keep the previous value.
// It returns when ctx is done.
func WatchConfig(ctx context.Context, path string, fn func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory and filter.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			LogDebug("config file changed: %s", event.Name)
			fn(LoadConfig(abs))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			LogError("config watcher error: %s", err)
		}
	}
}

package core

import (
	"errors"
)

var (
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
	// ErrDeviceLost is fatal: the GPU stopped signalling or a submission failed.
	ErrDeviceLost       = errors.New("device lost")
	ErrResourceCreation = errors.New("resource creation failed")
	ErrPipelineCreation = errors.New("pipeline creation failed")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

package core

import (
	"errors"
)

var (
	// ErrSwapchainOutOfDate signals that the swapchain was recreated or is
	// mid-resize and the frame should be skipped.
	ErrSwapchainOutOfDate = errors.New("swapchain out of date, skipping frame")
)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"errors"
	"fmt"
)

// Errors returned by the rendering context. Failures are wrapped with
// fmt.Errorf("%w: ...") so callers match the kind with errors.Is and still
// see the backend detail in the message.
var (
	// ErrInvalidWindowSize is returned when a window dimension is zero,
	// negative, or larger than MaxSurfaceSize.
	ErrInvalidWindowSize = errors.New("quad: invalid window size")

	// ErrSurfaceCreationFailed is returned when the window surface cannot be
	// created or configured.
	ErrSurfaceCreationFailed = errors.New("quad: surface creation failed")

	// ErrNoAdapterFound is returned when no adapter can present to the surface.
	ErrNoAdapterFound = errors.New("quad: no suitable adapter found")

	// ErrDeviceCreationFailed is returned when the selected adapter refuses
	// to open a device.
	ErrDeviceCreationFailed = errors.New("quad: device creation failed")

	// ErrSurfaceNotConfigured is returned when a frame is started before the
	// surface has a valid configuration.
	ErrSurfaceNotConfigured = errors.New("quad: surface not configured")

	// ErrTextureAcquisitionFailed is returned when the next swapchain image
	// cannot be acquired. It is usually recoverable by reconfiguring.
	ErrTextureAcquisitionFailed = errors.New("quad: surface texture acquisition failed")

	// ErrSubmissionFailed is returned when recorded commands cannot be
	// finished, submitted or presented.
	ErrSubmissionFailed = errors.New("quad: command submission failed")

	// ErrShaderCompilation is returned when the WGSL source does not compile.
	ErrShaderCompilation = errors.New("quad: shader compilation failed")

	// ErrPipelineCreation is returned when the render pipeline or its layout
	// cannot be created.
	ErrPipelineCreation = errors.New("quad: pipeline creation failed")

	// ErrFrameInProgress is returned by DrawStart while another frame
	// session is still open.
	ErrFrameInProgress = errors.New("quad: frame already in progress")

	// ErrSessionClosed is returned when a frame session is used after it was
	// submitted or discarded.
	ErrSessionClosed = errors.New("quad: frame session closed")

	// ErrContextDestroyed is returned by every operation after Destroy.
	ErrContextDestroyed = errors.New("quad: context destroyed")
)

// InvalidWindowSizeError carries the rejected dimensions.
// It matches ErrInvalidWindowSize with errors.Is.
type InvalidWindowSizeError struct {
	Width, Height int
}

func (e *InvalidWindowSizeError) Error() string {
	return fmt.Sprintf("%s: %dx%d (each side must be in [%d, %d])",
		ErrInvalidWindowSize, e.Width, e.Height, MinSurfaceSize, MaxSurfaceSize)
}

// Is reports whether target is ErrInvalidWindowSize.
func (e *InvalidWindowSizeError) Is(target error) bool {
	return target == ErrInvalidWindowSize
}

// IsRecoverable reports whether err is a frame failure that a Restore may
// fix. Shader, pipeline and device errors are permanent for the context.
func IsRecoverable(err error) bool {
	if err == nil || errors.Is(err, ErrContextDestroyed) {
		return false
	}
	return errors.Is(err, ErrTextureAcquisitionFailed) ||
		errors.Is(err, ErrSubmissionFailed) ||
		errors.Is(err, ErrSurfaceNotConfigured) ||
		errors.Is(err, ErrInvalidWindowSize)
}

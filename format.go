// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Surface size limits, inclusive, applied to both dimensions.
const (
	MinSurfaceSize = 1
	MaxSurfaceSize = 16384
)

// DefaultMaxFrameLatency is the number of submitted frames that may be
// queued ahead of the GPU before DrawEnd waits for it to go idle.
const DefaultMaxFrameLatency = 2

// DefaultClearColor is the background every frame is cleared to.
var DefaultClearColor = gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}

// ValidateSize returns an *InvalidWindowSizeError when either dimension is
// outside [MinSurfaceSize, MaxSurfaceSize].
func ValidateSize(width, height int) error {
	if width < MinSurfaceSize || height < MinSurfaceSize ||
		width > MaxSurfaceSize || height > MaxSurfaceSize {
		return &InvalidWindowSizeError{Width: width, Height: height}
	}
	return nil
}

// SelectFormat picks the surface format: the first sRGB format the adapter
// advertises, otherwise the first advertised format. It returns
// TextureFormatUndefined for an empty list.
func SelectFormat(formats []gputypes.TextureFormat) gputypes.TextureFormat {
	for _, f := range formats {
		if f.IsSrgb() {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return gputypes.TextureFormatUndefined
}

// SelectPresentMode picks a present mode. With vsync the result is Fifo,
// which every conforming surface supports. Without vsync Mailbox is
// preferred, then Immediate. When none of the preferred modes is
// advertised the first advertised mode wins.
func SelectPresentMode(modes []hal.PresentMode, vsync bool) hal.PresentMode {
	prefs := []hal.PresentMode{hal.PresentModeFifo}
	if !vsync {
		prefs = []hal.PresentMode{hal.PresentModeMailbox, hal.PresentModeImmediate, hal.PresentModeFifo}
	}
	for _, want := range prefs {
		for _, m := range modes {
			if m == want {
				return m
			}
		}
	}
	if len(modes) > 0 {
		return modes[0]
	}
	return hal.PresentModeFifo
}

// SelectAlphaMode returns the first advertised composite alpha mode.
func SelectAlphaMode(modes []hal.CompositeAlphaMode) hal.CompositeAlphaMode {
	if len(modes) > 0 {
		return modes[0]
	}
	return hal.CompositeAlphaModeOpaque
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"image/color"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a GraphicsContext during Initialize.
//
// Example:
//
//	gc, err := quad.Initialize(ctx, win,
//	    quad.WithVSync(false),
//	    quad.WithClearColor(colornames.Black),
//	)
type Option func(*contextOptions)

// contextOptions holds optional configuration for Initialize.
type contextOptions struct {
	logger          *slog.Logger
	backend         gputypes.Backend
	instance        hal.Instance
	vsync           bool
	clearColor      gputypes.Color
	shaderSource    string
	maxFrameLatency uint32
}

func defaultOptions() contextOptions {
	return contextOptions{
		backend:         gputypes.BackendVulkan,
		vsync:           true,
		clearColor:      DefaultClearColor,
		maxFrameLatency: DefaultMaxFrameLatency,
	}
}

// WithLogger sets the logger for one context. Without it the context uses
// the package logger from Logger at the time of Initialize.
func WithLogger(l *slog.Logger) Option {
	return func(o *contextOptions) {
		o.logger = l
	}
}

// WithBackend selects the HAL backend used to create the instance.
// It is ignored when WithInstance is given.
func WithBackend(b gputypes.Backend) Option {
	return func(o *contextOptions) {
		o.backend = b
	}
}

// WithInstance supplies an existing HAL instance. The context does not
// destroy an instance it did not create.
func WithInstance(inst hal.Instance) Option {
	return func(o *contextOptions) {
		o.instance = inst
	}
}

// WithVSync selects Fifo presentation when on (the default). When off,
// Mailbox or Immediate is used if the surface supports either.
func WithVSync(on bool) Option {
	return func(o *contextOptions) {
		o.vsync = on
	}
}

// WithClearColor sets the color every frame is cleared to.
func WithClearColor(c color.Color) Option {
	return func(o *contextOptions) {
		o.clearColor = toGPUColor(c)
	}
}

// WithShaderSource replaces the embedded WGSL. The source must define the
// vs_main and fs_main entry points and use no vertex buffers or bindings.
func WithShaderSource(src string) Option {
	return func(o *contextOptions) {
		o.shaderSource = src
	}
}

// WithMaxFrameLatency sets how many submitted frames may be queued ahead
// of the GPU before DrawEnd waits for it. Zero is ignored.
func WithMaxFrameLatency(n uint32) Option {
	return func(o *contextOptions) {
		if n > 0 {
			o.maxFrameLatency = n
		}
	}
}

// toGPUColor converts a Go color to straight (non-premultiplied) floats.
func toGPUColor(c color.Color) gputypes.Color {
	if c == nil {
		return DefaultClearColor
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gputypes.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

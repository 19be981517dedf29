// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SurfaceConfig is the presentation configuration of the window surface.
type SurfaceConfig struct {
	Format      gputypes.TextureFormat
	Width       int
	Height      int
	PresentMode hal.PresentMode
	AlphaMode   hal.CompositeAlphaMode

	// MaxFrameLatency caps the submitted frames DrawEnd lets queue ahead
	// of the GPU. The HAL sizes the swapchain itself.
	MaxFrameLatency uint32
}

func (c SurfaceConfig) halConfig() *hal.SurfaceConfiguration {
	return &hal.SurfaceConfiguration{
		Width:       uint32(c.Width),  //nolint:gosec // validated by ValidateSize
		Height:      uint32(c.Height), //nolint:gosec // validated by ValidateSize
		Format:      c.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: c.PresentMode,
		AlphaMode:   c.AlphaMode,
	}
}

// SurfaceManager tracks the configuration of one surface on one device.
//
// The configured flag is false until the first successful Configure and
// becomes false again after Unconfigure. A rejected size never changes the
// stored configuration or the flag.
type SurfaceManager struct {
	device  hal.Device
	surface hal.Surface
	logger  *slog.Logger

	config     SurfaceConfig
	configured bool
}

// NewSurfaceManager returns an unconfigured manager. base supplies the
// format, present mode and alpha mode and the initial size reported by
// Config; the surface itself is untouched until Configure.
func NewSurfaceManager(device hal.Device, surface hal.Surface, base SurfaceConfig, logger *slog.Logger) *SurfaceManager {
	if logger == nil {
		logger = Logger()
	}
	return &SurfaceManager{
		device:  device,
		surface: surface,
		logger:  logger,
		config:  base,
	}
}

// Configure validates the size and (re)configures the surface with it.
func (m *SurfaceManager) Configure(width, height int) error {
	if err := ValidateSize(width, height); err != nil {
		return err
	}

	next := m.config
	next.Width, next.Height = width, height
	if err := m.surface.Configure(m.device, next.halConfig()); err != nil {
		return fmt.Errorf("%w: configure %dx%d: %w", ErrSurfaceCreationFailed, width, height, err)
	}

	m.config = next
	m.configured = true
	m.logger.Debug("quad: surface configured",
		"width", width, "height", height,
		"format", next.Format, "present_mode", next.PresentMode)
	return nil
}

// IsConfigured reports whether the surface may be acquired from.
func (m *SurfaceManager) IsConfigured() bool { return m.configured }

// Config returns the current configuration.
func (m *SurfaceManager) Config() SurfaceConfig { return m.config }

// Surface returns the managed HAL surface.
func (m *SurfaceManager) Surface() hal.Surface { return m.surface }

// Acquire returns the next swapchain texture.
func (m *SurfaceManager) Acquire() (*hal.AcquiredSurfaceTexture, error) {
	if !m.configured {
		return nil, ErrSurfaceNotConfigured
	}
	acquired, err := m.surface.AcquireTexture(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureAcquisitionFailed, acquireReason(err), err)
	}
	if acquired == nil || acquired.Texture == nil {
		return nil, fmt.Errorf("%w: no texture returned", ErrTextureAcquisitionFailed)
	}
	if acquired.Suboptimal {
		m.logger.Debug("quad: suboptimal surface texture",
			"width", m.config.Width, "height", m.config.Height)
	}
	return acquired, nil
}

// Discard returns an acquired texture without presenting it.
func (m *SurfaceManager) Discard(tex hal.SurfaceTexture) {
	if tex != nil {
		m.surface.DiscardTexture(tex)
	}
}

// Unconfigure releases the swapchain. The surface must be configured again
// before the next acquire.
func (m *SurfaceManager) Unconfigure() {
	if !m.configured {
		return
	}
	m.surface.Unconfigure(m.device)
	m.configured = false
}

func acquireReason(err error) string {
	switch {
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return "surface outdated"
	case errors.Is(err, hal.ErrSurfaceLost):
		return "surface lost"
	case errors.Is(err, hal.ErrTimeout):
		return "timeout"
	default:
		return "acquire"
	}
}

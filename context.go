// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// GraphicsContext is the GPU rendering context of one window. It owns the
// surface, the device and queue, the surface configuration and the quad
// pipeline.
//
// GraphicsContext is not safe for concurrent use. All methods are meant to
// be called from the thread that runs the window's event loop.
type GraphicsContext struct {
	window Window
	logger *slog.Logger

	instance      hal.Instance
	ownedInstance bool
	adapter       hal.Adapter
	adapterName   string
	deviceType    gputypes.DeviceType
	device        hal.Device
	queue         hal.Queue
	surface       hal.Surface
	surfaces      *SurfaceManager
	quad          *Quad

	inflight   *inflight
	clearColor gputypes.Color

	active    *FrameSession
	frames    uint64
	destroyed bool
}

// Initialize creates the surface for win, negotiates an adapter and device,
// selects the surface configuration for the window's current size and
// builds the quad pipeline. ctx bounds the device negotiation.
//
// The surface is left unconfigured: call Resize once before the first
// DrawStart.
//
// On failure every object created so far is released and the error
// matches one of ErrInvalidWindowSize, ErrSurfaceCreationFailed,
// ErrNoAdapterFound, ErrDeviceCreationFailed, ErrShaderCompilation or
// ErrPipelineCreation.
func Initialize(ctx context.Context, win Window, opts ...Option) (*GraphicsContext, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	if win == nil {
		return nil, fmt.Errorf("%w: nil window", ErrSurfaceCreationFailed)
	}
	width, height := win.Size()
	if err := ValidateSize(width, height); err != nil {
		return nil, err
	}

	gc := &GraphicsContext{
		window:     win,
		logger:     logger,
		clearColor: o.clearColor,
	}
	ok := false
	defer func() {
		if !ok {
			gc.release()
		}
	}()

	if err := gc.createInstance(&o); err != nil {
		return nil, err
	}

	display, handle := win.NativeHandles()
	surface, err := gc.instance.CreateSurface(display, handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreationFailed, err)
	}
	gc.surface = surface

	instance, ownedInstance := gc.instance, gc.ownedInstance
	req := RequestDevice(instance, surface, logger).OnAbandon(func() {
		surface.Destroy()
		if ownedInstance {
			instance.Destroy()
		}
	})
	neg, err := req.Wait(ctx)
	if err != nil {
		if req.Abandoned() {
			// The negotiation still uses them; the request releases both.
			gc.surface = nil
			gc.instance = nil
		}
		return nil, err
	}
	gc.adapter = neg.Adapter
	gc.adapterName = neg.AdapterName
	gc.deviceType = neg.DeviceType
	gc.device = neg.Device
	gc.queue = neg.Queue
	gc.inflight = newInflight(gc.device, o.maxFrameLatency, logger)

	caps := neg.Capabilities
	base := SurfaceConfig{
		Format:          SelectFormat(caps.Formats),
		Width:           width,
		Height:          height,
		PresentMode:     SelectPresentMode(caps.PresentModes, o.vsync),
		AlphaMode:       SelectAlphaMode(caps.AlphaModes),
		MaxFrameLatency: o.maxFrameLatency,
	}
	gc.surfaces = NewSurfaceManager(gc.device, surface, base, logger)

	pipeline, err := BuildPipeline(gc.device, base.Format, o.shaderSource)
	if err != nil {
		return nil, err
	}
	gc.quad = NewQuad(pipeline)

	ok = true
	logger.Info("quad: context initialized",
		"adapter", gc.adapterName,
		"width", width, "height", height,
		"format", base.Format,
		"srgb", base.Format.IsSrgb(),
		"present_mode", base.PresentMode)
	return gc, nil
}

func (gc *GraphicsContext) createInstance(o *contextOptions) error {
	if o.instance != nil {
		gc.instance = o.instance
		return nil
	}
	backend, ok := hal.GetBackend(o.backend)
	if !ok {
		return fmt.Errorf("%w: backend %v not registered", ErrNoAdapterFound, o.backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: create instance: %w", ErrNoAdapterFound, err)
	}
	gc.instance = instance
	gc.ownedInstance = true
	return nil
}

// Resize validates the new size and reconfigures the surface.
// An invalid size returns ErrInvalidWindowSize and keeps the previous
// configuration. While a frame session is open the surface is left alone
// and ErrFrameInProgress is returned.
func (gc *GraphicsContext) Resize(width, height int) error {
	if gc.destroyed {
		return ErrContextDestroyed
	}
	if gc.active != nil {
		return fmt.Errorf("%w: resize to %dx%d", ErrFrameInProgress, width, height)
	}
	if err := gc.surfaces.Configure(width, height); err != nil {
		gc.logger.Warn("quad: resize rejected", "width", width, "height", height, "error", err)
		return err
	}
	return nil
}

// Restore reconfigures the surface at the window's current size. Like
// Resize it fails with ErrFrameInProgress while a session is open.
func (gc *GraphicsContext) Restore() error {
	if gc.destroyed {
		return ErrContextDestroyed
	}
	if gc.active != nil {
		return ErrFrameInProgress
	}
	w, h := gc.window.Size()
	return gc.Resize(w, h)
}

// DrawStart acquires the next surface texture, creates a view of it and a
// command encoder, and returns the frame session in state FrameAcquired.
// Only one session may be open at a time.
func (gc *GraphicsContext) DrawStart() (*FrameSession, error) {
	if gc.destroyed {
		return nil, ErrContextDestroyed
	}
	if gc.active != nil {
		return nil, ErrFrameInProgress
	}
	if !gc.surfaces.IsConfigured() {
		return nil, ErrSurfaceNotConfigured
	}

	acquired, err := gc.surfaces.Acquire()
	if err != nil {
		return nil, err
	}

	view, err := gc.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label: "quad_frame_view",
	})
	if err != nil {
		gc.surfaces.Discard(acquired.Texture)
		return nil, fmt.Errorf("%w: texture view: %w", ErrTextureAcquisitionFailed, err)
	}

	encoder, err := gc.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "quad_frame_encoder",
	})
	if err != nil {
		gc.device.DestroyTextureView(view)
		gc.surfaces.Discard(acquired.Texture)
		return nil, fmt.Errorf("%w: command encoder: %w", ErrSubmissionFailed, err)
	}
	if err := encoder.BeginEncoding("quad_frame"); err != nil {
		gc.device.DestroyTextureView(view)
		gc.surfaces.Discard(acquired.Texture)
		return nil, fmt.Errorf("%w: begin encoding: %w", ErrSubmissionFailed, err)
	}

	gc.frames++
	s := &FrameSession{
		device:   gc.device,
		queue:    gc.queue,
		surfaces: gc.surfaces,
		logger:   gc.logger,
		texture:  acquired.Texture,
		view:     view,
		encoder:  encoder,
		inflight: gc.inflight,
		clear:    gc.clearColor,
		index:    gc.frames,
		state:    FrameAcquired,
	}
	s.onClose = func() {
		if gc.active == s {
			gc.active = nil
		}
	}
	gc.active = s
	gc.logger.Debug("quad: frame started", "frame", s.index)
	return s, nil
}

// Draw records the quad into s.
func (gc *GraphicsContext) Draw(s *FrameSession) error {
	if gc.destroyed {
		return ErrContextDestroyed
	}
	if err := gc.checkSession(s); err != nil {
		return err
	}
	return s.Draw(gc.quad)
}

// DrawEnd finishes the frame: it submits the recorded commands, presents
// the texture and, on success, asks the window for another redraw. The
// session is closed whatever the outcome.
func (gc *GraphicsContext) DrawEnd(s *FrameSession) error {
	if err := gc.checkSession(s); err != nil {
		return err
	}
	if gc.destroyed {
		s.Discard()
		return ErrContextDestroyed
	}
	if err := s.submit(); err != nil {
		return err
	}
	gc.window.RequestRedraw()
	return nil
}

func (gc *GraphicsContext) checkSession(s *FrameSession) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrSessionClosed)
	}
	if s.state.closed() {
		return fmt.Errorf("%w: state %s", ErrSessionClosed, s.state)
	}
	if s != gc.active {
		return fmt.Errorf("%w: session does not belong to this context", ErrSessionClosed)
	}
	return nil
}

// Destroy discards an open frame and releases the pipeline, the surface,
// the device and, if the context created it, the instance. Calling Destroy
// more than once is safe.
func (gc *GraphicsContext) Destroy() {
	if gc.destroyed {
		return
	}
	if gc.active != nil {
		gc.active.Discard()
	}
	gc.release()
	gc.destroyed = true
	gc.logger.Info("quad: context destroyed", "frames", gc.frames)
}

// release frees everything created so far, in reverse creation order.
func (gc *GraphicsContext) release() {
	if gc.inflight != nil {
		gc.inflight.drain()
		gc.inflight = nil
	}
	if gc.quad != nil {
		gc.quad.Destroy()
		gc.quad = nil
	}
	if gc.surfaces != nil {
		gc.surfaces.Unconfigure()
		gc.surfaces = nil
	}
	if gc.surface != nil {
		gc.surface.Destroy()
		gc.surface = nil
	}
	if gc.device != nil {
		gc.device.Destroy()
		gc.device = nil
		gc.queue = nil
	}
	if gc.instance != nil && gc.ownedInstance {
		gc.instance.Destroy()
	}
	gc.instance = nil
}

// SurfaceFormat returns the negotiated surface format.
func (gc *GraphicsContext) SurfaceFormat() gputypes.TextureFormat {
	if gc.surfaces == nil {
		return gputypes.TextureFormatUndefined
	}
	return gc.surfaces.Config().Format
}

// SurfaceConfig returns the current surface configuration.
func (gc *GraphicsContext) SurfaceConfig() SurfaceConfig {
	if gc.surfaces == nil {
		return SurfaceConfig{}
	}
	return gc.surfaces.Config()
}

// IsConfigured reports whether frames can be started.
func (gc *GraphicsContext) IsConfigured() bool {
	return gc.surfaces != nil && gc.surfaces.IsConfigured()
}

// AdapterName returns the name of the selected adapter.
func (gc *GraphicsContext) AdapterName() string { return gc.adapterName }

// DeviceType returns the type of the selected adapter.
func (gc *GraphicsContext) DeviceType() gputypes.DeviceType { return gc.deviceType }

// Quad returns the drawable, or nil after Destroy.
func (gc *GraphicsContext) Quad() *Quad { return gc.quad }

// Frames returns how many frame sessions have been started.
func (gc *GraphicsContext) Frames() uint64 { return gc.frames }

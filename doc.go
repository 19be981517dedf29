// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package quad draws a full-window primitive onto a native window surface
// using the pure Go WebGPU HAL from gogpu/wgpu.
//
// # Overview
//
// quad owns a single GPU rendering context bound to one window. It negotiates
// an adapter and a device asynchronously, picks a surface format and present
// mode the adapter advertises, builds one render pipeline from embedded WGSL,
// and then renders frames on demand.
//
// # Quick Start
//
//	import "github.com/gogpu/quad"
//
//	gc, err := quad.Initialize(ctx, win)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gc.Destroy()
//
//	// The surface is configured by the first Resize.
//	if err := gc.Resize(win.Size()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// On every redraw request from the windowing system:
//	_ = gc.Redraw(nil)
//
// # Frames
//
// Each frame is a [FrameSession] obtained from [GraphicsContext.DrawStart].
// A session moves from Acquired to Recorded to Submitted and is not reusable:
//
//	s, err := gc.DrawStart()
//	if err != nil {
//	    return err
//	}
//	if err := gc.Draw(s); err != nil {
//	    s.Discard()
//	    return errors.Join(err, gc.Restore())
//	}
//	if err := gc.DrawEnd(s); err != nil {
//	    return errors.Join(err, gc.Restore())
//	}
//	return nil
//
// [GraphicsContext.Redraw] wraps that sequence, logs any failure and answers
// it with exactly one [GraphicsContext.Restore].
//
// # Surface Lifecycle
//
// [Initialize] selects the surface configuration but does not apply it. The
// surface is configured by the first [GraphicsContext.Resize] with a valid
// size and again on every later one. Zero or oversized dimensions
// are rejected with [ErrInvalidWindowSize] and leave the previous
// configuration untouched.
//
// # Backends
//
// The default backend is Vulkan. Tests and headless tools can inject any
// [hal.Instance], for example the noop backend, through [WithInstance].
package quad

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)

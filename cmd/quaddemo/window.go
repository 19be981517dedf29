// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/quad"
)

// window adapts a GLFW window to quad.Window.
type window struct {
	gw      *glfw.Window
	pending atomic.Bool
}

var _ quad.Window = (*window)(nil)

func newWindow(gw *glfw.Window) *window {
	return &window{gw: gw}
}

func (w *window) NativeHandles() (display, handle uintptr) {
	return nativeHandles(w.gw)
}

// Size returns the framebuffer size, which differs from the window size
// on high-DPI displays.
func (w *window) Size() (int, int) {
	return w.gw.GetFramebufferSize()
}

// RequestRedraw marks a frame as pending and wakes the event loop.
func (w *window) RequestRedraw() {
	if !w.pending.Swap(true) {
		glfw.PostEmptyEvent()
	}
}

func (w *window) takeRedraw() bool {
	return w.pending.Swap(false)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux && !wayland

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the X11 display connection and window id.
func nativeHandles(gw *glfw.Window) (display, handle uintptr) {
	return uintptr(unsafe.Pointer(glfw.GetX11Display())), uintptr(gw.GetX11Window())
}

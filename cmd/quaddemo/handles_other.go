// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !windows && !(linux && !wayland)

package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles reports no handles; surface creation then fails with
// quad.ErrSurfaceCreationFailed.
// TODO: Wayland and Cocoa handles once the HAL accepts them.
func nativeHandles(*glfw.Window) (display, handle uintptr) {
	return 0, 0
}

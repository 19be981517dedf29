// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/sys/windows"
)

// nativeHandles returns the module instance and the HWND.
func nativeHandles(gw *glfw.Window) (display, handle uintptr) {
	var module windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &module); err != nil {
		module = 0
	}
	return uintptr(module), uintptr(unsafe.Pointer(gw.GetWin32Window()))
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

// Window is the native window a GraphicsContext renders into.
//
// Implementations wrap a windowing toolkit. NativeHandles returns the
// platform display connection and window handle used to create the
// surface; on Windows display is the module instance handle. Size reports
// the current inner size in physical pixels. RequestRedraw asks the event
// loop to schedule another frame and must not block.
type Window interface {
	NativeHandles() (display, window uintptr)
	Size() (width, height int)
	RequestRedraw()
}

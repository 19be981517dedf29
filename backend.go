// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package quad

// The Vulkan backend registers itself with the HAL on import and is the
// default for Initialize. Build with -tags nogpu to leave it out and inject
// an instance with WithInstance.
import _ "github.com/gogpu/wgpu/hal/vulkan"

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// GraphicsContext shares its device with other gogpu libraries through
// gpucontext, so a gg canvas or a compute pass can render with the same
// device and queue.
var _ gpucontext.DeviceProvider = (*GraphicsContext)(nil)

// Device returns the hal.Device. It is nil after Destroy.
func (gc *GraphicsContext) Device() gpucontext.Device {
	return gc.device
}

// Queue returns the hal.Queue. It is nil after Destroy.
func (gc *GraphicsContext) Queue() gpucontext.Queue {
	return gc.queue
}

// Adapter returns the hal.Adapter the device was opened on.
func (gc *GraphicsContext) Adapter() gpucontext.Adapter {
	return gc.adapter
}

// AdapterInfo describes the selected adapter.
func (gc *GraphicsContext) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: gc.adapterName,
		Type: adapterType(gc.deviceType),
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// HalDevice returns the hal.Device. Consumers type-assert the result.
func (gc *GraphicsContext) HalDevice() any {
	return gc.device
}

// HalQueue returns the hal.Queue. Consumers type-assert the result.
func (gc *GraphicsContext) HalQueue() any {
	return gc.queue
}

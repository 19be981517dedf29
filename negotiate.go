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

// Negotiated is the result of adapter and device negotiation.
type Negotiated struct {
	Adapter      hal.Adapter
	AdapterName  string
	DeviceType   gputypes.DeviceType
	Device       hal.Device
	Queue        hal.Queue
	Capabilities *hal.SurfaceCapabilities
}

// DeviceRequest is an in-flight adapter and device negotiation started by
// RequestDevice. Join it with Wait.
type DeviceRequest struct {
	done   chan struct{}
	result *Negotiated
	err    error
	logger *slog.Logger

	onAbandon func()
	abandoned bool
}

// RequestDevice starts negotiating an adapter able to present to surface
// and opens a device on it. It returns immediately. The instance and the
// surface must stay alive until the negotiation finishes.
//
// Among the adapters that advertise at least one surface format, a discrete
// GPU is preferred, then an integrated GPU, then enumeration order.
func RequestDevice(instance hal.Instance, surface hal.Surface, logger *slog.Logger) *DeviceRequest {
	if logger == nil {
		logger = Logger()
	}
	r := &DeviceRequest{done: make(chan struct{}), logger: logger}
	go func() {
		defer close(r.done)
		r.result, r.err = negotiate(instance, surface, logger)
	}()
	return r
}

// OnAbandon registers f to run after an abandoned negotiation has finished
// and its device has been destroyed. The caller uses it to hand over the
// instance and surface the negotiation is still using. It must be called
// before Wait.
func (r *DeviceRequest) OnAbandon(f func()) *DeviceRequest {
	r.onAbandon = f
	return r
}

// Wait blocks until negotiation finishes or ctx is done. When ctx ends
// first, Wait returns ctx.Err() and the request is abandoned: once the
// negotiation returns, a device it opened is destroyed and the OnAbandon
// callback runs. Wait must be called at most once.
func (r *DeviceRequest) Wait(ctx context.Context) (*Negotiated, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		r.abandoned = true
		go r.cleanup()
		return nil, fmt.Errorf("quad: device request: %w", ctx.Err())
	}
}

// Abandoned reports whether Wait gave up on the request. An abandoned
// request owns what it was given until its OnAbandon callback has run.
func (r *DeviceRequest) Abandoned() bool { return r.abandoned }

func (r *DeviceRequest) cleanup() {
	<-r.done
	if r.err == nil && r.result != nil {
		r.logger.Debug("quad: releasing device from abandoned request")
		r.result.Device.Destroy()
	}
	if r.onAbandon != nil {
		r.onAbandon()
	}
}

func negotiate(instance hal.Instance, surface hal.Surface, logger *slog.Logger) (*Negotiated, error) {
	adapters := instance.EnumerateAdapters(surface)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: no adapters enumerated", ErrNoAdapterFound)
	}

	best := -1
	bestRank := 0
	var bestCaps *hal.SurfaceCapabilities
	for i := range adapters {
		caps := adapters[i].Adapter.SurfaceCapabilities(surface)
		if caps == nil || len(caps.Formats) == 0 {
			logger.Debug("quad: adapter cannot present to surface", "name", adapters[i].Info.Name)
			continue
		}
		rank := adapterRank(adapters[i].Info.DeviceType)
		if best < 0 || rank < bestRank {
			best, bestRank, bestCaps = i, rank, caps
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: none of %d adapters supports the surface", ErrNoAdapterFound, len(adapters))
	}

	selected := &adapters[best]
	logger.Info("quad: adapter selected",
		"name", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"formats", len(bestCaps.Formats))

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceCreationFailed, selected.Info.Name, err)
	}

	return &Negotiated{
		Adapter:      selected.Adapter,
		AdapterName:  selected.Info.Name,
		DeviceType:   selected.Info.DeviceType,
		Device:       openDev.Device,
		Queue:        openDev.Queue,
		Capabilities: bestCaps,
	}, nil
}

func adapterRank(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		return 1
	default:
		return 2
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu/hal"
)

// submission is a command buffer the GPU may still be reading.
type submission struct {
	index  uint64
	cmdBuf hal.CommandBuffer
}

// inflight keeps submitted command buffers alive until the queue reports
// them complete and caps how many frames are queued ahead of the GPU.
type inflight struct {
	device  hal.Device
	logger  *slog.Logger
	limit   int
	pending []submission
}

func newInflight(device hal.Device, limit uint32, logger *slog.Logger) *inflight {
	if limit == 0 {
		limit = DefaultMaxFrameLatency
	}
	return &inflight{device: device, logger: logger, limit: int(limit)}
}

// retire frees every command buffer whose submission has completed.
func (f *inflight) retire(q hal.Queue) {
	done := q.PollCompleted()
	n := 0
	for n < len(f.pending) && f.pending[n].index <= done {
		f.device.FreeCommandBuffer(f.pending[n].cmdBuf)
		n++
	}
	f.pending = f.pending[n:]
}

// reserve makes room for one more frame. When limit frames are still
// queued it blocks until the device is idle.
func (f *inflight) reserve(q hal.Queue) error {
	f.retire(q)
	if len(f.pending) < f.limit {
		return nil
	}
	f.logger.Debug("quad: frame latency limit reached", "queued", len(f.pending))
	if err := f.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	f.freeAll()
	return nil
}

func (f *inflight) add(index uint64, cmdBuf hal.CommandBuffer) {
	f.pending = append(f.pending, submission{index: index, cmdBuf: cmdBuf})
}

// drain waits for the device and frees everything still queued.
func (f *inflight) drain() {
	if len(f.pending) == 0 {
		return
	}
	if err := f.device.WaitIdle(); err != nil {
		f.logger.Warn("quad: wait idle before release failed", "error", err)
	}
	f.freeAll()
}

func (f *inflight) freeAll() {
	for _, s := range f.pending {
		f.device.FreeCommandBuffer(s.cmdBuf)
	}
	f.pending = f.pending[:0]
}

func (f *inflight) queued() int { return len(f.pending) }

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// FrameState is the lifecycle state of a FrameSession.
type FrameState uint8

const (
	// FrameIdle is the state before a texture is acquired.
	FrameIdle FrameState = iota
	// FrameAcquired means the surface texture, its view and a command
	// encoder are held and nothing has been drawn.
	FrameAcquired
	// FrameRecorded means at least one render pass has been recorded.
	FrameRecorded
	// FrameSubmitted means the commands were submitted and the texture
	// presented. The session is finished.
	FrameSubmitted
	// FrameDiscarded means the session was abandoned and its texture
	// returned unpresented. The session is finished.
	FrameDiscarded
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "Idle"
	case FrameAcquired:
		return "Acquired"
	case FrameRecorded:
		return "Recorded"
	case FrameSubmitted:
		return "Submitted"
	case FrameDiscarded:
		return "Discarded"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// closed reports whether no further operation is allowed.
func (s FrameState) closed() bool {
	return s == FrameSubmitted || s == FrameDiscarded
}

// FrameSession holds the per-frame resources from DrawStart to DrawEnd:
// the acquired surface texture, a view of it and one command encoder.
//
// The first render pass of a frame clears the target to the context's
// clear color. Passes begun after EndPass load the existing contents.
// A session is used by one goroutine and is never reused.
type FrameSession struct {
	device   hal.Device
	queue    hal.Queue
	surfaces *SurfaceManager
	logger   *slog.Logger

	texture hal.SurfaceTexture
	view    hal.TextureView
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder

	inflight *inflight
	clear    gputypes.Color
	passes   int
	index    uint64
	state    FrameState

	// onClose runs once when the session reaches a closed state.
	onClose func()
}

// State returns the lifecycle state.
func (s *FrameSession) State() FrameState { return s.state }

// Index returns the frame number, starting at 1 for the first frame of a
// context.
func (s *FrameSession) Index() uint64 { return s.index }

// View returns the view of the acquired surface texture.
func (s *FrameSession) View() hal.TextureView { return s.view }

// RenderPass returns the open render pass, beginning one if needed.
func (s *FrameSession) RenderPass() (hal.RenderPassEncoder, error) {
	if s.state.closed() {
		return nil, fmt.Errorf("%w: state %s", ErrSessionClosed, s.state)
	}
	if s.pass != nil {
		return s.pass, nil
	}

	load := gputypes.LoadOpClear
	if s.passes > 0 {
		load = gputypes.LoadOpLoad
	}
	s.pass = s.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "quad_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: s.clear,
		}},
	})
	s.passes++
	s.state = FrameRecorded
	return s.pass, nil
}

// EndPass ends the open render pass, if any.
func (s *FrameSession) EndPass() {
	if s.pass == nil {
		return
	}
	s.pass.End()
	s.pass = nil
}

// Draw records q into the open render pass.
func (s *FrameSession) Draw(q *Quad) error {
	if q == nil {
		return errors.New("quad: draw: nil quad")
	}
	pass, err := s.RenderPass()
	if err != nil {
		return err
	}
	q.Draw(pass)
	return nil
}

// submit finishes recording, submits and presents. The command buffer
// stays queued in inflight until the GPU is done with it.
// A session with no pass recorded still presents a cleared frame.
func (s *FrameSession) submit() error {
	if s.state.closed() {
		return fmt.Errorf("%w: state %s", ErrSessionClosed, s.state)
	}
	if s.passes == 0 {
		if _, err := s.RenderPass(); err != nil {
			return err
		}
	}
	s.EndPass()

	if err := s.inflight.reserve(s.queue); err != nil {
		s.release(true)
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	cmdBuf, err := s.encoder.EndEncoding()
	if err != nil {
		s.release(true)
		return fmt.Errorf("%w: end encoding: %w", ErrSubmissionFailed, err)
	}
	s.encoder = nil

	index, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		s.device.FreeCommandBuffer(cmdBuf)
		s.release(true)
		return fmt.Errorf("%w: submit: %w", ErrSubmissionFailed, err)
	}
	s.inflight.add(index, cmdBuf)

	if err := s.queue.Present(s.surfaces.Surface(), s.texture, nil); err != nil {
		// The presentation engine owns the texture once Present is called.
		s.texture = nil
		s.release(false)
		return fmt.Errorf("%w: present: %w", ErrSubmissionFailed, err)
	}
	s.texture = nil
	s.state = FrameSubmitted
	s.release(false)

	s.logger.Debug("quad: frame presented", "frame", s.index, "submission", index, "passes", s.passes)
	return nil
}

// Discard abandons the frame: the open pass is ended, recorded commands are
// dropped and the texture goes back to the surface unpresented.
// Discard on a finished session does nothing.
func (s *FrameSession) Discard() {
	if s.state.closed() {
		return
	}
	s.release(true)
	s.logger.Debug("quad: frame discarded", "frame", s.index)
}

// release frees the encoder and view and, when discard is set, returns
// the texture unpresented. It always leaves the session closed.
func (s *FrameSession) release(discard bool) {
	s.EndPass()
	if s.encoder != nil {
		s.encoder.DiscardEncoding()
		s.encoder = nil
	}
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if discard && s.texture != nil {
		s.surfaces.Discard(s.texture)
		s.texture = nil
	}
	if !s.state.closed() {
		s.state = FrameDiscarded
	}
	s.close()
}

func (s *FrameSession) close() {
	if s.onClose != nil {
		f := s.onClose
		s.onClose = nil
		f()
	}
}

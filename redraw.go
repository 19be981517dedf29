// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"errors"
)

// DrawFunc records the content of one frame into s.
type DrawFunc func(s *FrameSession) error

// Redraw renders one frame: DrawStart, draw, DrawEnd.
//
// A nil draw records the quad. The frame is always closed, so a failing
// draw still ends in DrawEnd. Any failure is logged and answered with
// exactly one Restore; a failing Restore is logged too. A frame refused
// because another session is open is not restored. Redraw returns the
// frame error so callers can count failures, but the context stays usable.
func (gc *GraphicsContext) Redraw(draw DrawFunc) error {
	if gc.destroyed {
		return ErrContextDestroyed
	}
	if draw == nil {
		draw = gc.Draw
	}

	s, err := gc.DrawStart()
	if err != nil {
		return gc.recoverFrame("draw start", err)
	}

	drawErr := draw(s)
	endErr := gc.DrawEnd(s)

	if err := errors.Join(drawErr, endErr); err != nil {
		return gc.recoverFrame("draw", err)
	}
	return nil
}

func (gc *GraphicsContext) recoverFrame(stage string, err error) error {
	if errors.Is(err, ErrContextDestroyed) {
		return err
	}
	if errors.Is(err, ErrFrameInProgress) {
		// The open session still holds a surface texture.
		gc.logger.Warn("quad: frame skipped, previous frame still open", "stage", stage)
		return err
	}
	gc.logger.Warn("quad: frame failed, restoring surface",
		"stage", stage, "recoverable", IsRecoverable(err), "error", err)
	if rerr := gc.Restore(); rerr != nil {
		gc.logger.Error("quad: restore failed", "error", rerr)
	}
	return err
}

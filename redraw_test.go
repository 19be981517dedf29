// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/wgpu/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedraw(t *testing.T) {
	env := newTestEnv(t, 800, 600)

	for range 3 {
		require.NoError(t, env.gc.Redraw(nil))
	}
	assert.Equal(t, 3, env.queue.presents)
	assert.Equal(t, 3, env.window.redrawCount())
	assert.Equal(t, 1, env.surface.configureCount(), "no restore on success")
}

func TestRedrawCustomDraw(t *testing.T) {
	env := newTestEnv(t, 800, 600)

	var seen []FrameState
	err := env.gc.Redraw(func(s *FrameSession) error {
		seen = append(seen, s.State())
		return s.Draw(env.gc.Quad())
	})
	require.NoError(t, err)
	assert.Equal(t, []FrameState{FrameAcquired}, seen)
}

func TestRedrawAcquireFailureRestoresOnce(t *testing.T) {
	env := newTestEnv(t, 800, 600)
	env.surface.acquireErrs = []error{fmt.Errorf("swapchain: %w", hal.ErrSurfaceOutdated)}
	env.window.setSize(1024, 768)

	err := env.gc.Redraw(nil)
	assert.ErrorIs(t, err, ErrTextureAcquisitionFailed)
	assert.Equal(t, 2, env.surface.configureCount(), "exactly one restore")
	assert.Equal(t, 1024, env.gc.SurfaceConfig().Width)
	assert.Equal(t, 0, env.queue.submits)
	assert.Contains(t, env.logs.String(), "restoring surface")

	require.NoError(t, env.gc.Redraw(nil), "next frame succeeds after restore")
	assert.Equal(t, 1, env.queue.presents)
}

func TestRedrawDrawFailureStillEndsFrame(t *testing.T) {
	env := newTestEnv(t, 800, 600)

	err := env.gc.Redraw(func(*FrameSession) error { return errInjected })
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 1, env.queue.submits, "frame is flushed despite the draw failure")
	assert.Equal(t, 1, env.queue.presents)
	assert.Equal(t, 2, env.surface.configureCount(), "exactly one restore")
}

func TestRedrawSubmitAndDrawFailureRestoresOnce(t *testing.T) {
	env := newTestEnv(t, 800, 600)
	env.queue.presentErr = errInjected

	err := env.gc.Redraw(func(*FrameSession) error { return ErrSessionClosed })
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, 2, env.surface.configureCount())
	assert.Equal(t, 0, env.window.redrawCount())
}

func TestRedrawRestoreFailureIsLogged(t *testing.T) {
	env := newTestEnv(t, 800, 600)
	env.surface.acquireErrs = []error{hal.ErrSurfaceLost}
	env.window.setSize(0, 0)

	err := env.gc.Redraw(nil)
	assert.ErrorIs(t, err, ErrTextureAcquisitionFailed)
	assert.Equal(t, 1, env.surface.configureCount(), "invalid size never reaches the surface")
	assert.True(t, env.gc.IsConfigured(), "previous configuration is kept")
	assert.Contains(t, env.logs.String(), "restore failed")

	env.window.setSize(800, 600)
	require.NoError(t, env.gc.Redraw(nil))
	assert.Equal(t, 1, strings.Count(env.logs.String(), "restore failed"))
}

func TestRedrawWhileFrameOpenDoesNotRestore(t *testing.T) {
	env := newTestEnv(t, 800, 600)

	s, err := env.gc.DrawStart()
	require.NoError(t, err)

	err = env.gc.Redraw(nil)
	assert.ErrorIs(t, err, ErrFrameInProgress)
	assert.Equal(t, 1, env.surface.configureCount(), "no restore under an open frame")
	assert.Equal(t, FrameAcquired, s.State(), "the open frame is untouched")
	assert.Contains(t, env.logs.String(), "previous frame still open")
	assert.NotContains(t, env.logs.String(), "restore failed")

	require.NoError(t, env.gc.DrawEnd(s))
	assert.Equal(t, 1, env.queue.presents)
}

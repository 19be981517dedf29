// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

// newNoopInstance returns a noop HAL instance and its enumerated adapters.
func newNoopInstance(t *testing.T) (hal.Instance, []hal.ExposedAdapter) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	require.NoError(t, err)
	t.Cleanup(instance.Destroy)
	adapters := instance.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)
	return instance, adapters
}

// newNoopDevice opens a noop device for tests that do not need a surface.
func newNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	_, adapters := newNoopInstance(t)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	require.NoError(t, err)
	t.Cleanup(openDev.Device.Destroy)
	return openDev.Device, openDev.Queue
}

// fakeWindow is a Window with a settable size.
type fakeWindow struct {
	mu       sync.Mutex
	width    int
	height   int
	redraws  int
	handlesN int
}

func newFakeWindow(w, h int) *fakeWindow { return &fakeWindow{width: w, height: h} }

func (w *fakeWindow) NativeHandles() (display, window uintptr) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlesN++
	return 0x1, 0x2
}

func (w *fakeWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *fakeWindow) RequestRedraw() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.redraws++
}

func (w *fakeWindow) setSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}

func (w *fakeWindow) redrawCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraws
}

// fakeSurfaceTexture stands in for a swapchain image.
type fakeSurfaceTexture struct {
	hal.SurfaceTexture
	id int
}

func (fakeSurfaceTexture) Destroy()                {}
func (t fakeSurfaceTexture) NativeHandle() uintptr { return uintptr(t.id) }

// fakeSurface records configuration calls and hands out synthetic textures.
// Methods it does not override panic through the nil embedded interface.
type fakeSurface struct {
	hal.Surface

	configs      []hal.SurfaceConfiguration
	configureErr error
	acquireErrs  []error

	acquired     int
	discarded    int
	unconfigured int
	destroyed    atomic.Bool

	// onDestroy, when set, is closed by Destroy.
	onDestroy chan struct{}
}

func (s *fakeSurface) Configure(_ hal.Device, cfg *hal.SurfaceConfiguration) error {
	if s.configureErr != nil {
		return s.configureErr
	}
	s.configs = append(s.configs, *cfg)
	return nil
}

func (s *fakeSurface) Unconfigure(hal.Device) { s.unconfigured++ }

func (s *fakeSurface) AcquireTexture(hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	s.acquired++
	return &hal.AcquiredSurfaceTexture{Texture: fakeSurfaceTexture{id: s.acquired}}, nil
}

func (s *fakeSurface) DiscardTexture(hal.SurfaceTexture) { s.discarded++ }

func (s *fakeSurface) Destroy() {
	s.destroyed.Store(true)
	if s.onDestroy != nil {
		close(s.onDestroy)
	}
}

func (s *fakeSurface) configureCount() int { return len(s.configs) }

func (s *fakeSurface) lastConfig() hal.SurfaceConfiguration {
	return s.configs[len(s.configs)-1]
}

// fakeAdapter wraps a noop adapter and reports fixed surface capabilities.
// It counts queries made against a surface that was already destroyed.
type fakeAdapter struct {
	hal.Adapter
	caps         *hal.SurfaceCapabilities
	staleQueries atomic.Int32
}

func (a *fakeAdapter) SurfaceCapabilities(s hal.Surface) *hal.SurfaceCapabilities {
	if fs, ok := s.(*fakeSurface); ok && fs.destroyed.Load() {
		a.staleQueries.Add(1)
	}
	return a.caps
}

// fakeInstance returns a fakeSurface and a fixed adapter list.
type fakeInstance struct {
	hal.Instance

	surface    *fakeSurface
	surfaceErr error
	adapters   []hal.ExposedAdapter
	block      chan struct{}
	destroyed  atomic.Bool
}

func (i *fakeInstance) CreateSurface(_, _ uintptr) (hal.Surface, error) {
	if i.surfaceErr != nil {
		return nil, i.surfaceErr
	}
	return i.surface, nil
}

func (i *fakeInstance) EnumerateAdapters(hal.Surface) []hal.ExposedAdapter {
	if i.block != nil {
		<-i.block
	}
	return i.adapters
}

func (i *fakeInstance) Destroy() { i.destroyed.Store(true) }

func defaultCaps() *hal.SurfaceCapabilities {
	return &hal.SurfaceCapabilities{
		Formats: []gputypes.TextureFormat{
			gputypes.TextureFormatBGRA8Unorm,
			gputypes.TextureFormatBGRA8UnormSrgb,
		},
		PresentModes: []hal.PresentMode{hal.PresentModeFifo, hal.PresentModeMailbox},
		AlphaModes:   []hal.CompositeAlphaMode{hal.CompositeAlphaModeOpaque},
	}
}

// exposed builds an adapter entry backed by the noop adapter.
func exposed(base hal.ExposedAdapter, name string, typ gputypes.DeviceType, caps *hal.SurfaceCapabilities) hal.ExposedAdapter {
	e := base
	e.Adapter = &fakeAdapter{Adapter: base.Adapter, caps: caps}
	e.Info.Name = name
	e.Info.DeviceType = typ
	return e
}

func newFakeInstance(t *testing.T) *fakeInstance {
	t.Helper()
	noopInst, adapters := newNoopInstance(t)
	return &fakeInstance{
		Instance: noopInst,
		surface:  &fakeSurface{},
		adapters: []hal.ExposedAdapter{
			exposed(adapters[0], "test-gpu", gputypes.DeviceTypeDiscreteGPU, defaultCaps()),
		},
	}
}

// countingQueue counts submissions and presentations and can inject
// failures. Submit is forwarded so submission indices advance. A stalled
// queue reports that nothing has completed.
type countingQueue struct {
	hal.Queue

	submits    int
	presents   int
	submitErr  error
	presentErr error
	stalled    bool
}

func (q *countingQueue) Submit(cbs []hal.CommandBuffer) (uint64, error) {
	if q.submitErr != nil {
		return 0, q.submitErr
	}
	q.submits++
	return q.Queue.Submit(cbs)
}

func (q *countingQueue) PollCompleted() uint64 {
	if q.stalled {
		return 0
	}
	return q.Queue.PollCompleted()
}

func (q *countingQueue) Present(hal.Surface, hal.SurfaceTexture, []image.Rectangle) error {
	if q.presentErr != nil {
		return q.presentErr
	}
	q.presents++
	return nil
}

// idleDevice counts WaitIdle calls and freed command buffers.
type idleDevice struct {
	hal.Device

	waitIdles int
	freed     int
}

func (d *idleDevice) WaitIdle() error {
	d.waitIdles++
	return d.Device.WaitIdle()
}

func (d *idleDevice) FreeCommandBuffer(cb hal.CommandBuffer) {
	d.freed++
	d.Device.FreeCommandBuffer(cb)
}

// testEnv bundles a context with the fakes behind it.
type testEnv struct {
	gc       *GraphicsContext
	window   *fakeWindow
	instance *fakeInstance
	surface  *fakeSurface
	queue    *countingQueue
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T, width, height int, opts ...Option) *testEnv {
	t.Helper()
	inst := newFakeInstance(t)
	win := newFakeWindow(width, height)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	all := append([]Option{WithInstance(inst), WithLogger(logger)}, opts...)
	gc, err := Initialize(context.Background(), win, all...)
	require.NoError(t, err)
	t.Cleanup(gc.Destroy)
	require.NoError(t, gc.Resize(width, height))

	q := &countingQueue{Queue: gc.queue}
	gc.queue = q

	return &testEnv{
		gc:       gc,
		window:   win,
		instance: inst,
		surface:  inst.surface,
		queue:    q,
		logs:     logs,
	}
}

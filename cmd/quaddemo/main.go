// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command quaddemo opens a window and renders the quad primitive with the
// Vulkan backend until the window is closed or Escape is pressed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/quad"
	"github.com/gogpu/quad/config"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "quaddemo:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "TOML config file")
		width      = flag.Int("width", 0, "window width (overrides config)")
		height     = flag.Int("height", 0, "window height (overrides config)")
		title      = flag.String("title", "", "window title (overrides config)")
		vsync      = flag.Bool("vsync", true, "wait for vertical blank (overrides config when set)")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "title":
			cfg.Title = *title
		case "vsync":
			cfg.VSync = *vsync
		case "debug":
			if *debug {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	quad.SetLogger(logger)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	gw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer gw.Destroy()

	win := newWindow(gw)

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gc, err := quad.Initialize(ctx, win, opts...)
	cancel()
	if err != nil {
		return err
	}
	defer gc.Destroy()

	if err := gc.Restore(); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	logger.Info("quaddemo: running", "adapter", gc.AdapterName(), "format", gc.SurfaceFormat())

	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		// A minimized window reports 0x0; the surface keeps its last size.
		if err := gc.Resize(w, h); err == nil {
			win.RequestRedraw()
		}
	})
	gw.SetRefreshCallback(func(*glfw.Window) {
		win.RequestRedraw()
	})
	gw.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	win.RequestRedraw()
	for !gw.ShouldClose() {
		if win.takeRedraw() {
			glfw.PollEvents()
			// Failures are logged and restored inside Redraw.
			_ = gc.Redraw(nil)
			continue
		}
		glfw.WaitEvents()
	}
	logger.Info("quaddemo: exiting", "frames", gc.Frames())
	return nil
}

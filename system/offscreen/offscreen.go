// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package offscreen provides a window-system driver with no actual
// windows or GPU, for headless operation and tests. Main-thread
// marshaling is immediate: functions run on the calling goroutine.
package offscreen

import (
	"image"
	"sync"

	"github.com/prismplay/prismplay/system"
)

// App is the offscreen [system.App].
type App struct {
	mu      sync.Mutex
	screens []*system.Screen
	windows []*Window
	done    chan struct{}
}

// NewApp returns an offscreen app with the given screens; with none
// given, a single default 1920x1080 60 Hz sRGB screen is used.
func NewApp(screens ...*system.Screen) *App {
	if len(screens) == 0 {
		screens = []*system.Screen{{
			Name:             "offscreen",
			Geometry:         image.Rect(0, 0, 1920, 1080),
			DevicePixelRatio: 1,
			RefreshRate:      60,
			Colorspace:       system.ColorspaceSRGB,
		}}
	}
	for i, sc := range screens {
		sc.ScreenNumber = i
	}
	return &App{screens: screens, done: make(chan struct{})}
}

func (a *App) NScreens() int { return len(a.screens) }

func (a *App) Screen(n int) *system.Screen {
	if n < 0 || n >= len(a.screens) {
		return nil
	}
	return a.screens[n]
}

func (a *App) ScreenByName(name string) *system.Screen {
	for _, sc := range a.screens {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

func (a *App) NewWindow(opts *system.NewWindowOptions) (system.Window, error) {
	if opts == nil {
		opts = &system.NewWindowOptions{}
	}
	opts.Fixup()
	w := &Window{
		app:     a,
		kind:    opts.Kind,
		size:    opts.Size,
		pos:     opts.Pos,
		scale:   a.screens[0].DevicePixelRatio,
		visible: opts.Visible,
		scrn:    a.screens[0],
	}
	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()
	return w, nil
}

// RunOnMain runs f immediately on the calling goroutine.
func (a *App) RunOnMain(f func()) { f() }

// GoRunOnMain runs f immediately on the calling goroutine.
func (a *App) GoRunOnMain(f func()) { f() }

func (a *App) MainLoop() { <-a.done }

func (a *App) StopMain() { close(a.done) }

// NWindows returns the number of windows created so far,
// including closed ones.
func (a *App) NWindows() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.windows)
}

// Window is the offscreen [system.Window]. It records interactions so
// tests can assert on draw-target binds and presents, and exposes the
// registered callbacks so tests can simulate window-system events.
type Window struct {
	app     *App
	kind    system.WindowKind
	scrn    *system.Screen
	size    image.Point
	pos     image.Point
	scale   float32
	title   string
	aspect  image.Point
	visible bool
	closed  bool

	// Binds, Presents, and FramebufferID record draw interactions.
	Binds         int
	Presents      int
	FramebufferID uint32

	resizeFunc   func(image.Point)
	scaleFunc    func(float32)
	screenFunc   func(*system.Screen)
	closeReqFunc func()
	clickFunc    func(image.Point)
	keyFunc      func(string)
}

func (w *Window) Kind() system.WindowKind   { return w.kind }
func (w *Window) Screen() *system.Screen    { return w.scrn }
func (w *Window) Size() image.Point         { return w.size }
func (w *Window) Position() image.Point     { return w.pos }
func (w *Window) ContentScale() float32     { return w.scale }
func (w *Window) SetTitle(title string)     { w.title = title }
func (w *Window) Show()                     { w.visible = true }
func (w *Window) Hide()                     { w.visible = false }
func (w *Window) Raise()                    { w.visible = true }
func (w *Window) IsVisible() bool           { return w.visible && !w.closed }
func (w *Window) Close()                    { w.closed = true; w.visible = false }
func (w *Window) BindDrawTarget()           { w.Binds++ }
func (w *Window) DrawFramebufferID() uint32 { return w.FramebufferID }
func (w *Window) Present()                  { w.Presents++ }

func (w *Window) SetGeom(pos, size image.Point) {
	w.pos, w.size = pos, size
	if w.resizeFunc != nil {
		w.resizeFunc(size)
	}
}

func (w *Window) SetAspectRatio(numer, denom int) {
	w.aspect = image.Point{X: numer, Y: denom}
}

func (w *Window) SetResizeFunc(f func(image.Point))           { w.resizeFunc = f }
func (w *Window) SetScaleFunc(f func(float32))                { w.scaleFunc = f }
func (w *Window) SetScreenChangedFunc(f func(*system.Screen)) { w.screenFunc = f }
func (w *Window) SetCloseRequestFunc(f func())                { w.closeReqFunc = f }
func (w *Window) SetClickFunc(f func(image.Point))            { w.clickFunc = f }
func (w *Window) SetKeyFunc(f func(string))                   { w.keyFunc = f }

// Test event injection.

// SimResize simulates a window-system resize.
func (w *Window) SimResize(size image.Point) {
	w.size = size
	if w.resizeFunc != nil {
		w.resizeFunc(size)
	}
}

// SimScaleChange simulates a backing-scale change, such as a move to
// a different-DPI screen.
func (w *Window) SimScaleChange(scale float32) {
	w.scale = scale
	if w.scaleFunc != nil {
		w.scaleFunc(scale)
	}
}

// SimScreenChange simulates the window moving to a different screen.
func (w *Window) SimScreenChange(sc *system.Screen) {
	w.scrn = sc
	if w.screenFunc != nil {
		w.screenFunc(sc)
	}
}

// SimCloseRequest simulates a user-initiated window close.
func (w *Window) SimCloseRequest() {
	if w.closeReqFunc != nil {
		w.closeReqFunc()
	}
}

// SimClick simulates a primary-button press at the given position.
func (w *Window) SimClick(pos image.Point) {
	if w.clickFunc != nil {
		w.clickFunc(pos)
	}
}

// SimKey simulates a key press.
func (w *Window) SimKey(key string) {
	if w.keyFunc != nil {
		w.keyFunc(key)
	}
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package desktop implements the system interfaces on desktop
// platforms via glfw. All window mutation funnels through the main
// OS thread, which the glfw event loop owns.
package desktop

import (
	"image"
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/gpu"
	"github.com/prismplay/prismplay/system"
)

func init() {
	// glfw event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// funcRun is one function queued for the main thread, with an optional
// done channel for synchronous callers.
type funcRun struct {
	f    func()
	done chan struct{}
}

// App implements [system.App] on top of glfw.
type App struct {
	cx *gpu.Context

	mu      sync.Mutex
	screens []*system.Screen
	windows []*Window

	mainQueue chan funcRun
	events    chan func()
	quit      chan struct{}
	quitOnce  sync.Once
	running   bool
}

// NewApp initializes glfw, negotiates the GPU context, and reads the
// connected screens. It must be called on the main thread, before
// [App.MainLoop]. The returned app owns glfw termination via
// [App.Release].
func NewApp() (*App, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "desktop: initializing window system")
	}
	cx, err := gpu.New()
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	a := &App{
		cx:        cx,
		mainQueue: make(chan funcRun, 32),
		events:    make(chan func(), 256),
		quit:      make(chan struct{}),
	}
	a.updateScreens()
	glfw.SetMonitorCallback(a.monitorChange)
	go a.eventLoop()
	return a, nil
}

// eventLoop runs the user-facing window callbacks. The raw glfw
// callbacks only enqueue here, so a callback body is free to call
// [App.RunOnMain] without deadlocking the glfw event thread.
func (a *App) eventLoop() {
	for {
		select {
		case <-a.quit:
			return
		case f := <-a.events:
			f()
		}
	}
}

// dispatchEvent queues a user callback for the event goroutine,
// preserving delivery order.
func (a *App) dispatchEvent(f func()) {
	select {
	case a.events <- f:
	case <-a.quit:
	}
}

// GPU returns the app's GPU context.
func (a *App) GPU() *gpu.Context { return a.cx }

// monitorChange runs on the main thread when a monitor is connected
// or disconnected. Screens are re-read and every window re-derives
// its hosting screen.
func (a *App) monitorChange(mon *glfw.Monitor, event glfw.PeripheralEvent) {
	a.updateScreens()
	a.mu.Lock()
	wins := append([]*Window(nil), a.windows...)
	a.mu.Unlock()
	for _, w := range wins {
		w.updateScreen()
	}
}

// updateScreens re-reads the monitor list from glfw.
func (a *App) updateScreens() {
	mons := glfw.GetMonitors()
	screens := make([]*system.Screen, 0, len(mons))
	for i, mon := range mons {
		screens = append(screens, monitorScreen(mon, i))
	}
	a.mu.Lock()
	a.screens = screens
	a.mu.Unlock()
}

func (a *App) NScreens() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.screens)
}

func (a *App) Screen(n int) *system.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 0 || n >= len(a.screens) {
		return nil
	}
	return a.screens[n]
}

func (a *App) ScreenByName(name string) *system.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, sc := range a.screens {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

// screenAt returns the screen containing the largest part of the
// given rectangle, defaulting to screen 0.
func (a *App) screenAt(r image.Rectangle) *system.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	var best *system.Screen
	bestArea := -1
	for _, sc := range a.screens {
		ov := r.Intersect(sc.Geometry)
		area := ov.Dx() * ov.Dy()
		if area > bestArea {
			best, bestArea = sc, area
		}
	}
	return best
}

// NewWindow creates a visible-capable window sharing GPU objects with
// the context holder. Safe to call from any goroutine.
func (a *App) NewWindow(opts *system.NewWindowOptions) (system.Window, error) {
	if opts == nil {
		opts = &system.NewWindowOptions{}
	}
	opts.Fixup()
	var w *Window
	var err error
	a.RunOnMain(func() {
		w, err = newWindow(a, opts)
	})
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()
	return w, nil
}

func (a *App) removeWindow(w *Window) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, ww := range a.windows {
		if ww == w {
			a.windows = append(a.windows[:i], a.windows[i+1:]...)
			return
		}
	}
}

// NWindows returns the number of open windows.
func (a *App) NWindows() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.windows)
}

// RunOnMain runs f on the main thread and waits for it. Called before
// the main loop starts, it runs f directly, since NewApp and MainLoop
// share the locked main thread.
func (a *App) RunOnMain(f func()) {
	a.mu.Lock()
	running := a.running
	a.mu.Unlock()
	if !running {
		f()
		return
	}
	done := make(chan struct{})
	a.mainQueue <- funcRun{f: f, done: done}
	glfw.PostEmptyEvent()
	<-done
}

// GoRunOnMain posts f to the main thread without waiting. The only
// window-system entry point permitted from the clock goroutine.
func (a *App) GoRunOnMain(f func()) {
	go func() {
		a.mainQueue <- funcRun{f: f}
		glfw.PostEmptyEvent()
	}()
}

// MainLoop services window-system events and the main-thread function
// queue until StopMain. Must run on the main thread.
func (a *App) MainLoop() {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	for {
		select {
		case <-a.quit:
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			return
		case fr := <-a.mainQueue:
			fr.f()
			if fr.done != nil {
				close(fr.done)
			}
		default:
			glfw.WaitEvents()
		}
	}
}

// StopMain terminates MainLoop.
func (a *App) StopMain() {
	a.quitOnce.Do(func() {
		close(a.quit)
		glfw.PostEmptyEvent()
	})
}

// Release destroys the GPU context and terminates glfw. Call on the
// main thread after MainLoop returns.
func (a *App) Release() {
	a.cx.Lock()
	a.cx.Release()
	a.cx.Unlock()
	glfw.Terminate()
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostview embeds the compositor surface in the host window
// tree. The HostView owns the vsync clock lifecycle, keeps the surface
// bounds in sync with window geometry, and routes screen changes to
// the clock and to the dynamic range manager.
package hostview

import (
	"image"
	"sync"
	"time"

	"github.com/prismplay/prismplay/clock"
	"github.com/prismplay/prismplay/compositor"
	"github.com/prismplay/prismplay/system"
)

// Layout places the view inside its hosting window, in window-manager
// units. FillParent tracks the window size on resize; otherwise Frame
// is used as-is.
type Layout struct {
	Frame      image.Rectangle
	FillParent bool
}

// HostView is the playback view: the bridge between the compositor
// surface and whichever window currently hosts it. The hosting window
// changes across picture-in-picture transplants; the view and its
// clock survive the move.
type HostView struct {
	app system.App
	sf  *compositor.Surface
	ck  *clock.VsyncClock

	mu            sync.Mutex
	win           system.Window
	layout        Layout
	transplanting bool
	screenFunc    func(sc *system.Screen)
}

// New returns a view presenting the given surface, not yet attached to
// any window. The vsync clock is created stopped and starts on attach.
func New(app system.App, sf *compositor.Surface) *HostView {
	hv := &HostView{app: app, sf: sf, layout: Layout{FillParent: true}}
	hv.ck = clock.New(clock.DefaultRefreshRate, hv.tick)
	return hv
}

// tick runs on the clock goroutine every refresh cycle. It only polls
// and posts: the draw itself is marshaled to the main thread.
func (hv *HostView) tick(now time.Time) {
	if !hv.sf.CanDraw(now) {
		return
	}
	hv.app.GoRunOnMain(func() {
		hv.sf.Draw(now)
	})
}

// Surface returns the compositor surface this view embeds.
func (hv *HostView) Surface() *compositor.Surface { return hv.sf }

// Clock returns the view's vsync clock.
func (hv *HostView) Clock() *clock.VsyncClock { return hv.ck }

// Window returns the window currently hosting the view, or nil.
func (hv *HostView) Window() system.Window {
	hv.mu.Lock()
	defer hv.mu.Unlock()
	return hv.win
}

// Screen returns the screen hosting the view, or nil when detached.
func (hv *HostView) Screen() *system.Screen {
	hv.mu.Lock()
	win := hv.win
	hv.mu.Unlock()
	if win == nil {
		return nil
	}
	return win.Screen()
}

// Layout returns the current layout of the view within its window.
func (hv *HostView) Layout() Layout {
	hv.mu.Lock()
	defer hv.mu.Unlock()
	return hv.layout
}

// SetLayout updates the view layout and resyncs the surface bounds.
func (hv *HostView) SetLayout(l Layout) {
	hv.mu.Lock()
	hv.layout = l
	hv.mu.Unlock()
	hv.syncBounds()
}

// SetScreenChangedFunc sets the function called after the hosting
// window moves to a different screen, once the clock has re-synced to
// the new refresh rate. The dynamic range manager hooks in here to
// re-derive the SDR colorspace.
func (hv *HostView) SetScreenChangedFunc(f func(sc *system.Screen)) {
	hv.mu.Lock()
	hv.screenFunc = f
	hv.mu.Unlock()
}

// Attach hosts the view in the given window with the given layout,
// wiring geometry callbacks, syncing the surface bounds, and starting
// the clock at the hosting screen's refresh rate. Attaching while
// already attached detaches first.
func (hv *HostView) Attach(win system.Window, l Layout) {
	hv.mu.Lock()
	prev := hv.win
	hv.win = win
	hv.layout = l
	hv.mu.Unlock()

	if prev != nil && prev != win {
		clearGeomFuncs(prev)
	}

	win.SetResizeFunc(func(size image.Point) { hv.syncBounds() })
	win.SetScaleFunc(func(scale float32) { hv.syncBounds() })
	win.SetScreenChangedFunc(hv.onScreenChanged)

	hv.sf.SetWindow(win)
	hv.syncBounds()

	rate := clock.DefaultRefreshRate
	if sc := win.Screen(); sc != nil {
		rate = sc.RefreshRate
	}
	hv.ck.SetRefreshRate(rate)
	hv.ck.Start()
}

// Detach removes the view from its window. Outside a transplant the
// clock stops with the detach; during one (see [HostView.BeginTransplant])
// it keeps running so playback never sees a tick gap between windows.
func (hv *HostView) Detach() {
	hv.mu.Lock()
	win := hv.win
	hv.win = nil
	transplanting := hv.transplanting
	hv.mu.Unlock()

	if win != nil {
		clearGeomFuncs(win)
	}
	hv.sf.SetWindow(nil)

	if !transplanting {
		hv.ck.Stop()
	}
}

// BeginTransplant marks the start of a window-to-window move of the
// view. Detaches during a transplant leave the clock running.
func (hv *HostView) BeginTransplant() {
	hv.mu.Lock()
	hv.transplanting = true
	hv.mu.Unlock()
}

// EndTransplant marks the end of a window-to-window move.
func (hv *HostView) EndTransplant() {
	hv.mu.Lock()
	hv.transplanting = false
	hv.mu.Unlock()
}

// Transplanting reports whether a window-to-window move is in flight.
func (hv *HostView) Transplanting() bool {
	hv.mu.Lock()
	defer hv.mu.Unlock()
	return hv.transplanting
}

// RedrawNow draws one frame immediately on the main thread, outside
// the clock schedule. Used after layout or color reconfiguration so
// the user never watches a stale frame while playback is paused.
func (hv *HostView) RedrawNow() {
	hv.app.RunOnMain(func() {
		hv.sf.Draw(time.Now())
	})
}

// syncBounds recomputes the surface bounds from the current window
// geometry and layout. The surface picks the new bounds up on its
// next draw.
func (hv *HostView) syncBounds() {
	hv.mu.Lock()
	win := hv.win
	l := hv.layout
	hv.mu.Unlock()
	if win == nil {
		return
	}
	size := l.Frame.Size()
	if l.FillParent {
		size = win.Size()
	}
	hv.sf.SetBounds(compositor.Bounds{Size: size, Scale: win.ContentScale()})
}

// onScreenChanged re-syncs the clock to the new screen's refresh rate
// and notifies the screen-change hook.
func (hv *HostView) onScreenChanged(sc *system.Screen) {
	if sc != nil {
		hv.ck.SetRefreshRate(sc.RefreshRate)
	}
	hv.mu.Lock()
	f := hv.screenFunc
	hv.mu.Unlock()
	if f != nil {
		f(sc)
	}
}

func clearGeomFuncs(win system.Window) {
	win.SetResizeFunc(nil)
	win.SetScaleFunc(nil)
	win.SetScreenChangedFunc(nil)
}

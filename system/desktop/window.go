// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package desktop

import (
	"image"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prismplay/prismplay/system"
)

// Window implements [system.Window] on a glfw window sharing GPU
// objects with the app's context holder.
type Window struct {
	app  *App
	glw  *glfw.Window
	kind system.WindowKind

	mu         sync.Mutex
	scrn       *system.Screen
	resizeFunc func(size image.Point)
	scaleFunc  func(scale float32)
	screenFunc func(sc *system.Screen)
	closeFunc  func()
	clickFunc  func(pos image.Point)
	keyFunc    func(key string)
}

// newWindow runs on the main thread.
func newWindow(a *App, opts *system.NewWindowOptions) (*Window, error) {
	a.cx.ApplyWindowHints()
	if opts.Kind == system.FloatingWindow {
		glfw.WindowHint(glfw.Floating, glfw.True)
		glfw.WindowHint(glfw.Decorated, glfw.False)
	}
	if opts.Visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}

	glw, err := glfw.CreateWindow(opts.Size.X, opts.Size.Y, opts.Title, nil, a.cx.ShareWindow())
	if err != nil {
		return nil, err
	}
	w := &Window{app: a, glw: glw, kind: opts.Kind}
	if opts.Pos != (image.Point{}) {
		glw.SetPos(opts.Pos.X, opts.Pos.Y)
	}
	if opts.FixedAspect != (image.Point{}) {
		glw.SetAspectRatio(opts.FixedAspect.X, opts.FixedAspect.Y)
	}
	w.scrn = a.screenAt(w.rect())

	glw.SetSizeCallback(w.onSize)
	glw.SetPosCallback(w.onPos)
	glw.SetContentScaleCallback(w.onScale)
	glw.SetCloseCallback(w.onCloseRequest)
	glw.SetMouseButtonCallback(w.onMouseButton)
	glw.SetKeyCallback(w.onKey)
	return w, nil
}

// rect returns the window rectangle in window-manager units.
func (w *Window) rect() image.Rectangle {
	x, y := w.glw.GetPos()
	wd, ht := w.glw.GetSize()
	return image.Rect(x, y, x+wd, y+ht)
}

// updateScreen re-derives the hosting screen from the window position,
// firing the screen-changed callback when it differs.
func (w *Window) updateScreen() {
	sc := w.app.screenAt(w.rect())
	w.mu.Lock()
	changed := sc != nil && (w.scrn == nil || sc.Name != w.scrn.Name)
	w.scrn = sc
	f := w.screenFunc
	w.mu.Unlock()
	if changed && f != nil {
		w.app.dispatchEvent(func() { f(sc) })
	}
}

// glfw callbacks: runs on the main thread, user funcs dispatched to
// the event goroutine.

func (w *Window) onSize(gw *glfw.Window, width, height int) {
	w.updateScreen()
	w.mu.Lock()
	f := w.resizeFunc
	w.mu.Unlock()
	if f != nil {
		w.app.dispatchEvent(func() { f(image.Pt(width, height)) })
	}
}

func (w *Window) onPos(gw *glfw.Window, x, y int) {
	w.updateScreen()
}

func (w *Window) onScale(gw *glfw.Window, x, y float32) {
	w.mu.Lock()
	f := w.scaleFunc
	w.mu.Unlock()
	if f != nil {
		w.app.dispatchEvent(func() { f(x) })
	}
}

func (w *Window) onCloseRequest(gw *glfw.Window) {
	// the callback owns the decision; keep the window alive until then
	gw.SetShouldClose(false)
	w.mu.Lock()
	f := w.closeFunc
	w.mu.Unlock()
	if f == nil {
		w.app.dispatchEvent(w.Close)
		return
	}
	w.app.dispatchEvent(f)
}

func (w *Window) onMouseButton(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButton1 || action != glfw.Press {
		return
	}
	w.mu.Lock()
	f := w.clickFunc
	w.mu.Unlock()
	if f == nil {
		return
	}
	x, y := gw.GetCursorPos()
	pos := image.Pt(int(x), int(y))
	w.app.dispatchEvent(func() { f(pos) })
}

func (w *Window) onKey(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	w.mu.Lock()
	f := w.keyFunc
	w.mu.Unlock()
	if f == nil {
		return
	}
	name := keyName(key, scancode)
	if name == "" {
		return
	}
	w.app.dispatchEvent(func() { f(name) })
}

// keyName maps a glfw key to the portable names the playback controls
// bind to.
func keyName(key glfw.Key, scancode int) string {
	switch key {
	case glfw.KeyEscape:
		return "escape"
	case glfw.KeySpace:
		return "space"
	case glfw.KeyEnter:
		return "enter"
	}
	return glfw.GetKeyName(key, scancode)
}

func (w *Window) Kind() system.WindowKind { return w.kind }

func (w *Window) Screen() *system.Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrn
}

func (w *Window) Size() image.Point {
	var p image.Point
	w.app.RunOnMain(func() { p.X, p.Y = w.glw.GetSize() })
	return p
}

func (w *Window) Position() image.Point {
	var p image.Point
	w.app.RunOnMain(func() { p.X, p.Y = w.glw.GetPos() })
	return p
}

func (w *Window) SetGeom(pos, size image.Point) {
	w.app.RunOnMain(func() {
		w.glw.SetPos(pos.X, pos.Y)
		w.glw.SetSize(size.X, size.Y)
	})
}

func (w *Window) ContentScale() float32 {
	var s float32
	w.app.RunOnMain(func() { s, _ = w.glw.GetContentScale() })
	if s <= 0 {
		s = 1
	}
	return s
}

func (w *Window) SetTitle(title string) {
	w.app.RunOnMain(func() { w.glw.SetTitle(title) })
}

func (w *Window) SetAspectRatio(numer, denom int) {
	w.app.RunOnMain(func() {
		if numer <= 0 || denom <= 0 {
			w.glw.SetAspectRatio(glfw.DontCare, glfw.DontCare)
			return
		}
		w.glw.SetAspectRatio(numer, denom)
	})
}

func (w *Window) Show() { w.app.RunOnMain(w.glw.Show) }
func (w *Window) Hide() { w.app.RunOnMain(w.glw.Hide) }

func (w *Window) Raise() { w.app.RunOnMain(w.glw.Focus) }

func (w *Window) IsVisible() bool {
	var v bool
	w.app.RunOnMain(func() { v = w.glw.GetAttrib(glfw.Visible) == glfw.True })
	return v
}

func (w *Window) Close() {
	w.app.removeWindow(w)
	w.app.RunOnMain(w.glw.Destroy)
}

// BindDrawTarget makes this window's draw context current on the
// calling thread. Per-draw, under the GPU lock; never cached.
func (w *Window) BindDrawTarget() {
	w.glw.MakeContextCurrent()
}

// DrawFramebufferID reads back the framebuffer the window system has
// bound for drawing. Requires BindDrawTarget on this thread first.
func (w *Window) DrawFramebufferID() uint32 {
	var fb int32
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &fb)
	return uint32(fb)
}

// Present swaps buffers; with swap interval 1 it blocks until the
// display refresh.
func (w *Window) Present() {
	w.glw.SwapBuffers()
}

func (w *Window) SetResizeFunc(f func(size image.Point)) {
	w.mu.Lock()
	w.resizeFunc = f
	w.mu.Unlock()
}

func (w *Window) SetScaleFunc(f func(scale float32)) {
	w.mu.Lock()
	w.scaleFunc = f
	w.mu.Unlock()
}

func (w *Window) SetScreenChangedFunc(f func(sc *system.Screen)) {
	w.mu.Lock()
	w.screenFunc = f
	w.mu.Unlock()
}

func (w *Window) SetCloseRequestFunc(f func()) {
	w.mu.Lock()
	w.closeFunc = f
	w.mu.Unlock()
}

func (w *Window) SetClickFunc(f func(pos image.Point)) {
	w.mu.Lock()
	w.clickFunc = f
	w.mu.Unlock()
}

func (w *Window) SetKeyFunc(f func(key string)) {
	w.mu.Lock()
	w.keyFunc = f
	w.mu.Unlock()
}

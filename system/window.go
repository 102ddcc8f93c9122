// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package system

import "image"

// WindowKind distinguishes the logical role of a window.
type WindowKind int32

const (
	// MainWindow is the primary playback window of the application.
	MainWindow WindowKind = iota

	// FloatingWindow is an always-on-top secondary window,
	// used for picture-in-picture presentation.
	FloatingWindow
)

func (wk WindowKind) String() string {
	if wk == FloatingWindow {
		return "floating"
	}
	return "main"
}

// Window is a single operating-system window hosting a compositor
// surface. All mutating methods must be called on the main (UI)
// thread; see [App.RunOnMain].
type Window interface {

	// Kind returns the logical role of this window.
	Kind() WindowKind

	// Screen returns the screen currently hosting this window
	// (the screen containing the largest part of the window).
	Screen() *Screen

	// Size returns the current size of the window, in window-manager
	// units (not raw pixels).
	Size() image.Point

	// Position returns the current position of the window,
	// in window-manager units.
	Position() image.Point

	// SetGeom sets the position and size of the window,
	// in window-manager units.
	SetGeom(pos, size image.Point)

	// ContentScale returns the backing-scale factor of the window:
	// the ratio of raw pixels to window-manager units.
	ContentScale() float32

	// SetTitle sets the displayed title of the window.
	SetTitle(title string)

	// SetAspectRatio constrains the window to the given fixed aspect
	// ratio. Zero values remove the constraint.
	SetAspectRatio(numer, denom int)

	// Show makes the window visible.
	Show()

	// Hide makes the window invisible without destroying it,
	// so it can be reused.
	Hide()

	// Raise brings the window to the top of the window stack.
	Raise()

	// IsVisible reports whether the window is currently visible.
	IsVisible() bool

	// Close destroys the window. The window must not be used after
	// Close returns.
	Close()

	// BindDrawTarget binds this window's window-system-supplied draw
	// target on the calling thread. It must be called inside the GPU
	// context lock on every draw, never cached across draws: the
	// compositor may be drawing for more than one window across its
	// lifetime.
	BindDrawTarget()

	// DrawFramebufferID returns the id of the draw framebuffer the
	// window system currently has bound for this window. The window
	// system owns this framebuffer, not the compositor.
	DrawFramebufferID() uint32

	// Present swaps the window's buffers, presenting the rendered
	// frame. Must be called inside the GPU context lock with this
	// window's draw target bound.
	Present()

	// SetResizeFunc sets the function called on the app event goroutine when
	// the window size changes, with the new size in window-manager
	// units.
	SetResizeFunc(f func(size image.Point))

	// SetScaleFunc sets the function called on the app event goroutine when
	// the window's backing-scale factor changes, such as when it is
	// moved to a different-DPI screen.
	SetScaleFunc(f func(scale float32))

	// SetScreenChangedFunc sets the function called on the app event goroutine
	// when the window moves to a different screen.
	SetScreenChangedFunc(f func(sc *Screen))

	// SetCloseRequestFunc sets the function called on the app event goroutine
	// when the user requests that the window close. If set, the
	// function is responsible for calling Close or Hide.
	SetCloseRequestFunc(f func())

	// SetClickFunc sets the function called on the app event goroutine when
	// the primary pointer button is pressed, with the position in
	// window-manager units.
	SetClickFunc(f func(pos image.Point))

	// SetKeyFunc sets the function called on the app event goroutine when a
	// key is pressed, with a portable key name such as "p" or "escape".
	SetKeyFunc(f func(key string))
}

// NewWindowOptions are optional arguments to NewWindow.
type NewWindowOptions struct {
	// Title is the window title.
	Title string

	// Size is the requested size of the new window, in window-manager
	// units. A zero value means a sensible default.
	Size image.Point

	// Pos is the requested position of the new window. A zero value
	// lets the window manager place it.
	Pos image.Point

	// Kind is the logical role of the window. FloatingWindow windows
	// are created always-on-top and undecorated.
	Kind WindowKind

	// FixedAspect, if non-zero, constrains the window to the given
	// aspect ratio.
	FixedAspect image.Point

	// Visible is whether the window is initially shown.
	Visible bool
}

// Fixup fills in sensible default values for any unset fields.
func (o *NewWindowOptions) Fixup() {
	if o.Size.X <= 0 {
		o.Size.X = 1024
	}
	if o.Size.Y <= 0 {
		o.Size.Y = 576
	}
	if o.Title == "" {
		o.Title = "Prismplay"
	}
}

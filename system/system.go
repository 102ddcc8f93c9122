// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package system defines the window-system collaborator contract the
// compositor consumes from the surrounding application: screens,
// windows, and main-thread marshaling. Platform drivers (see
// system/desktop) provide the implementations.
package system

// App represents the window system of the host application.
// It maintains data about the physical screens and creates the
// windows the compositor presents into.
type App interface {

	// NScreens returns the number of screens currently connected.
	NScreens() int

	// Screen returns the screen for the given screen number,
	// or nil if it is not a valid screen number.
	Screen(n int) *Screen

	// ScreenByName returns the screen with the given name,
	// or nil if no screen has that name.
	ScreenByName(name string) *Screen

	// NewWindow returns a new window. A nil opts is valid and means
	// to use the default option values.
	NewWindow(opts *NewWindowOptions) (Window, error)

	// RunOnMain runs the given function on the main (UI) thread,
	// blocking until it completes. All window hierarchy and bounds
	// mutation must happen through here when called from any other
	// goroutine. If the main loop is not running yet, the function
	// is called directly.
	RunOnMain(f func())

	// GoRunOnMain posts the given function to the main (UI) thread
	// and returns immediately. This is the only window-system call
	// permitted from real-time threads such as the hardware clock.
	GoRunOnMain(f func())

	// MainLoop runs the main event loop. It must be called on the
	// main thread, and does not return until StopMain is called.
	MainLoop()

	// StopMain stops the main event loop, terminating MainLoop.
	StopMain()
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pip implements picture-in-picture: transplanting the host
// view from the main window into a small always-on-top floating
// window and back. The transplant is modeled as an explicit session
// with a typed state machine, so re-entrant requests during a
// transition are cheap no-ops instead of corrupted window trees.
package pip

import (
	"image"
	"sync"

	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/hostview"
	"github.com/prismplay/prismplay/system"
)

// State is the picture-in-picture state of the manager.
type State int32

const (
	// Idle means the view is hosted in its normal parent window.
	Idle State = iota

	// TransitioningIn means an enter transplant is in flight.
	TransitioningIn

	// InPiP means the view is hosted in the floating window.
	InPiP

	// TransitioningOut means an exit transplant is in flight.
	TransitioningOut
)

func (s State) String() string {
	switch s {
	case TransitioningIn:
		return "transitioning-in"
	case InPiP:
		return "in-pip"
	case TransitioningOut:
		return "transitioning-out"
	}
	return "idle"
}

// ErrNotHosted is returned by [Manager.Enter] when the host view is
// not attached to any window: there is no view in the hierarchy to
// transplant, and no placement to restore on exit.
var ErrNotHosted = errors.New("pip: view is not hosted in a window")

// Floating window placement.
const (
	floatWidth  = 480
	floatHeight = 270
	floatMargin = 24
)

// session records where the view came from, so exit can restore the
// exact placement. One session exists per enter/exit cycle.
type session struct {
	parent system.Window
	layout hostview.Layout
	float  system.Window
}

// Manager owns the picture-in-picture lifecycle for one host view.
type Manager struct {
	hv *hostview.HostView
	ov *Overlay

	mu    sync.Mutex
	state State
	ses   *session
	pool  windowPool

	stateFuncs []func(s State)
}

// NewManager returns a manager for the given view. The overlay draws
// the floating window's control chrome and routes its clicks; its
// exit control calls back into [Manager.Exit].
func NewManager(app system.App, hv *hostview.HostView, ov *Overlay) *Manager {
	pm := &Manager{hv: hv, ov: ov, pool: windowPool{app: app}}
	if ov != nil {
		ov.exit = func() { errors.Log(pm.Exit()) }
	}
	return pm
}

// State returns the current picture-in-picture state.
func (pm *Manager) State() State {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.state
}

// AddStateFunc registers a function called after every completed state
// change, outside the manager lock.
func (pm *Manager) AddStateFunc(f func(s State)) {
	pm.mu.Lock()
	pm.stateFuncs = append(pm.stateFuncs, f)
	pm.mu.Unlock()
}

func (pm *Manager) setState(s State) {
	pm.mu.Lock()
	pm.state = s
	funcs := pm.stateFuncs
	pm.mu.Unlock()
	for _, f := range funcs {
		f(s)
	}
}

// Enter transplants the view into the floating window. Requests while
// not idle (already in picture-in-picture, or mid-transition) are
// no-ops. Entering with the view not hosted in any window returns
// [ErrNotHosted]; a floating-window creation failure leaves the view
// in its parent window and is returned to the caller. Safe from any
// goroutine: the window calls marshal to the main thread themselves,
// so Enter itself must never run inside [system.App.RunOnMain].
func (pm *Manager) Enter() error {
	pm.mu.Lock()
	if pm.state != Idle {
		pm.mu.Unlock()
		return nil
	}
	parent := pm.hv.Window()
	if parent == nil {
		pm.mu.Unlock()
		return ErrNotHosted
	}
	pm.state = TransitioningIn
	pm.ses = &session{parent: parent, layout: pm.hv.Layout()}
	pm.mu.Unlock()

	float, err := pm.pool.get(pm.hv.Screen())
	if err != nil {
		pm.mu.Lock()
		pm.state = Idle
		pm.ses = nil
		pm.mu.Unlock()
		return errors.Wrap(err, "pip: enter")
	}
	pm.mu.Lock()
	pm.ses.float = float
	pm.mu.Unlock()

	float.SetCloseRequestFunc(func() { errors.Log(pm.Exit()) })
	float.SetClickFunc(func(pos image.Point) {
		if pm.ov != nil {
			pm.ov.Click(pos, float.Size())
		}
	})

	pm.hv.BeginTransplant()
	pm.hv.Detach()
	pm.hv.Attach(float, hostview.Layout{FillParent: true})
	if pm.ov != nil {
		pm.hv.Surface().SetOverlay(pm.ov)
	}
	float.Show()
	float.Raise()
	pm.hv.EndTransplant()

	pm.setState(InPiP)
	pm.hv.RedrawNow()
	return nil
}

// Exit transplants the view back into its parent window with the
// layout it had before Enter, then parks the floating window in the
// pool; the hide happens only after the restore is complete, so the
// view is never windowless while both windows are visible. Requests
// while not in picture-in-picture are no-ops. Like [Manager.Enter],
// Exit must never run inside [system.App.RunOnMain].
func (pm *Manager) Exit() error {
	pm.mu.Lock()
	if pm.state != InPiP {
		pm.mu.Unlock()
		return nil
	}
	pm.state = TransitioningOut
	ses := pm.ses
	pm.ses = nil
	pm.mu.Unlock()

	pm.hv.BeginTransplant()
	pm.hv.Surface().SetOverlay(nil)
	pm.hv.Detach()
	pm.hv.Attach(ses.parent, ses.layout)
	pm.hv.EndTransplant()
	pm.pool.put(ses.float)

	pm.setState(Idle)
	pm.hv.RedrawNow()
	return nil
}

// windowPool is a one-slot pool for the floating window. Exiting
// picture-in-picture hides the window instead of destroying it, so
// the next enter skips window-system creation entirely.
type windowPool struct {
	app system.App
	win system.Window
}

// get returns the pooled window repositioned for the given screen,
// creating it on first use.
func (wp *windowPool) get(sc *system.Screen) (system.Window, error) {
	pos := floatPosition(sc)
	if wp.win != nil {
		wp.win.SetGeom(pos, image.Pt(floatWidth, floatHeight))
		return wp.win, nil
	}
	win, err := wp.app.NewWindow(&system.NewWindowOptions{
		Title:       "Picture in Picture",
		Size:        image.Pt(floatWidth, floatHeight),
		Pos:         pos,
		Kind:        system.FloatingWindow,
		FixedAspect: image.Pt(16, 9),
	})
	if err != nil {
		return nil, err
	}
	wp.win = win
	return win, nil
}

// put parks the window for reuse.
func (wp *windowPool) put(win system.Window) {
	if win == nil {
		return
	}
	win.SetCloseRequestFunc(nil)
	win.SetClickFunc(nil)
	win.Hide()
	wp.win = win
}

// floatPosition places the floating window in the bottom-right corner
// of the given screen, inset by the standard margin.
func floatPosition(sc *system.Screen) image.Point {
	if sc == nil {
		return image.Pt(floatMargin, floatMargin)
	}
	return image.Pt(
		sc.Geometry.Max.X-floatWidth-floatMargin,
		sc.Geometry.Max.Y-floatHeight-floatMargin,
	)
}

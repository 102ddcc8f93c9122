// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynrange switches the compositor surface between standard
// and extended dynamic range based on the color metadata the decoder
// reports. Transitions happen only on explicit decoder notification,
// never inferred locally, and are applied fresh each time rather than
// diffed against previous state.
package dynrange

import (
	"log/slog"
	"sync"

	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/system"
)

// State is the dynamic-range state of the surface.
type State int32

const (
	// SDR is standard dynamic range.
	SDR State = iota

	// HDR is high (extended) dynamic range.
	HDR
)

func (s State) String() string {
	if s == HDR {
		return "HDR"
	}
	return "SDR"
}

// Surface is the color configuration the manager drives.
// *compositor.Surface implements it.
type Surface interface {
	SetExtendedRange(on bool)
	SetColorspace(cs system.Colorspace)
	SetHostColorManaged(on bool)
}

// ScreenSource reports the screen currently hosting the playback view,
// used to select the SDR colorspace. *hostview.HostView implements it.
type ScreenSource interface {
	Screen() *system.Screen
}

// hdrColorspaces maps known color-primaries tags to platform
// colorspaces for HDR presentation. An unrecognized tag leaves the
// surface colorspace unchanged.
var hdrColorspaces = map[string]system.Colorspace{
	"bt.2020":    system.ColorspaceBT2020,
	"bt2020":     system.ColorspaceBT2020,
	"2020":       system.ColorspaceBT2020,
	"display-p3": system.ColorspaceDisplayP3,
	"dci-p3":     system.ColorspaceDisplayP3,
	"p3":         system.ColorspaceDisplayP3,
}

// Manager owns the dynamic-range state machine and the current
// [decoder.ColorProfile], which is replaced wholesale on every
// decoder notification.
type Manager struct {
	mu      sync.Mutex
	surf    Surface
	screens ScreenSource
	br      *decoder.Bridge
	state   State
	profile decoder.ColorProfile
}

// NewManager returns a manager driving the given surface, reading the
// hosting screen from screens and forwarding ICC profiles through br.
// The initial state is SDR.
func NewManager(surf Surface, screens ScreenSource, br *decoder.Bridge) *Manager {
	return &Manager{surf: surf, screens: screens, br: br}
}

// State returns the current dynamic-range state.
func (dm *Manager) State() State {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.state
}

// Profile returns the color profile most recently applied.
func (dm *Manager) Profile() decoder.ColorProfile {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.profile
}

// Apply transitions the surface per the given profile. Re-entering the
// same state with different metadata (a primaries change within HDR)
// is applied as a fresh transition; identical metadata produces the
// identical configuration, so Apply is idempotent.
func (dm *Manager) Apply(p decoder.ColorProfile) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.profile = p
	if p.HDR {
		dm.state = HDR
		dm.applyHDR(p)
	} else {
		dm.state = SDR
		dm.applySDR()
	}
}

// applyHDR puts the surface in extended-range mode. The decoder is
// the color-accurate path in HDR: host ICC auto-correction is
// disabled so the decoder targets the display's native transfer
// function directly.
func (dm *Manager) applyHDR(p decoder.ColorProfile) {
	dm.surf.SetExtendedRange(true)
	if cs, ok := hdrColorspaces[p.Primaries]; ok {
		dm.surf.SetColorspace(cs)
	} else {
		// unknown primaries leave the previous colorspace in place
		slog.Debug("dynrange: unrecognized HDR primaries tag", "primaries", p.Primaries)
	}
	dm.surf.SetHostColorManaged(false)
}

// applySDR clears extended-range mode and selects the colorspace of
// the screen hosting the view, forwarding its ICC profile to the
// decoder when one is available.
func (dm *Manager) applySDR() {
	dm.surf.SetExtendedRange(false)
	cs := system.ColorspaceSRGB
	var icc []byte
	if sc := dm.screens.Screen(); sc != nil {
		cs = sc.Colorspace
		icc = sc.ICCProfile
	}
	dm.surf.SetColorspace(cs)
	dm.surf.SetHostColorManaged(true)
	if len(icc) > 0 {
		dm.br.SetICCProfile(icc)
	}
}

// ScreenChanged re-derives the SDR colorspace after the hosting window
// moves to a different screen. A no-op in HDR, where the colorspace
// follows the stream primaries, not the screen.
func (dm *Manager) ScreenChanged() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.state == SDR {
		dm.applySDR()
	}
}

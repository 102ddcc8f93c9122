// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compositor presents decoded video frames inside the host
// window system, synchronized to display refresh. The Surface decides
// whether and how to draw on each vsync tick; everything GPU-touching
// happens under the gpu context lock.
package compositor

import (
	"image"
	"math"
	"sync"
	"time"

	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/gpu"
	"github.com/prismplay/prismplay/system"
)

// Bounds is the current geometry of the surface: size in window-manager
// units and the backing-scale factor of the hosting window. It is
// owned by the host view and read by the surface at draw time; the
// viewport for a given draw is always derived from the Bounds in
// effect at the start of that draw, never a cached value.
type Bounds struct {
	Size  image.Point
	Scale float32
}

// Viewport returns the raw-pixel viewport for these bounds.
func (b Bounds) Viewport() image.Point {
	return image.Point{
		X: int(math.Round(float64(b.Size.X) * float64(b.Scale))),
		Y: int(math.Round(float64(b.Size.Y) * float64(b.Scale))),
	}
}

// Overlay is drawn above the video after the decoder render, inside
// the GPU lock with the window draw target bound. Used by the
// picture-in-picture control chrome; nil everywhere else.
type Overlay interface {
	Draw(viewport image.Point)
}

// Surface is the GPU-backed drawable embedded in the window tree.
// It draws for whichever window it is currently assigned to, which
// changes across picture-in-picture transitions.
type Surface struct {
	cx *gpu.Context
	br *decoder.Bridge
	gl GL

	mu      sync.Mutex
	win     system.Window
	bounds  Bounds
	overlay Overlay
	colors  ColorState
}

// ColorState is the presentation color configuration of the surface,
// owned by the dynamic range manager.
type ColorState struct {
	// ExtendedRange is whether the surface presents in extended
	// dynamic range (HDR) mode.
	ExtendedRange bool

	// Colorspace tags the surface output.
	Colorspace system.Colorspace

	// HostColorManaged is whether the host's ICC auto-correction is
	// applied. Disabled in HDR so the decoder targets the display's
	// native transfer function directly.
	HostColorManaged bool
}

// NewSurface returns a surface rendering the given bridge's decoder
// under the given GPU context. No window is assigned yet.
func NewSurface(cx *gpu.Context, br *decoder.Bridge) *Surface {
	return &Surface{
		cx: cx,
		br: br,
		gl: realGL{},
		colors: ColorState{
			Colorspace:       system.ColorspaceSRGB,
			HostColorManaged: true,
		},
	}
}

// SetGL replaces the surface's GL backend. Used by headless tests;
// production code keeps the default.
func (sf *Surface) SetGL(g GL) {
	sf.mu.Lock()
	sf.gl = g
	sf.mu.Unlock()
}

// SetWindow assigns the window whose draw target the surface presents
// into. Called on attach and across picture-in-picture transplants.
func (sf *Surface) SetWindow(w system.Window) {
	sf.mu.Lock()
	sf.win = w
	sf.mu.Unlock()
}

// Window returns the currently assigned window, or nil.
func (sf *Surface) Window() system.Window {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.win
}

// SetBounds updates the surface geometry. The next draw recomputes its
// viewport from these bounds.
func (sf *Surface) SetBounds(b Bounds) {
	sf.mu.Lock()
	sf.bounds = b
	sf.mu.Unlock()
}

// Bounds returns the current surface geometry.
func (sf *Surface) Bounds() Bounds {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.bounds
}

// SetOverlay sets the overlay drawn above the video, or nil for none.
func (sf *Surface) SetOverlay(ov Overlay) {
	sf.mu.Lock()
	sf.overlay = ov
	sf.mu.Unlock()
}

// CanDraw reports whether a draw is worthwhile for this tick: only
// when the decoder has announced a new frame. Polled on the clock
// thread every tick, so it makes no GPU calls and takes no locks.
func (sf *Surface) CanDraw(now time.Time) bool {
	return sf.br.FrameReadyPending()
}

// Draw renders one frame. It acquires the GPU context lock, binds the
// window-system-supplied draw target for this tick, clears to black,
// recomputes the viewport from current bounds (always overriding any
// viewport the window system cached before layout settled), and asks
// the decoder to render into a freshly built frame target. With no
// decoder attached it presents the black frame and returns; it never
// fails a draw.
func (sf *Surface) Draw(now time.Time) {
	sf.cx.Lock()
	defer sf.cx.Unlock()

	sf.mu.Lock()
	win := sf.win
	bounds := sf.bounds
	overlay := sf.overlay
	g := sf.gl
	sf.mu.Unlock()

	if win == nil {
		return
	}

	win.BindDrawTarget()
	g.ClearBlack()

	vp := bounds.Viewport()
	g.Viewport(vp)

	sf.br.ConsumeFrameReady()
	if !sf.br.Attached() {
		g.Flush()
		win.Present()
		return
	}

	t := decoder.FrameTarget{
		Framebuffer: win.DrawFramebufferID(),
		Width:       vp.X,
		Height:      vp.Y,
		FlipY:       true,
		ColorDepth:  sf.cx.ColorDepth(),
	}
	if err := sf.br.Render(t); err != nil && !errors.Is(err, decoder.ErrNoDecoder) {
		errors.Log(err)
	}
	if overlay != nil {
		overlay.Draw(vp)
	}

	g.Flush()
	win.Present()
	sf.br.ReportPresented()
}

// SetExtendedRange sets the extended-dynamic-range mode of the surface.
func (sf *Surface) SetExtendedRange(on bool) {
	sf.mu.Lock()
	sf.colors.ExtendedRange = on
	sf.mu.Unlock()
}

// SetColorspace tags the surface output with the given colorspace.
func (sf *Surface) SetColorspace(cs system.Colorspace) {
	sf.mu.Lock()
	sf.colors.Colorspace = cs
	sf.mu.Unlock()
}

// SetHostColorManaged enables or disables the host's ICC
// auto-correction for the surface.
func (sf *Surface) SetHostColorManaged(on bool) {
	sf.mu.Lock()
	sf.colors.HostColorManaged = on
	sf.mu.Unlock()
}

// ColorState returns the current presentation color configuration.
func (sf *Surface) ColorState() ColorState {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.colors
}

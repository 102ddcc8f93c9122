// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pip

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/prismplay/prismplay/decoder"
)

// Control colors.
var (
	colorControl = [4]float32{0.85, 0.85, 0.85, 1}
	colorPaused  = [4]float32{1, 1, 1, 1}
)

// chromeGL abstracts the scissored-clear call the overlay draws its
// controls with, so headless tests can record instead of calling GL.
type chromeGL interface {
	ScissorClear(r image.Rectangle, vp image.Point, c [4]float32)
}

type realChromeGL struct{}

// ScissorClear fills r (top-left origin, raw pixels) within the vp
// viewport. GL scissor rects are bottom-left origin, hence the flip.
func (realChromeGL) ScissorClear(r image.Rectangle, vp image.Point, c [4]float32) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(r.Min.X), int32(vp.Y-r.Max.Y), int32(r.Dx()), int32(r.Dy()))
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)
}

// Overlay is the floating window's control chrome: a play-pause
// control and a close control composited above the video. It
// implements [compositor.Overlay] and is drawn inside the GPU lock
// after the decoder render.
type Overlay struct {
	br   *decoder.Bridge
	gl   chromeGL
	exit func()
}

// NewOverlay returns the control chrome for the given bridge. The
// exit callback is installed by [NewManager].
func NewOverlay(br *decoder.Bridge) *Overlay {
	return &Overlay{br: br, gl: realChromeGL{}}
}

// controlRects returns the play-pause and exit control rectangles for
// a drawable of the given size. Everything is proportional to the
// height, so the same layout holds in window-manager units (hit
// testing) and raw pixels (drawing).
func controlRects(size image.Point) (playPause, exit image.Rectangle) {
	side := size.Y / 6
	inset := size.Y / 12
	playPause = image.Rect(
		(size.X-side)/2, size.Y-inset-side,
		(size.X+side)/2, size.Y-inset,
	)
	exit = image.Rect(size.X-inset-side, inset, size.X-inset, inset+side)
	return
}

// Draw composites the controls above the video frame. Called by the
// surface with the GPU lock held and the viewport in raw pixels.
func (ov *Overlay) Draw(vp image.Point) {
	play, exit := controlRects(vp)
	c := colorControl
	if ov.br.Paused() {
		c = colorPaused
	}
	ov.gl.ScissorClear(play, vp, c)
	ov.gl.ScissorClear(exit, vp, colorControl)
}

// Click hit-tests a pointer press against the controls, with pos and
// size in window-manager units. It reports whether a control consumed
// the click.
func (ov *Overlay) Click(pos image.Point, size image.Point) bool {
	play, exit := controlRects(size)
	switch {
	case pos.In(exit):
		if ov.exit != nil {
			ov.exit()
		}
		return true
	case pos.In(play):
		ov.br.TogglePlayPause()
		return true
	}
	return false
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pip

import (
	"image"
	"testing"

	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordChrome records scissored clears in order.
type recordChrome struct {
	rects  []image.Rectangle
	colors [][4]float32
}

func (g *recordChrome) ScissorClear(r image.Rectangle, vp image.Point, c [4]float32) {
	g.rects = append(g.rects, r)
	g.colors = append(g.colors, c)
}

// chromeDecoder exposes pause state and records toggles.
type chromeDecoder struct {
	paused  bool
	toggles int
}

func (d *chromeDecoder) InitializeRendering(cx *gpu.Context) error           { return nil }
func (d *chromeDecoder) Render(t decoder.FrameTarget) error                  { return nil }
func (d *chromeDecoder) ReportPresented()                                    {}
func (d *chromeDecoder) SetProperty(name string, value any) error            { return nil }
func (d *chromeDecoder) TogglePlayPause()                                    { d.toggles++; d.paused = !d.paused }
func (d *chromeDecoder) SetFrameReadyFunc(f func())                          {}
func (d *chromeDecoder) SetColorMetadataFunc(f func(p decoder.ColorProfile)) {}
func (d *chromeDecoder) Close() error                                        { return nil }

func (d *chromeDecoder) GetProperty(name string) (any, bool) {
	if name == decoder.PropPaused {
		return d.paused, true
	}
	return nil, false
}

func newChromeOverlay(t *testing.T) (*Overlay, *chromeDecoder, *recordChrome) {
	br := decoder.NewBridge(&gpu.Context{})
	dec := &chromeDecoder{}
	require.NoError(t, br.SetDecoder(dec))
	ov := NewOverlay(br)
	rec := &recordChrome{}
	ov.gl = rec
	return ov, dec, rec
}

func TestDrawPaintsBothControls(t *testing.T) {
	ov, _, rec := newChromeOverlay(t)
	vp := image.Pt(960, 540)

	ov.Draw(vp)

	play, exit := controlRects(vp)
	require.Len(t, rec.rects, 2)
	assert.Equal(t, play, rec.rects[0])
	assert.Equal(t, exit, rec.rects[1])
	assert.Equal(t, colorControl, rec.colors[0])
}

func TestDrawHighlightsPlayControlWhenPaused(t *testing.T) {
	ov, dec, rec := newChromeOverlay(t)
	dec.paused = true

	ov.Draw(image.Pt(960, 540))

	assert.Equal(t, colorPaused, rec.colors[0])
	assert.Equal(t, colorControl, rec.colors[1])
}

func TestClickOnPlayControlToggles(t *testing.T) {
	ov, dec, _ := newChromeOverlay(t)
	size := image.Pt(480, 270)
	play, _ := controlRects(size)

	assert.True(t, ov.Click(play.Min.Add(play.Max).Div(2), size))
	assert.Equal(t, 1, dec.toggles)
}

func TestClickOutsideControlsIsNotConsumed(t *testing.T) {
	ov, dec, _ := newChromeOverlay(t)

	assert.False(t, ov.Click(image.Pt(5, 5), image.Pt(480, 270)))
	assert.Equal(t, 0, dec.toggles)
}

func TestControlRectsStayInBounds(t *testing.T) {
	for _, size := range []image.Point{{480, 270}, {1920, 1080}, {200, 80}} {
		play, exit := controlRects(size)
		full := image.Rectangle{Max: size}
		assert.True(t, play.In(full), "play %v in %v", play, size)
		assert.True(t, exit.In(full), "exit %v in %v", exit, size)
		assert.False(t, play.Overlaps(exit))
	}
}

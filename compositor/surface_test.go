// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compositor

import (
	"image"
	"testing"
	"time"

	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/gpu"
	"github.com/prismplay/prismplay/system"
	"github.com/prismplay/prismplay/system/offscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordGL records the GL operations a draw issues, in order.
type recordGL struct {
	ops       []string
	viewports []image.Point
}

func (g *recordGL) ClearBlack() { g.ops = append(g.ops, "clear") }
func (g *recordGL) Viewport(size image.Point) {
	g.ops = append(g.ops, "viewport")
	g.viewports = append(g.viewports, size)
}
func (g *recordGL) Flush() { g.ops = append(g.ops, "flush") }

// renderRecorder is a minimal decoder recording render calls.
type renderRecorder struct {
	targets   []decoder.FrameTarget
	presented int
}

func (d *renderRecorder) InitializeRendering(cx *gpu.Context) error { return nil }
func (d *renderRecorder) Render(t decoder.FrameTarget) error {
	d.targets = append(d.targets, t)
	return nil
}
func (d *renderRecorder) ReportPresented()                                { d.presented++ }
func (d *renderRecorder) GetProperty(string) (any, bool)                  { return nil, false }
func (d *renderRecorder) SetProperty(string, any) error                   { return nil }
func (d *renderRecorder) TogglePlayPause()                                {}
func (d *renderRecorder) SetFrameReadyFunc(func())                        {}
func (d *renderRecorder) SetColorMetadataFunc(func(decoder.ColorProfile)) {}
func (d *renderRecorder) Close() error                                    { return nil }

func newTestSurface(t *testing.T) (*Surface, *recordGL, *offscreen.Window, *decoder.Bridge) {
	t.Helper()
	app := offscreen.NewApp()
	win, err := app.NewWindow(nil)
	require.NoError(t, err)
	ow := win.(*offscreen.Window)
	ow.FramebufferID = 7

	br := decoder.NewBridge(&gpu.Context{})
	sf := NewSurface(&gpu.Context{}, br)
	rec := &recordGL{}
	sf.gl = rec
	sf.SetWindow(win)
	return sf, rec, ow, br
}

func TestViewportTracksBounds(t *testing.T) {
	// the viewport used by the next draw equals newBounds.Size * scale
	// for every resize, regardless of what was cached before.
	sf, rec, _, _ := newTestSurface(t)

	sizes := []image.Point{{1280, 720}, {1920, 1080}, {301, 170}}
	for _, sz := range sizes {
		sf.SetBounds(Bounds{Size: sz, Scale: 2})
		sf.Draw(time.Now())
	}
	require.Len(t, rec.viewports, len(sizes))
	for i, sz := range sizes {
		assert.Equal(t, sz.Mul(2), rec.viewports[i])
	}
}

func TestViewportRounding(t *testing.T) {
	b := Bounds{Size: image.Pt(641, 361), Scale: 1.5}
	assert.Equal(t, image.Pt(962, 542), b.Viewport())
}

func TestDrawNoDecoderIsBlackFrame(t *testing.T) {
	// no decoder attached: a solid black frame is presented,
	// nothing panics, and no render call is attempted.
	sf, rec, win, _ := newTestSurface(t)
	sf.SetBounds(Bounds{Size: image.Pt(100, 50), Scale: 1})

	assert.NotPanics(t, func() { sf.Draw(time.Now()) })
	assert.Equal(t, []string{"clear", "viewport", "flush"}, rec.ops)
	assert.Equal(t, 1, win.Binds)
	assert.Equal(t, 1, win.Presents)
}

func TestDrawNoWindowIsNoop(t *testing.T) {
	br := decoder.NewBridge(&gpu.Context{})
	sf := NewSurface(&gpu.Context{}, br)
	rec := &recordGL{}
	sf.gl = rec
	assert.NotPanics(t, func() { sf.Draw(time.Now()) })
	assert.Empty(t, rec.ops)
}

func TestDrawBuildsFreshFrameTarget(t *testing.T) {
	sf, _, win, br := newTestSurface(t)
	dec := &renderRecorder{}
	require.NoError(t, br.SetDecoder(dec))

	sf.SetBounds(Bounds{Size: image.Pt(800, 450), Scale: 2})
	sf.Draw(time.Now())

	win.FramebufferID = 12 // window system rebinds a different target
	sf.SetBounds(Bounds{Size: image.Pt(400, 225), Scale: 1})
	sf.Draw(time.Now())

	require.Len(t, dec.targets, 2)
	assert.Equal(t, decoder.FrameTarget{
		Framebuffer: 7, Width: 1600, Height: 900, FlipY: true, ColorDepth: 0,
	}, dec.targets[0])
	assert.Equal(t, decoder.FrameTarget{
		Framebuffer: 12, Width: 400, Height: 225, FlipY: true, ColorDepth: 0,
	}, dec.targets[1])
	assert.Equal(t, 2, dec.presented)
	assert.Equal(t, 2, win.Binds) // draw target rebound per draw
}

func TestCanDrawFollowsFrameReady(t *testing.T) {
	sf, _, _, br := newTestSurface(t)
	dec := &renderRecorder{}
	var fire func()
	fdec := &frameReadyDecoder{renderRecorder: dec, hook: &fire}
	require.NoError(t, br.SetDecoder(fdec))

	assert.False(t, sf.CanDraw(time.Now()))
	fire()
	assert.True(t, sf.CanDraw(time.Now()))
	sf.Draw(time.Now()) // consumes the pending frame
	assert.False(t, sf.CanDraw(time.Now()))
}

// frameReadyDecoder exposes the registered frame-ready callback.
type frameReadyDecoder struct {
	*renderRecorder
	hook *func()
}

func (d *frameReadyDecoder) SetFrameReadyFunc(f func()) { *d.hook = f }

func TestOverlayDrawsAboveVideo(t *testing.T) {
	sf, rec, _, br := newTestSurface(t)
	require.NoError(t, br.SetDecoder(&renderRecorder{}))
	sf.SetBounds(Bounds{Size: image.Pt(320, 180), Scale: 1})

	var got image.Point
	sf.SetOverlay(overlayFunc(func(vp image.Point) { got = vp }))
	sf.Draw(time.Now())

	assert.Equal(t, image.Pt(320, 180), got)
	assert.Equal(t, []string{"clear", "viewport", "flush"}, rec.ops)
}

type overlayFunc func(image.Point)

func (f overlayFunc) Draw(vp image.Point) { f(vp) }

func TestColorState(t *testing.T) {
	sf, _, _, _ := newTestSurface(t)
	cs := sf.ColorState()
	assert.False(t, cs.ExtendedRange)
	assert.Equal(t, system.ColorspaceSRGB, cs.Colorspace)
	assert.True(t, cs.HostColorManaged)

	sf.SetExtendedRange(true)
	sf.SetColorspace(system.ColorspaceBT2020)
	sf.SetHostColorManaged(false)
	cs = sf.ColorState()
	assert.True(t, cs.ExtendedRange)
	assert.Equal(t, system.ColorspaceBT2020, cs.Colorspace)
	assert.False(t, cs.HostColorManaged)
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decoder

import (
	"testing"

	"github.com/prismplay/prismplay/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDecoder records bridge interactions; callbacks are fired
// manually by tests, standing in for decoder threads.
type fakeDecoder struct {
	frameReady  func()
	colorChange func(ColorProfile)
	rendered    []FrameTarget
	presented   int
	paused      bool
	toggled     int
	icc         []byte
	initialized bool
}

func (d *fakeDecoder) InitializeRendering(cx *gpu.Context) error {
	d.initialized = true
	return nil
}

func (d *fakeDecoder) Render(t FrameTarget) error {
	d.rendered = append(d.rendered, t)
	return nil
}

func (d *fakeDecoder) ReportPresented() { d.presented++ }

func (d *fakeDecoder) GetProperty(name string) (any, bool) {
	if name == PropPaused {
		return d.paused, true
	}
	return nil, false
}

func (d *fakeDecoder) SetProperty(name string, value any) error {
	if name == PropICCProfile {
		d.icc = value.([]byte)
	}
	return nil
}

func (d *fakeDecoder) TogglePlayPause()                            { d.toggled++ }
func (d *fakeDecoder) SetFrameReadyFunc(f func())                  { d.frameReady = f }
func (d *fakeDecoder) SetColorMetadataFunc(f func(p ColorProfile)) { d.colorChange = f }
func (d *fakeDecoder) Close() error                                { return nil }

func newTestBridge(t *testing.T) (*Bridge, *fakeDecoder) {
	t.Helper()
	br := NewBridge(&gpu.Context{})
	dec := &fakeDecoder{}
	require.NoError(t, br.SetDecoder(dec))
	return br, dec
}

func TestBridgeInitializesUnderLock(t *testing.T) {
	br, dec := newTestBridge(t)
	assert.True(t, dec.initialized)
	assert.True(t, br.Attached())
}

func TestFrameReadyCoalesces(t *testing.T) {
	br, dec := newTestBridge(t)
	assert.False(t, br.FrameReadyPending())

	for range 100 { // decoder announcing faster than we draw
		dec.frameReady()
	}
	assert.True(t, br.FrameReadyPending())
	assert.True(t, br.ConsumeFrameReady())
	assert.False(t, br.FrameReadyPending())
	assert.False(t, br.ConsumeFrameReady())
}

func TestEventQueueNeverBlocksDecoder(t *testing.T) {
	br, dec := newTestBridge(t)
	// no drainer: pushes beyond the queue depth must not block
	for i := range 1000 {
		dec.colorChange(ColorProfile{HDR: i%2 == 0, Primaries: "bt.2020"})
	}
	// newest events survive at the tail of the queue
	var last Event
	for {
		select {
		case e := <-br.Events():
			last = e
			continue
		default:
		}
		break
	}
	assert.Equal(t, ColorChanged, last.Kind)
	assert.Equal(t, "bt.2020", last.Profile.Primaries)
}

func TestRenderNoDecoder(t *testing.T) {
	br := NewBridge(&gpu.Context{})
	err := br.Render(FrameTarget{})
	assert.ErrorIs(t, err, ErrNoDecoder)
	assert.False(t, br.Paused())
	br.ReportPresented() // no-op, no panic
}

func TestRenderAndPresent(t *testing.T) {
	br, dec := newTestBridge(t)
	ft := FrameTarget{Framebuffer: 3, Width: 1920, Height: 1080, FlipY: true, ColorDepth: 8}
	require.NoError(t, br.Render(ft))
	br.ReportPresented()
	require.Len(t, dec.rendered, 1)
	assert.Equal(t, ft, dec.rendered[0])
	assert.Equal(t, 1, dec.presented)
}

func TestPauseAndICCForwarding(t *testing.T) {
	br, dec := newTestBridge(t)
	assert.False(t, br.Paused())
	dec.paused = true
	assert.True(t, br.Paused())

	br.TogglePlayPause()
	assert.Equal(t, 1, dec.toggled)

	br.SetICCProfile([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, dec.icc)
}

func TestDetach(t *testing.T) {
	br, _ := newTestBridge(t)
	br.Detach()
	assert.False(t, br.Attached())
	assert.False(t, br.FrameReadyPending())
	assert.ErrorIs(t, br.Render(FrameTarget{}), ErrNoDecoder)
}

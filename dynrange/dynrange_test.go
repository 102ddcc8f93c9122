// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynrange

import (
	"testing"

	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/gpu"
	"github.com/prismplay/prismplay/system"
	"github.com/stretchr/testify/assert"
)

// recordSurface records color configuration calls.
type recordSurface struct {
	extended bool
	cs       system.Colorspace
	managed  bool
	csSets   int
}

func (rs *recordSurface) SetExtendedRange(on bool) { rs.extended = on }

func (rs *recordSurface) SetColorspace(cs system.Colorspace) {
	rs.cs = cs
	rs.csSets++
}

func (rs *recordSurface) SetHostColorManaged(on bool) { rs.managed = on }

type fixedScreen struct {
	sc *system.Screen
}

func (fs *fixedScreen) Screen() *system.Screen { return fs.sc }

// iccDecoder records ICC profile forwarding; everything else is inert.
type iccDecoder struct {
	icc []byte
}

func (d *iccDecoder) InitializeRendering(cx *gpu.Context) error { return nil }
func (d *iccDecoder) Render(t decoder.FrameTarget) error        { return nil }
func (d *iccDecoder) ReportPresented()                          {}
func (d *iccDecoder) GetProperty(name string) (any, bool)       { return nil, false }
func (d *iccDecoder) TogglePlayPause()                          {}
func (d *iccDecoder) SetFrameReadyFunc(f func())                {}
func (d *iccDecoder) SetColorMetadataFunc(f func(p decoder.ColorProfile)) {
}
func (d *iccDecoder) Close() error { return nil }

func (d *iccDecoder) SetProperty(name string, value any) error {
	if name == decoder.PropICCProfile {
		d.icc = value.([]byte)
	}
	return nil
}

func newTestManager(sc *system.Screen) (*Manager, *recordSurface, *iccDecoder) {
	rs := &recordSurface{}
	dec := &iccDecoder{}
	br := decoder.NewBridge(&gpu.Context{})
	if err := br.SetDecoder(dec); err != nil {
		panic(err)
	}
	return NewManager(rs, &fixedScreen{sc: sc}, br), rs, dec
}

func TestHDRTransition(t *testing.T) {
	dm, rs, _ := newTestManager(nil)

	dm.Apply(decoder.ColorProfile{HDR: true, Transfer: "pq", Primaries: "bt.2020"})

	assert.Equal(t, HDR, dm.State())
	assert.True(t, rs.extended)
	assert.Equal(t, system.ColorspaceBT2020, rs.cs)
	assert.False(t, rs.managed)
}

func TestSDRUsesScreenColorspaceAndICC(t *testing.T) {
	sc := &system.Screen{
		Colorspace: system.ColorspaceDisplayP3,
		ICCProfile: []byte{0xca, 0xfe},
	}
	dm, rs, dec := newTestManager(sc)

	dm.Apply(decoder.ColorProfile{HDR: false})

	assert.Equal(t, SDR, dm.State())
	assert.False(t, rs.extended)
	assert.Equal(t, system.ColorspaceDisplayP3, rs.cs)
	assert.True(t, rs.managed)
	assert.Equal(t, []byte{0xca, 0xfe}, dec.icc)
}

func TestSDRWithoutScreenFallsBackToSRGB(t *testing.T) {
	dm, rs, dec := newTestManager(nil)

	dm.Apply(decoder.ColorProfile{HDR: false})

	assert.Equal(t, system.ColorspaceSRGB, rs.cs)
	assert.Nil(t, dec.icc)
}

// Bouncing HDR -> SDR -> HDR with identical metadata must land in the
// same configuration as a single HDR entry.
func TestTransitionsAreIdempotent(t *testing.T) {
	sc := &system.Screen{Colorspace: system.ColorspaceSRGB}
	dm, rs, _ := newTestManager(sc)

	hdr := decoder.ColorProfile{HDR: true, Transfer: "pq", Primaries: "bt.2020"}

	dm.Apply(hdr)
	once := *rs

	dm.Apply(decoder.ColorProfile{HDR: false})
	dm.Apply(hdr)

	assert.Equal(t, once.extended, rs.extended)
	assert.Equal(t, once.cs, rs.cs)
	assert.Equal(t, once.managed, rs.managed)
	assert.Equal(t, HDR, dm.State())
}

// An HDR stream with an unrecognized primaries tag still enters
// extended range but leaves the colorspace untouched.
func TestUnknownPrimariesKeepsColorspace(t *testing.T) {
	dm, rs, _ := newTestManager(nil)
	rs.cs = system.ColorspaceDisplayP3

	dm.Apply(decoder.ColorProfile{HDR: true, Transfer: "pq", Primaries: "bt.1886"})

	assert.Equal(t, HDR, dm.State())
	assert.True(t, rs.extended)
	assert.Equal(t, system.ColorspaceDisplayP3, rs.cs)
	assert.Equal(t, 0, rs.csSets)
}

func TestScreenChangedReappliesSDROnly(t *testing.T) {
	sc := &system.Screen{Colorspace: system.ColorspaceSRGB}
	fs := &fixedScreen{sc: sc}
	rs := &recordSurface{}
	br := decoder.NewBridge(&gpu.Context{})
	dm := NewManager(rs, fs, br)

	dm.Apply(decoder.ColorProfile{HDR: false})
	assert.Equal(t, system.ColorspaceSRGB, rs.cs)

	fs.sc = &system.Screen{Colorspace: system.ColorspaceDisplayP3}
	dm.ScreenChanged()
	assert.Equal(t, system.ColorspaceDisplayP3, rs.cs)

	// in HDR the screen move does not override the stream primaries
	dm.Apply(decoder.ColorProfile{HDR: true, Primaries: "bt.2020"})
	fs.sc = &system.Screen{Colorspace: system.ColorspaceSRGB}
	dm.ScreenChanged()
	assert.Equal(t, system.ColorspaceBT2020, rs.cs)
}

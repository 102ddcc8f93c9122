// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ffdec

import (
	"image"
	"testing"

	"github.com/prismplay/prismplay/decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterbox(t *testing.T) {
	tests := []struct {
		src, dst image.Point
		want     image.Rectangle
	}{
		{image.Pt(1920, 1080), image.Pt(1920, 1080), image.Rect(0, 0, 1920, 1080)},
		// wide target: pillarbox
		{image.Pt(1920, 1080), image.Pt(2560, 1080), image.Rect(320, 0, 2240, 1080)},
		// tall target: letterbox
		{image.Pt(1920, 1080), image.Pt(1920, 1200), image.Rect(0, 60, 1920, 1140)},
		{image.Pt(0, 0), image.Pt(640, 480), image.Rect(0, 0, 640, 480)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, letterbox(tt.src, tt.dst), "src %v dst %v", tt.src, tt.dst)
	}
}

func TestPauseProperty(t *testing.T) {
	d := &Decoder{}

	v, ok := d.GetProperty(decoder.PropPaused)
	require.True(t, ok)
	assert.False(t, v.(bool))

	d.TogglePlayPause()
	v, _ = d.GetProperty(decoder.PropPaused)
	assert.True(t, v.(bool))

	require.NoError(t, d.SetProperty(decoder.PropPaused, false))
	assert.False(t, d.pausedNow())

	assert.Error(t, d.SetProperty(decoder.PropPaused, "yes"))
}

func TestICCProperty(t *testing.T) {
	d := &Decoder{}
	icc := []byte{1, 2, 3}

	require.NoError(t, d.SetProperty(decoder.PropICCProfile, icc))
	v, ok := d.GetProperty(decoder.PropICCProfile)
	require.True(t, ok)
	assert.Equal(t, icc, v)
}

func TestUnknownProperty(t *testing.T) {
	d := &Decoder{}
	_, ok := d.GetProperty("volume")
	assert.False(t, ok)
	assert.Error(t, d.SetProperty("volume", 1.0))
}

func TestSnapshotScalesDown(t *testing.T) {
	d := &Decoder{}

	_, err := d.Snapshot(640)
	assert.ErrorIs(t, err, ErrNoFrame)

	d.last.Store(image.NewRGBA(image.Rect(0, 0, 1920, 1080)))

	out, err := d.Snapshot(640)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 360), out.Bounds())

	native, err := d.Snapshot(0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), native.Bounds())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/media.mp4")
	assert.Error(t, err)
}

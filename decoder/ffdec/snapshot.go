// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ffdec

import (
	"image"

	"github.com/prismplay/prismplay/base/errors"
	"golang.org/x/image/draw"
)

// ErrNoFrame is returned by [Decoder.Snapshot] before any frame has
// been decoded.
var ErrNoFrame = errors.New("ffdec: no frame decoded yet")

// Snapshot returns a copy of the most recently decoded frame, scaled
// down to at most maxWidth pixels wide (0 keeps the native size).
// It reads only CPU-side frame data and is safe from any goroutine.
func (d *Decoder) Snapshot(maxWidth int) (*image.RGBA, error) {
	frame := d.last.Load()
	if frame == nil {
		return nil, ErrNoFrame
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), frame, b, draw.Over, nil)
	return out, nil
}

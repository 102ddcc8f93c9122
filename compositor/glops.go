// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compositor

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GL is the small set of GL operations the surface issues itself
// (everything else is the decoder's). Headless tests substitute a
// recording implementation via [Surface.SetGL].
type GL interface {
	ClearBlack()
	Viewport(size image.Point)
	Flush()
}

type realGL struct{}

func (realGL) ClearBlack() {
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (realGL) Viewport(size image.Point) {
	gl.Viewport(0, 0, int32(size.X), int32(size.Y))
}

func (realGL) Flush() {
	gl.Flush()
}

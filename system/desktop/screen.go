// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package desktop

import (
	"image"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prismplay/prismplay/system"
)

// monitorScreen builds a [system.Screen] from a glfw monitor. glfw
// exposes no colorspace or ICC data, so screens report sRGB; the
// decoder's own tone mapping covers wide-gamut displays.
func monitorScreen(mon *glfw.Monitor, n int) *system.Screen {
	x, y := mon.GetPos()
	sx, _ := mon.GetContentScale()
	if sx <= 0 {
		sx = 1
	}
	sc := &system.Screen{
		ScreenNumber:     n,
		Name:             mon.GetName(),
		DevicePixelRatio: sx,
		RefreshRate:      60,
		Colorspace:       system.ColorspaceSRGB,
	}
	if mode := mon.GetVideoMode(); mode != nil {
		// mode dimensions are raw pixels; geometry is window-manager units
		w := int(float32(mode.Width) / sx)
		h := int(float32(mode.Height) / sx)
		sc.Geometry = image.Rect(x, y, x+w, y+h)
		if mode.RefreshRate > 0 {
			sc.RefreshRate = float32(mode.RefreshRate)
		}
	}
	return sc
}

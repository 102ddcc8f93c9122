// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package system

import "image"

// Colorspace identifies a platform colorspace a surface or screen
// can be tagged with. The dynamic range manager selects among these
// based on the primaries reported by the decoder.
type Colorspace int32

const (
	// ColorspaceSRGB is the standard-gamut sRGB colorspace,
	// the fallback default for SDR content.
	ColorspaceSRGB Colorspace = iota

	// ColorspaceDisplayP3 is the wide-gamut P3-class colorspace.
	ColorspaceDisplayP3

	// ColorspaceBT2020 is the wide-gamut 2020-class colorspace
	// used for HDR content.
	ColorspaceBT2020
)

func (cs Colorspace) String() string {
	switch cs {
	case ColorspaceDisplayP3:
		return "display-p3"
	case ColorspaceBT2020:
		return "bt.2020"
	default:
		return "srgb"
	}
}

// Screen contains the data about each physical or logical screen.
type Screen struct {
	// ScreenNumber is the index of this screen in the list of screens
	// maintained under Screen.
	ScreenNumber int

	// Name is the name of the screen, from the window system.
	Name string

	// Geometry contains the geometry of the screen in window-manager
	// size units, which may not be actual raw pixels.
	Geometry image.Rectangle

	// DevicePixelRatio is the factor that scales window-manager units
	// to raw pixels: the backing scale of views hosted on this screen.
	DevicePixelRatio float32

	// RefreshRate is the vertical refresh rate of the screen, in Hz.
	RefreshRate float32

	// Colorspace is the colorspace of the screen, used as the surface
	// colorspace for SDR content hosted on it.
	Colorspace Colorspace

	// ICCProfile is the ICC profile of this screen, if the window
	// system exposes one, forwarded to the decoder for SDR
	// self-correction. May be nil.
	ICCProfile []byte
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decoder defines the narrow, stable contract with the
// external media decoder, and the Bridge: the only code in the
// compositor that speaks the decoder's render API.
//
// The decoder is a trusted, independently-threaded black box. Its
// callbacks (frame ready, color metadata) arrive on decoder-owned
// threads; the Bridge marshals them onto a queue the UI thread drains
// on its own schedule, so no callback body ever touches view state.
package decoder

import "github.com/prismplay/prismplay/gpu"

// FrameTarget is a framebuffer descriptor handed to the decoder for
// one frame render. It is constructed fresh per draw from the current
// surface bounds and the window-system-provided draw target, passed
// by value, and never retained.
type FrameTarget struct {
	// Framebuffer is the id of the draw framebuffer the decoder must
	// render into. The window system owns it.
	Framebuffer uint32

	// Width and Height are the viewport dimensions in raw pixels.
	Width, Height int

	// FlipY indicates the target has a top-left origin and the decoder
	// must flip its output vertically.
	FlipY bool

	// ColorDepth is the negotiated color depth of the GPU context,
	// in bits per channel.
	ColorDepth int
}

// ColorProfile is the color metadata for the current stream segment,
// produced by the decoder out-of-band. It is replaced wholesale
// whenever the decoder reports a change, never partially mutated.
type ColorProfile struct {
	// HDR is whether the stream is high dynamic range.
	HDR bool

	// Transfer is the transfer-function tag, e.g. "pq", "hlg", "srgb".
	Transfer string

	// Primaries is the color-primaries tag, e.g. "bt.2020",
	// "display-p3", "bt.709".
	Primaries string
}

// Property names understood by [Decoder.GetProperty] and
// [Decoder.SetProperty].
const (
	// PropPaused is the pause-state query; its value is bool.
	PropPaused = "pause"

	// PropICCProfile is the ICC profile of the hosting screen,
	// forwarded to the decoder for SDR self-correction; []byte.
	PropICCProfile = "icc-profile"
)

// Decoder is the render API of the external media decoder.
//
// Render is synchronous and is always invoked under the GPU context
// lock with the target's window draw context bound. Callbacks set via
// SetFrameReadyFunc and SetColorMetadataFunc are delivered from
// decoder-owned threads and must not block.
type Decoder interface {

	// InitializeRendering hands the GPU context to the decoder once,
	// so it can create its internal GPU objects against the shared
	// context. Called under the GPU context lock.
	InitializeRendering(cx *gpu.Context) error

	// Render renders the current frame into the given target,
	// blocking until the decoder has written its pixels.
	Render(t FrameTarget) error

	// ReportPresented notifies the decoder that presentation of the
	// last rendered frame completed, for frame pacing and statistics.
	ReportPresented()

	// GetProperty returns the named decoder property, reporting
	// whether it is known.
	GetProperty(name string) (any, bool)

	// SetProperty sets the named decoder property.
	SetProperty(name string, value any) error

	// TogglePlayPause toggles the pause state of playback.
	TogglePlayPause()

	// SetFrameReadyFunc registers the callback invoked whenever a new
	// frame is ready for display.
	SetFrameReadyFunc(f func())

	// SetColorMetadataFunc registers the callback invoked whenever the
	// stream color metadata changes (new media segment, stream switch).
	SetColorMetadataFunc(f func(p ColorProfile))

	// Close stops the decoder and releases its resources.
	Close() error
}

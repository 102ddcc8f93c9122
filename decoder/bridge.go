// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decoder

import (
	"sync"
	"sync/atomic"

	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/gpu"
)

// ErrNoDecoder is returned by [Bridge.Render] when no decoder is
// attached. The compositor degrades to a black frame on this error
// rather than failing the draw.
var ErrNoDecoder = errors.New("decoder: no decoder attached")

// EventKind identifies a decoder event marshaled through the Bridge.
type EventKind int32

const (
	// FrameReady signals that a new frame is ready; the UI thread
	// should let the next clock tick redraw. The ready state itself
	// is level-triggered (see [Bridge.FrameReadyPending]); FrameReady
	// events only wake a sleeping drainer.
	FrameReady EventKind = iota

	// ColorChanged carries a replacement [ColorProfile] for the
	// dynamic range manager.
	ColorChanged
)

// Event is one decoder notification, delivered to the UI thread via
// [Bridge.Events].
type Event struct {
	Kind    EventKind
	Profile ColorProfile // valid for ColorChanged
}

// eventQueueDepth bounds the bridge event queue. Frame-ready events
// coalesce into the atomic pending flag, and color changes replace
// each other wholesale, so a shallow queue never loses state.
const eventQueueDepth = 16

// Bridge connects the compositor to one [Decoder]. It owns callback
// marshaling: decoder-thread callbacks do a non-blocking push onto the
// event queue, and the UI thread drains [Bridge.Events] on its own
// schedule. No dispatch-to-main calls live in callback bodies.
type Bridge struct {
	cx *gpu.Context

	mu  sync.Mutex
	dec Decoder

	// frameReady is set from the decoder's frame-ready callback and
	// consumed at draw time. Polled every clock tick; must stay cheap.
	frameReady atomic.Bool

	events chan Event
}

// NewBridge returns a Bridge for the given GPU context, with no
// decoder attached.
func NewBridge(cx *gpu.Context) *Bridge {
	return &Bridge{cx: cx, events: make(chan Event, eventQueueDepth)}
}

// SetDecoder attaches the decoder, registers the frame-ready and
// color-metadata callbacks, and hands the GPU context to the decoder
// under the context lock so it can create its internal GPU objects.
func (br *Bridge) SetDecoder(dec Decoder) error {
	br.mu.Lock()
	br.dec = dec
	br.mu.Unlock()

	dec.SetFrameReadyFunc(func() {
		br.frameReady.Store(true)
		br.push(Event{Kind: FrameReady})
	})
	dec.SetColorMetadataFunc(func(p ColorProfile) {
		br.push(Event{Kind: ColorChanged, Profile: p})
	})

	br.cx.Lock()
	defer br.cx.Unlock()
	return dec.InitializeRendering(br.cx)
}

// push enqueues without ever blocking a decoder thread. If the queue
// is full, the oldest event is dropped: frame-ready state survives in
// the atomic flag, and a newer color profile supersedes an older one.
func (br *Bridge) push(e Event) {
	for {
		select {
		case br.events <- e:
			return
		default:
		}
		select {
		case <-br.events:
		default:
		}
	}
}

// Events is the queue of decoder notifications. The UI thread drains
// it; see [EventKind] for handling.
func (br *Bridge) Events() <-chan Event {
	return br.events
}

// Detach disconnects the current decoder, if any, clearing its
// callbacks. The decoder itself is not closed; it belongs to the
// playback session.
func (br *Bridge) Detach() {
	br.mu.Lock()
	dec := br.dec
	br.dec = nil
	br.mu.Unlock()
	if dec != nil {
		dec.SetFrameReadyFunc(nil)
		dec.SetColorMetadataFunc(nil)
	}
	br.frameReady.Store(false)
}

// Attached reports whether a decoder is attached.
func (br *Bridge) Attached() bool {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.dec != nil
}

// FrameReadyPending reports whether the decoder has announced a frame
// that has not been drawn yet. It is polled every clock tick and makes
// no GPU calls.
func (br *Bridge) FrameReadyPending() bool {
	return br.frameReady.Load()
}

// ConsumeFrameReady clears and returns the pending frame-ready state.
// Called by the compositor at the start of a draw.
func (br *Bridge) ConsumeFrameReady() bool {
	return br.frameReady.Swap(false)
}

// Render issues the synchronous render call for one frame target.
// Must be called under the GPU context lock with the target's window
// draw context bound. Returns [ErrNoDecoder] when nothing is attached.
func (br *Bridge) Render(t FrameTarget) error {
	br.mu.Lock()
	dec := br.dec
	br.mu.Unlock()
	if dec == nil {
		return ErrNoDecoder
	}
	return dec.Render(t)
}

// ReportPresented forwards presentation-complete feedback to the
// decoder for frame pacing. A no-op with no decoder attached.
func (br *Bridge) ReportPresented() {
	br.mu.Lock()
	dec := br.dec
	br.mu.Unlock()
	if dec != nil {
		dec.ReportPresented()
	}
}

// Paused reports the decoder's pause state, used by the PiP overlay
// controls. False with no decoder attached.
func (br *Bridge) Paused() bool {
	br.mu.Lock()
	dec := br.dec
	br.mu.Unlock()
	if dec == nil {
		return false
	}
	v, ok := dec.GetProperty(PropPaused)
	if !ok {
		return false
	}
	paused, _ := v.(bool)
	return paused
}

// TogglePlayPause forwards a play-pause intent to the decoder.
func (br *Bridge) TogglePlayPause() {
	br.mu.Lock()
	dec := br.dec
	br.mu.Unlock()
	if dec != nil {
		dec.TogglePlayPause()
	}
}

// SetICCProfile forwards the hosting screen's ICC profile to the
// decoder so it can self-correct SDR output.
func (br *Bridge) SetICCProfile(icc []byte) {
	br.mu.Lock()
	dec := br.dec
	br.mu.Unlock()
	if dec != nil {
		errors.Log(dec.SetProperty(PropICCProfile, icc))
	}
}

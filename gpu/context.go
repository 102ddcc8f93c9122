// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu owns the single OpenGL rendering context for a playback
// session, and the lock that gates every GPU call in the compositor.
//
// The context is created against a small hidden window, and every
// visible window shares GPU objects with it (the share-window idiom),
// so the context outlives any individual host view: relocating the
// live video surface between windows never requires re-creating the
// context or the decoder's GPU objects.
package gpu

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prismplay/prismplay/base/errors"
)

// ErrNoPixelFormat is returned when no usable pixel format can be
// negotiated with the window system. Callers should fail the playback
// session and report hardware rendering unavailable; the host
// application keeps running.
var ErrNoPixelFormat = errors.New("gpu: hardware rendering unavailable: no usable pixel format")

// Color depths negotiated by [New], in bits per channel.
const (
	// DepthStandard is standard 8-bit-per-channel precision.
	DepthStandard = 8

	// DepthExtended is extended 16-bit floating-point-per-channel
	// precision, used for HDR output when the display path supports it.
	DepthExtended = 16
)

// Context is the GPU rendering context for one playback session.
// Exactly one Context exists per running session.
//
// All GPU calls anywhere in the system must occur between [Context.Lock]
// and [Context.Unlock], and must bind their window-supplied draw target
// inside that scope rather than relying on a previously bound one.
type Context struct {
	// mu gates all GPU calls; see [Context.Lock].
	mu sync.Mutex

	// share is the hidden context-holder window. All visible windows
	// are created sharing GPU objects with it.
	share *glfw.Window

	// colorDepth is the negotiated color depth in bits per channel:
	// [DepthExtended] or [DepthStandard]. It is forwarded to the
	// decoder on every frame render call.
	colorDepth int
}

// New negotiates a pixel format and creates the GPU context for a
// playback session. It attempts extended-precision (16-bit float
// color) first and transparently retries with the standard 8-bit
// format on failure. Double buffering and a swap interval of 1
// (vertical sync) are always enabled, because the decoder renders
// from its own thread concurrently with presentation.
//
// glfw must already be initialized, and New must be called on the
// main thread. If no pixel format at all can be created, New returns
// an error wrapping [ErrNoPixelFormat]; it never terminates the host.
func New() (*Context, error) {
	share, depth, err := createShareWindow(DepthExtended)
	if err != nil {
		share, depth, err = createShareWindow(DepthStandard)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPixelFormat, err)
	}
	cx := &Context{share: share, colorDepth: depth}

	share.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		share.Destroy()
		glfw.DetachCurrentContext()
		return nil, fmt.Errorf("gpu: initializing GL on new context: %w", err)
	}
	// vsync: present waits for the display refresh.
	glfw.SwapInterval(1)
	glfw.DetachCurrentContext()
	return cx, nil
}

// createShareWindow creates the hidden context-holder window with the
// given color depth per channel, returning the depth actually used.
func createShareWindow(depth int) (*glfw.Window, int, error) {
	applyHints(depth)
	w, err := glfw.CreateWindow(16, 16, "prismplay context", nil, nil)
	if err != nil {
		return nil, 0, err
	}
	return w, depth, nil
}

// applyHints sets the glfw window hints for the given color depth.
// The core-profile, forward-compatible 4.1 context is the newest one
// available on every desktop platform the client ships on.
func applyHints(depth int) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.RedBits, depth)
	glfw.WindowHint(glfw.GreenBits, depth)
	glfw.WindowHint(glfw.BlueBits, depth)
	glfw.WindowHint(glfw.AlphaBits, depth)
}

// ApplyWindowHints sets the glfw window hints so that a window created
// next matches this context's negotiated pixel format. The platform
// drivers call this before creating each visible window.
func (cx *Context) ApplyWindowHints() {
	applyHints(cx.colorDepth)
}

// ShareWindow returns the hidden window holding the shared context.
// Visible windows pass it as the share parameter at creation so the
// decoder's GPU objects are usable against every draw target.
func (cx *Context) ShareWindow() *glfw.Window {
	return cx.share
}

// ColorDepth returns the negotiated color depth in bits per channel,
// [DepthExtended] or [DepthStandard].
func (cx *Context) ColorDepth() int {
	return cx.colorDepth
}

// Lock acquires the GPU context lock. Any code path that binds or
// issues commands against the GPU context must hold it for the
// duration: draw, decoder render-context initialization, teardown.
func (cx *Context) Lock() {
	cx.mu.Lock()
}

// Unlock releases the GPU context lock.
func (cx *Context) Unlock() {
	cx.mu.Unlock()
}

// Release destroys the context-holder window. It must be called on
// the main thread, after all visible windows are closed, under Lock.
func (cx *Context) Release() {
	if cx.share != nil {
		cx.share.Destroy()
		cx.share = nil
	}
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ffdec is the reference [decoder.Decoder]: it decodes local
// media files with ffmpeg (via reisen) and renders frames by blitting
// a shared texture into the window-supplied draw framebuffer.
//
// Decoding and frame pacing run on a decoder-owned goroutine; the
// only GPU work is the texture upload and blit inside Render, which
// the compositor always calls under the GPU context lock.
package ffdec

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/gpu"
	"github.com/zergon321/reisen"
)

// Option configures a Decoder at open time.
type Option func(d *Decoder)

// WithColorProfile sets the color profile the decoder reports for the
// stream. The container metadata reisen exposes has no transfer or
// primaries tags, so HDR test content declares its profile here.
func WithColorProfile(p decoder.ColorProfile) Option {
	return func(d *Decoder) {
		d.profile = p
	}
}

// Decoder decodes one media file and renders its frames.
type Decoder struct {
	media *reisen.Media
	vs    *reisen.VideoStream
	cx    *gpu.Context

	mu         sync.Mutex
	frameReady func()
	colorFunc  func(p decoder.ColorProfile)
	profile    decoder.ColorProfile
	icc        []byte
	paused     bool
	playing    bool
	stop       chan struct{}

	// pending is the most recently decoded frame, awaiting upload on
	// the next Render; last also survives the upload, for snapshots.
	// Both written by the pacing goroutine.
	pending   atomic.Pointer[image.RGBA]
	last      atomic.Pointer[image.RGBA]
	presented atomic.Int64

	// GL state; valid between InitializeRendering and Close.
	tex        uint32
	texW, texH int
}

// Open opens the media file at path without starting playback.
func Open(path string, opts ...Option) (*Decoder, error) {
	media, err := reisen.NewMedia(path)
	if err != nil {
		return nil, errors.Wrap(err, "ffdec: opening media")
	}
	if err := media.OpenDecode(); err != nil {
		media.Close()
		return nil, errors.Wrap(err, "ffdec: opening decode session")
	}
	streams := media.VideoStreams()
	if len(streams) == 0 {
		media.Close()
		return nil, errors.New("ffdec: media has no video stream")
	}
	vs := streams[0]
	if err := vs.Open(); err != nil {
		media.Close()
		return nil, errors.Wrap(err, "ffdec: opening video stream")
	}
	d := &Decoder{
		media:   media,
		vs:      vs,
		profile: decoder.ColorProfile{Transfer: "srgb", Primaries: "bt.709"},
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// InitializeRendering creates the decoder's shared texture against the
// context holder. Called once by the bridge, under the GPU lock.
func (d *Decoder) InitializeRendering(cx *gpu.Context) error {
	d.mu.Lock()
	d.cx = cx
	d.mu.Unlock()

	// texture objects are shared with every window context
	cx.ShareWindow().MakeContextCurrent()
	gl.GenTextures(1, &d.tex)
	gl.BindTexture(gl.TEXTURE_2D, d.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Flush()
	glfw.DetachCurrentContext()
	return nil
}

// Play starts decoding and frame pacing, and reports the stream color
// profile. Frames are announced through the frame-ready callback at
// their presentation times.
func (d *Decoder) Play() {
	d.mu.Lock()
	if d.playing {
		d.mu.Unlock()
		return
	}
	d.playing = true
	colorFunc := d.colorFunc
	profile := d.profile
	d.mu.Unlock()

	if colorFunc != nil {
		colorFunc(profile)
	}
	go d.run()
}

// run is the decode and pacing loop.
func (d *Decoder) run() {
	epoch := time.Now()
	for {
		select {
		case <-d.stop:
			return
		default:
		}

		frame, offset, err := d.nextFrame()
		if err != nil {
			errors.Log(err)
			return
		}
		if frame == nil {
			return // end of stream
		}

		// pause shifts the epoch so resumed playback stays on pace
		for d.pausedNow() {
			select {
			case <-d.stop:
				return
			case <-time.After(20 * time.Millisecond):
				epoch = epoch.Add(20 * time.Millisecond)
			}
		}

		target := epoch.Add(offset)
		if wait := time.Until(target); wait > 0 {
			select {
			case <-d.stop:
				return
			case <-time.After(wait):
			}
		}

		d.pending.Store(frame)
		d.last.Store(frame)
		d.mu.Lock()
		ready := d.frameReady
		d.mu.Unlock()
		if ready != nil {
			ready()
		}
	}
}

// nextFrame decodes packets until the next video frame, returning the
// frame and its presentation offset. A nil frame means end of stream.
func (d *Decoder) nextFrame() (*image.RGBA, time.Duration, error) {
	for {
		packet, gotPacket, err := d.media.ReadPacket()
		if err != nil {
			return nil, 0, errors.Wrap(err, "ffdec: reading packet")
		}
		if !gotPacket {
			return nil, 0, nil
		}
		if packet.Type() != reisen.StreamVideo {
			continue
		}
		s, ok := d.media.Streams()[packet.StreamIndex()].(*reisen.VideoStream)
		if !ok || s != d.vs {
			continue
		}
		frame, gotFrame, err := s.ReadVideoFrame()
		if err != nil {
			return nil, 0, errors.Wrap(err, "ffdec: decoding frame")
		}
		if !gotFrame {
			return nil, 0, nil
		}
		if frame == nil {
			continue
		}
		offset, err := frame.PresentationOffset()
		if err != nil {
			return nil, 0, errors.Wrap(err, "ffdec: frame presentation offset")
		}
		return frame.Image(), offset, nil
	}
}

func (d *Decoder) pausedNow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Render uploads the pending frame, if any, and blits the current
// frame into the target framebuffer, letterboxed to preserve the
// stream aspect ratio. Called under the GPU lock with the target's
// window context bound.
func (d *Decoder) Render(t decoder.FrameTarget) error {
	if frame := d.pending.Swap(nil); frame != nil {
		d.upload(frame)
	}
	if d.texW == 0 || d.texH == 0 {
		return nil // nothing decoded yet; leave the cleared frame
	}

	// framebuffer objects are not shared across contexts, so the
	// read-side wrapper is created and discarded per blit
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, d.tex, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, t.Framebuffer)

	dst := letterbox(image.Pt(d.texW, d.texH), image.Pt(t.Width, t.Height))
	y0, y1 := int32(dst.Min.Y), int32(dst.Max.Y)
	if t.FlipY {
		y0, y1 = int32(t.Height-dst.Min.Y), int32(t.Height-dst.Max.Y)
	}
	gl.BlitFramebuffer(
		0, 0, int32(d.texW), int32(d.texH),
		int32(dst.Min.X), y0, int32(dst.Max.X), y1,
		gl.COLOR_BUFFER_BIT, gl.LINEAR,
	)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.DeleteFramebuffers(1, &fbo)
	return nil
}

// upload transfers one decoded frame into the shared texture,
// reallocating on size change.
func (d *Decoder) upload(frame *image.RGBA) {
	b := frame.Bounds()
	gl.BindTexture(gl.TEXTURE_2D, d.tex)
	if b.Dx() != d.texW || b.Dy() != d.texH {
		d.texW, d.texH = b.Dx(), b.Dy()
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(d.texW), int32(d.texH),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(d.texW), int32(d.texH),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// letterbox fits src into dst preserving aspect, centered.
func letterbox(src, dst image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return image.Rectangle{Max: dst}
	}
	w, h := dst.X, src.Y*dst.X/src.X
	if h > dst.Y {
		w, h = src.X*dst.Y/src.Y, dst.Y
	}
	x := (dst.X - w) / 2
	y := (dst.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// ReportPresented counts completed presentations, for pacing
// statistics.
func (d *Decoder) ReportPresented() {
	d.presented.Add(1)
}

// Presented returns the number of frames presented so far.
func (d *Decoder) Presented() int64 {
	return d.presented.Load()
}

// GetProperty implements [decoder.Decoder].
func (d *Decoder) GetProperty(name string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch name {
	case decoder.PropPaused:
		return d.paused, true
	case decoder.PropICCProfile:
		return d.icc, true
	}
	return nil, false
}

// SetProperty implements [decoder.Decoder].
func (d *Decoder) SetProperty(name string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch name {
	case decoder.PropPaused:
		paused, ok := value.(bool)
		if !ok {
			return errors.New("ffdec: pause property must be bool")
		}
		d.paused = paused
		return nil
	case decoder.PropICCProfile:
		icc, ok := value.([]byte)
		if !ok {
			return errors.New("ffdec: icc-profile property must be []byte")
		}
		d.icc = icc
		return nil
	}
	return errors.New("ffdec: unknown property " + name)
}

// TogglePlayPause implements [decoder.Decoder].
func (d *Decoder) TogglePlayPause() {
	d.mu.Lock()
	d.paused = !d.paused
	d.mu.Unlock()
}

// SetFrameReadyFunc implements [decoder.Decoder].
func (d *Decoder) SetFrameReadyFunc(f func()) {
	d.mu.Lock()
	d.frameReady = f
	d.mu.Unlock()
}

// SetColorMetadataFunc implements [decoder.Decoder].
func (d *Decoder) SetColorMetadataFunc(f func(p decoder.ColorProfile)) {
	d.mu.Lock()
	d.colorFunc = f
	d.mu.Unlock()
}

// Close stops the pacing goroutine and releases media and GL
// resources. The GL teardown runs against the share context under the
// GPU lock.
func (d *Decoder) Close() error {
	d.mu.Lock()
	playing := d.playing
	d.playing = false
	cx := d.cx
	d.mu.Unlock()

	if playing {
		close(d.stop)
	}
	if cx != nil && d.tex != 0 {
		cx.Lock()
		cx.ShareWindow().MakeContextCurrent()
		gl.DeleteTextures(1, &d.tex)
		d.tex = 0
		glfw.DetachCurrentContext()
		cx.Unlock()
	}
	d.vs.Close()
	d.media.CloseDecode()
	d.media.Close()
	return nil
}

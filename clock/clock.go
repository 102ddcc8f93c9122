// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clock provides the hardware clock: a display-refresh-paced
// tick source used only to request redraws. It carries no rendering
// logic itself.
package clock

import (
	"sync"
	"time"
)

// DefaultRefreshRate is used when the hosting screen's refresh rate
// is unknown.
const DefaultRefreshRate float32 = 60

// VsyncClock delivers ticks at the refresh rate of the screen hosting
// the playback view. Ticks are delivered on a dedicated goroutine that
// must do the minimum possible work: the tick function may only post a
// redraw request (see [system.App.GoRunOnMain]) and must never call
// into GPU or window APIs directly.
type VsyncClock struct {
	mu       sync.Mutex
	tick     func(now time.Time)
	interval time.Duration
	running  bool
	stop     chan struct{}
}

// New returns a clock ticking at the given refresh rate, calling tick
// on each cycle. A rate <= 0 uses [DefaultRefreshRate]. The clock is
// created stopped.
func New(refreshRate float32, tick func(now time.Time)) *VsyncClock {
	ck := &VsyncClock{tick: tick}
	ck.interval = intervalFor(refreshRate)
	return ck
}

func intervalFor(refreshRate float32) time.Duration {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	return time.Duration(float64(time.Second) / float64(refreshRate))
}

// Start starts tick delivery. Starting a running clock is a no-op.
func (ck *VsyncClock) Start() {
	ck.mu.Lock()
	defer ck.mu.Unlock()
	if ck.running {
		return
	}
	ck.running = true
	ck.stop = make(chan struct{})
	go ck.run(ck.interval, ck.stop)
}

// Stop stops tick delivery. Stopping a stopped clock is a no-op.
// A tick already in flight may still be delivered after Stop returns.
func (ck *VsyncClock) Stop() {
	ck.mu.Lock()
	defer ck.mu.Unlock()
	if !ck.running {
		return
	}
	ck.running = false
	close(ck.stop)
}

// Running reports whether the clock is currently delivering ticks.
func (ck *VsyncClock) Running() bool {
	ck.mu.Lock()
	defer ck.mu.Unlock()
	return ck.running
}

// SetRefreshRate updates the tick rate, restarting delivery if the
// clock is running. Called when the hosting window moves to a screen
// with a different refresh rate.
func (ck *VsyncClock) SetRefreshRate(refreshRate float32) {
	iv := intervalFor(refreshRate)
	ck.mu.Lock()
	if iv == ck.interval {
		ck.mu.Unlock()
		return
	}
	ck.interval = iv
	restart := ck.running
	if restart {
		close(ck.stop)
		ck.stop = make(chan struct{})
		go ck.run(iv, ck.stop)
	}
	ck.mu.Unlock()
}

func (ck *VsyncClock) run(interval time.Duration, stop chan struct{}) {
	tt := time.NewTicker(interval)
	defer tt.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-tt.C:
			ck.tick(now)
		}
	}
}

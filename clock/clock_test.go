// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartStop(t *testing.T) {
	var ticks atomic.Int64
	ck := New(500, func(time.Time) { ticks.Add(1) })
	assert.False(t, ck.Running())

	ck.Start()
	assert.True(t, ck.Running())
	ck.Start() // no-op
	assert.True(t, ck.Running())

	assert.Eventually(t, func() bool { return ticks.Load() > 0 },
		time.Second, time.Millisecond)

	ck.Stop()
	assert.False(t, ck.Running())
	ck.Stop() // no-op
	assert.False(t, ck.Running())

	n := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	// one in-flight tick is tolerated after Stop
	assert.LessOrEqual(t, ticks.Load(), n+1)
}

func TestSetRefreshRate(t *testing.T) {
	var ticks atomic.Int64
	ck := New(0, func(time.Time) { ticks.Add(1) })
	assert.Equal(t, intervalFor(DefaultRefreshRate), ck.interval)

	ck.Start()
	defer ck.Stop()
	ck.SetRefreshRate(1000)
	assert.Eventually(t, func() bool { return ticks.Load() > 5 },
		time.Second, time.Millisecond)

	// same rate is a no-op and must not stall delivery
	ck.SetRefreshRate(1000)
	n := ticks.Load()
	assert.Eventually(t, func() bool { return ticks.Load() > n },
		time.Second, time.Millisecond)
}

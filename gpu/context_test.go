// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextNegotiation(t *testing.T) {
	t.Skip("need a display")
	require.NoError(t, glfw.Init())
	defer glfw.Terminate()

	cx, err := New()
	require.NoError(t, err)
	defer cx.Release()

	assert.Contains(t, []int{DepthStandard, DepthExtended}, cx.ColorDepth())
	assert.NotNil(t, cx.ShareWindow())

	cx.Lock()
	cx.Unlock()
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Prismplay is a hardware-accelerated video player built on the
// prismplay compositor: vsync-paced presentation, HDR-aware color
// handling, and picture-in-picture.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

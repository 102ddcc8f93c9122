// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx configures the log/slog default logger for the
// compositor, with a user-settable verbosity level.
package logx

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// userLevel is the current user logging verbosity level.
var userLevel atomic.Int64

func init() {
	userLevel.Store(int64(defaultUserLevel))
}

// UserLevel returns the current user logging verbosity level.
// Messages below this level are not logged.
func UserLevel() slog.Level {
	return slog.Level(userLevel.Load())
}

// SetUserLevel sets the user logging verbosity level.
func SetUserLevel(level slog.Level) {
	userLevel.Store(int64(level))
	slog.SetLogLoggerLevel(level)
}

// Init installs a text handler on the default slog logger at the
// current user level. Applications embedding the compositor that
// configure slog themselves can skip this.
func Init() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: UserLevel()})
	slog.SetDefault(slog.New(h))
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/base/logx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys, settable by flag, environment (PRISMPLAY_*),
// or config file.
const (
	keyWidth        = "width"
	keyHeight       = "height"
	keyTitle        = "title"
	keyForceSDR     = "force-sdr"
	keyHDRPrimaries = "hdr-primaries"
	keySnapshotDir  = "snapshot-dir"
	keyVerbose      = "verbose"
)

var rootCmd = &cobra.Command{
	Use:   "prismplay <media-file>",
	Short: "Desktop video player with vsync-paced GPU presentation",
	Long: `Prismplay plays a media file in a resizable window, rendering
decoded frames on the GPU in sync with the display refresh. It follows
the stream's color metadata between standard and high dynamic range,
and supports picture-in-picture in a floating always-on-top window.

Keys:
  space   play / pause
  p       toggle picture-in-picture
  s       save a snapshot of the current frame
  escape  quit`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool(keyVerbose) {
			logx.SetUserLevel(slog.LevelDebug)
		}
		logx.Init()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(args[0])
	},
}

func init() {
	fl := rootCmd.Flags()
	fl.Int(keyWidth, 1280, "initial window width, in window-manager units")
	fl.Int(keyHeight, 720, "initial window height, in window-manager units")
	fl.String(keyTitle, "Prismplay", "window title")
	fl.Bool(keyForceSDR, false, "present in standard dynamic range even for HDR streams")
	fl.String(keyHDRPrimaries, "", "declare the stream as HDR with the given primaries tag (e.g. bt.2020)")
	fl.String(keySnapshotDir, ".", "directory snapshots are written to")
	fl.BoolP(keyVerbose, "v", false, "enable debug logging")

	for _, key := range []string{
		keyWidth, keyHeight, keyTitle, keyForceSDR,
		keyHDRPrimaries, keySnapshotDir, keyVerbose,
	} {
		errors.Must(viper.BindPFlag(key, fl.Lookup(key)))
	}

	viper.SetConfigName("prismplay")
	viper.SetConfigType("toml")
	viper.AddConfigPath("$HOME/.config/prismplay")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("prismplay")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Println("prismplay: reading config:", err)
		}
	}
}

// Copyright (c) 2026, Prismplay Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prismplay/prismplay/base/errors"
	"github.com/prismplay/prismplay/compositor"
	"github.com/prismplay/prismplay/decoder"
	"github.com/prismplay/prismplay/decoder/ffdec"
	"github.com/prismplay/prismplay/dynrange"
	"github.com/prismplay/prismplay/gpu"
	"github.com/prismplay/prismplay/hostview"
	"github.com/prismplay/prismplay/pip"
	"github.com/prismplay/prismplay/system"
	"github.com/prismplay/prismplay/system/desktop"
	"github.com/spf13/viper"
)

const snapshotWidth = 1280

// play runs one playback session: it owns the window system, the GPU
// context, the decoder, and the main loop. It must run on the main
// thread and returns when the user quits.
func play(path string) error {
	app, err := desktop.NewApp()
	if err != nil {
		if errors.Is(err, gpu.ErrNoPixelFormat) {
			return fmt.Errorf("hardware rendering unavailable on this system: %w", err)
		}
		return err
	}
	defer app.Release()

	win, err := app.NewWindow(&system.NewWindowOptions{
		Title:   viper.GetString(keyTitle),
		Size:    image.Pt(viper.GetInt(keyWidth), viper.GetInt(keyHeight)),
		Visible: true,
	})
	if err != nil {
		return errors.Wrap(err, "creating playback window")
	}

	br := decoder.NewBridge(app.GPU())
	sf := compositor.NewSurface(app.GPU(), br)
	hv := hostview.New(app, sf)
	dm := dynrange.NewManager(sf, hv, br)
	pm := pip.NewManager(app, hv, pip.NewOverlay(br))
	hv.SetScreenChangedFunc(func(sc *system.Screen) { dm.ScreenChanged() })

	dec, err := ffdec.Open(path, decoderOptions()...)
	if err != nil {
		return err
	}
	defer func() { errors.Log(dec.Close()) }()

	if err := br.SetDecoder(dec); err != nil {
		return errors.Wrap(err, "initializing decoder rendering")
	}
	defer br.Detach()

	hv.Attach(win, hostview.Layout{FillParent: true})
	defer hv.Detach()

	go drainEvents(br, dm)

	win.SetCloseRequestFunc(app.StopMain)
	win.SetKeyFunc(func(key string) {
		switch key {
		case "space":
			br.TogglePlayPause()
			hv.RedrawNow()
		case "p":
			if pm.State() == pip.InPiP {
				errors.Log(pm.Exit())
			} else {
				errors.Log(pm.Enter())
			}
		case "s":
			saveSnapshot(dec)
		case "escape":
			app.StopMain()
		}
	})

	dec.Play()
	app.MainLoop()

	slog.Info("playback session ended", "presented", dec.Presented())
	return nil
}

// decoderOptions builds the ffdec options from the configuration:
// forced SDR wins over a declared HDR profile.
func decoderOptions() []ffdec.Option {
	if viper.GetBool(keyForceSDR) {
		return []ffdec.Option{ffdec.WithColorProfile(decoder.ColorProfile{
			Transfer: "srgb", Primaries: "bt.709",
		})}
	}
	if primaries := viper.GetString(keyHDRPrimaries); primaries != "" {
		return []ffdec.Option{ffdec.WithColorProfile(decoder.ColorProfile{
			HDR: true, Transfer: "pq", Primaries: primaries,
		})}
	}
	return nil
}

// drainEvents consumes bridge notifications. Frame-ready state is
// level-triggered and polled by the clock, so only color changes need
// handling here.
func drainEvents(br *decoder.Bridge, dm *dynrange.Manager) {
	for ev := range br.Events() {
		if ev.Kind != decoder.ColorChanged {
			continue
		}
		p := ev.Profile
		if viper.GetBool(keyForceSDR) {
			p.HDR = false
		}
		dm.Apply(p)
		slog.Debug("color profile applied",
			"hdr", p.HDR, "transfer", p.Transfer, "primaries", p.Primaries)
	}
}

// saveSnapshot writes the current frame as a PNG into the configured
// snapshot directory.
func saveSnapshot(dec *ffdec.Decoder) {
	img, err := dec.Snapshot(snapshotWidth)
	if err != nil {
		errors.Log(err)
		return
	}
	name := filepath.Join(viper.GetString(keySnapshotDir),
		fmt.Sprintf("prismplay-%s.png", time.Now().Format("20060102-150405")))
	f, err := os.Create(name)
	if err != nil {
		errors.Log(err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		errors.Log(err)
		return
	}
	slog.Info("snapshot saved", "file", name)
}

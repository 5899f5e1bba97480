// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelcore-demo/main.go
// Summary: Demo binary: a shell panel and an optional code viewer side by side.
// Usage: texelcore-demo [-file path] [-shell cmd]

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/framegrace/texelcore/apps/clock"
	"github.com/framegrace/texelcore/apps/codeview"
	"github.com/framegrace/texelcore/apps/shellpanel"
	"github.com/framegrace/texelcore/config"
	"github.com/framegrace/texelcore/effects"
	"github.com/framegrace/texelcore/engine"
	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
	"github.com/framegrace/texelcore/store"
	"github.com/framegrace/texelcore/vt"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	filePath := flag.String("file", "", "source file to open in the viewer pane")
	shellCmd := flag.String("shell", "", "shell command (default $SHELL)")
	flag.Parse()

	cfg := config.System()
	if err := config.Err(); err != nil {
		log.Printf("Demo: config load degraded: %v", err)
	}

	backend := vt.NewBackend()
	e, err := engine.New(backend, engine.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer e.Close()

	// A panic with the terminal in raw mode leaves the session unreadable.
	defer func() {
		if r := recover(); r != nil {
			e.Close()
			vt.EmergencyReset(os.Stdout)
			panic(r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.Terminal().SetTitle("texelcore demo")

	size := e.Size()
	shellSize, viewSize, viewPos := split(size, *filePath != "")

	shellP := e.NewPanel(shellSize, geom.Point{}, 0)
	var viewP *panel.Panel
	if *filePath != "" {
		viewP = e.NewPanel(viewSize, viewPos, 0)
	}
	clockP := e.NewPanel(geom.Size{H: 1, W: 16}, clockPos(size), 10)

	st := openStore(cfg)
	if st != nil {
		defer st.Close()
		panels := []*panel.Panel{shellP}
		if viewP != nil {
			panels = append(panels, viewP)
		}
		panels = append(panels, clockP)
		if ok, rerr := e.RestoreLayout(st, panels); rerr != nil {
			log.Printf("Demo: layout restore failed: %v", rerr)
		} else if ok {
			log.Printf("Demo: restored previous session layout")
		}
	}

	shell := shellpanel.New(shellP)
	if err := shell.Start(*shellCmd); err != nil {
		return err
	}
	defer shell.Stop()

	var viewer *codeview.App
	if viewP != nil {
		viewer = codeview.New(viewP)
		if err := viewer.Load(*filePath); err != nil {
			return err
		}
	}

	clk := clock.New(clockP, e.Scheduler())
	clk.Start()
	defer clk.Stop()

	shellFocused := true
	if viewer != nil {
		e.SetPostComposite(func(frame *grid.Buffer) {
			// Dim whichever pane does not hold the focus.
			if shellFocused {
				effects.Dim(frame, viewP.Rect(), 0.4)
			} else {
				effects.Dim(frame, shellP.Rect(), 0.4)
			}
		})
	}

	err = e.Run(ctx, func(ev vt.Event) bool {
		switch {
		case ev.Type == vt.EventKey && ev.Key == vt.KeyRune && ev.Rune == 'q' && ev.Mods == vt.ModCtrl:
			return false
		case ev.Type == vt.EventResize:
			shellSize, viewSize, viewPos = split(e.Size(), viewer != nil)
			shell.Resize(shellSize)
			if viewer != nil {
				viewer.Resize(viewSize)
				viewP.MoveTo(viewPos.Y, viewPos.X)
			}
			pos := clockPos(e.Size())
			clockP.MoveTo(pos.Y, pos.X)
			return true
		case ev.Type == vt.EventKey && ev.Key == vt.KeyF2:
			if viewer != nil {
				shellFocused = !shellFocused
				e.Damage()
			}
			return true
		}

		if shellFocused || viewer == nil {
			shell.HandleEvent(ev)
		} else {
			viewer.HandleEvent(ev)
		}
		return true
	})
	if err == context.Canceled {
		err = nil
	}

	if st != nil {
		if serr := e.SaveSnapshot(st); serr != nil {
			log.Printf("Demo: snapshot save failed: %v", serr)
		}
	}
	return err
}

// split divides the screen between the shell and the viewer pane.
func split(size geom.Size, withViewer bool) (shell geom.Size, view geom.Size, viewPos geom.Point) {
	if !withViewer {
		return size, geom.Size{}, geom.Point{}
	}
	shellW := size.W / 2
	shell = geom.Size{H: size.H, W: shellW}
	view = geom.Size{H: size.H, W: size.W - shellW}
	viewPos = geom.Point{Y: 0, X: shellW}
	return
}

// clockPos pins the clock to the top-right corner.
func clockPos(size geom.Size) geom.Point {
	x := size.W - 16
	if x < 0 {
		x = 0
	}
	return geom.Point{Y: 0, X: x}
}

func openStore(cfg config.Config) *store.SnapshotStore {
	if !cfg.GetBool("session", "snapshot", false) {
		return nil
	}
	path := cfg.GetString("session", "snapshot_path", "")
	if path == "" {
		root, err := config.DataRoot()
		if err != nil {
			log.Printf("Demo: no data dir for snapshots: %v", err)
			return nil
		}
		path = filepath.Join(root, "layout.db")
	}
	st, err := store.Open(path)
	if err != nil {
		log.Printf("Demo: snapshot store unavailable: %v", err)
		return nil
	}
	return st
}

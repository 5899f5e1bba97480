// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: effects/effects_test.go
// Summary: Region tint and dim tests.

package effects

import (
	"testing"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

func TestTintFullReplacesColor(t *testing.T) {
	buf := grid.New(geom.Size{H: 2, W: 2})
	buf.Fill(grid.Cell{Rune: 'x', Fg: grid.RGB{R: 10, G: 20, B: 30}})

	target := grid.RGB{R: 200, G: 100, B: 50}
	Tint(buf, buf.Rect(), target, 1)

	got := buf.At(0, 0)
	if got.Fg != target || got.Bg != target {
		t.Errorf("full tint left fg=%+v bg=%+v, want %+v", got.Fg, got.Bg, target)
	}
	if got.Rune != 'x' {
		t.Error("tint must not touch cell text")
	}
}

func TestTintZeroAmountIsNoop(t *testing.T) {
	buf := grid.New(geom.Size{H: 1, W: 1})
	orig := grid.Cell{Rune: 'a', Fg: grid.RGB{R: 77}}
	buf.Set(0, 0, orig)

	Tint(buf, buf.Rect(), grid.RGB{G: 255}, 0)
	if buf.At(0, 0) != orig {
		t.Error("zero-amount tint modified the cell")
	}
}

func TestTintClipsToRegion(t *testing.T) {
	buf := grid.New(geom.Size{H: 3, W: 3})
	white := grid.RGB{R: 255, G: 255, B: 255}
	buf.Fill(grid.Cell{Fg: white, Bg: white})

	Dim(buf, geom.Rect{Top: 1, Bottom: 2, Left: 1, Right: 2}, 1)

	if got := buf.At(1, 1).Fg; got != (grid.RGB{}) {
		t.Errorf("inside cell not dimmed: %+v", got)
	}
	if got := buf.At(0, 0).Fg; got != white {
		t.Errorf("outside cell dimmed: %+v", got)
	}
}

func TestTintOutOfRangeRegion(t *testing.T) {
	buf := grid.New(geom.Size{H: 2, W: 2})
	// Entirely off the buffer: no panic, no change.
	Tint(buf, geom.Rect{Top: 5, Bottom: 8, Left: 5, Right: 8}, grid.RGB{R: 1}, 1)
	if buf.At(0, 0) != (grid.Cell{}) {
		t.Error("off-buffer tint modified cells")
	}
}

func TestDimDarkens(t *testing.T) {
	buf := grid.New(geom.Size{H: 1, W: 1})
	bright := grid.RGB{R: 200, G: 200, B: 200}
	buf.Set(0, 0, grid.Cell{Fg: bright})

	Dim(buf, buf.Rect(), 0.5)
	got := buf.At(0, 0).Fg
	if got.R >= bright.R || got.G >= bright.G || got.B >= bright.B {
		t.Errorf("half dim did not darken: %+v", got)
	}
	if got == (grid.RGB{}) {
		t.Error("half dim went fully black")
	}
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"testing"

	"github.com/framegrace/texelcore/geom"
)

func TestBufferSetAt(t *testing.T) {
	b := New(geom.Size{H: 3, W: 4})

	c := Cell{Rune: 'x', Fg: RGB{255, 0, 0}}
	b.Set(1, 2, c)
	if got := b.At(1, 2); got != c {
		t.Fatalf("At(1,2) = %+v, want %+v", got, c)
	}

	// Out-of-range writes are silent no-ops, reads return the zero cell.
	b.Set(-1, 0, c)
	b.Set(0, 99, c)
	b.Set(3, 0, c)
	if got := b.At(5, 5); got != (Cell{}) {
		t.Fatalf("out-of-range At = %+v, want zero cell", got)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if y == 1 && x == 2 {
				continue
			}
			if b.At(y, x) != (Cell{}) {
				t.Fatalf("unexpected write leaked to (%d,%d)", y, x)
			}
		}
	}
}

func TestBufferResizeDiscardsContent(t *testing.T) {
	b := New(geom.Size{H: 2, W: 2})
	b.Fill(Cell{Rune: 'a'})
	b.Resize(geom.Size{H: 4, W: 4})
	if b.Size() != (geom.Size{H: 4, W: 4}) {
		t.Fatalf("size = %+v", b.Size())
	}
	if b.At(0, 0) != (Cell{}) {
		t.Fatal("resize should discard old content")
	}
}

func TestBufferZeroSize(t *testing.T) {
	b := New(geom.Size{})
	if !b.Rect().Empty() {
		t.Fatal("zero-size buffer should have an empty rect")
	}
	b.Set(0, 0, Cell{Rune: 'x'}) // must not panic
	if b.Row(0) != nil {
		t.Fatal("Row on empty buffer should be nil")
	}
}

func TestWriteStringPlain(t *testing.T) {
	b := New(geom.Size{H: 1, W: 10})
	next := b.WriteString(0, 0, "abc", RGB{1, 2, 3}, RGB{}, AttrBold)
	if next != 3 {
		t.Fatalf("next column = %d, want 3", next)
	}
	for i, r := range "abc" {
		c := b.At(0, i)
		if c.Rune != r || c.Attrs != AttrBold || c.Fg != (RGB{1, 2, 3}) {
			t.Errorf("cell %d = %+v", i, c)
		}
	}
}

func TestWriteStringWide(t *testing.T) {
	b := New(geom.Size{H: 1, W: 6})
	next := b.WriteString(0, 0, "a世b", RGB{}, RGB{}, 0)
	if next != 4 {
		t.Fatalf("next column = %d, want 4", next)
	}
	if b.At(0, 1).Rune != '世' {
		t.Fatalf("cell 1 = %+v", b.At(0, 1))
	}
	if !b.At(0, 2).IsWideContinuation() {
		t.Fatalf("cell 2 should be a continuation, got %+v", b.At(0, 2))
	}
	if b.At(0, 3).Rune != 'b' {
		t.Fatalf("cell 3 = %+v", b.At(0, 3))
	}
}

func TestWriteStringWideClippedAtEdge(t *testing.T) {
	b := New(geom.Size{H: 1, W: 3})
	b.WriteString(0, 0, "ab世", RGB{}, RGB{}, 0)
	// The wide rune needs two cells but only one remains: dropped.
	if b.At(0, 2).Rune == '世' {
		t.Fatal("clipped wide rune should not be written")
	}
}

func TestWriteStringCombining(t *testing.T) {
	b := New(geom.Size{H: 1, W: 4})
	// "e" followed by COMBINING ACUTE ACCENT (decomposed) forms one cluster.
	b.WriteString(0, 0, "e\u0301x", RGB{}, RGB{}, 0)
	c := b.At(0, 0)
	if c.Rune != 'e' || c.Comb != "\u0301" {
		t.Fatalf("cluster cell = %+v", c)
	}
	if b.At(0, 1).Rune != 'x' {
		t.Fatalf("cell 1 = %+v", b.At(0, 1))
	}
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/buffer.go
// Summary: Fixed-size row-major cell grid backing panels and screens.

package grid

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/framegrace/texelcore/geom"
)

// Buffer is a fixed-size 2-D grid of cells addressed [row, col]. The size is
// immutable except through Resize, which discards all content.
type Buffer struct {
	size  geom.Size
	cells []Cell
}

// New creates a blank buffer. A zero-area size yields a valid, empty buffer.
func New(size geom.Size) *Buffer {
	if size.H < 0 || size.W < 0 {
		panic("grid: negative buffer size")
	}
	return &Buffer{size: size, cells: make([]Cell, size.H*size.W)}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() geom.Size {
	return b.size
}

// Rect returns the buffer's extent with its origin at (0, 0).
func (b *Buffer) Rect() geom.Rect {
	return geom.Rect{Top: 0, Bottom: b.size.H, Left: 0, Right: b.size.W}
}

// At returns the cell at (y, x), or a zero cell when out of range.
func (b *Buffer) At(y, x int) Cell {
	if y < 0 || y >= b.size.H || x < 0 || x >= b.size.W {
		return Cell{}
	}
	return b.cells[y*b.size.W+x]
}

// Set writes one cell. Out-of-range writes are silent no-ops.
func (b *Buffer) Set(y, x int, c Cell) {
	if y < 0 || y >= b.size.H || x < 0 || x >= b.size.W {
		return
	}
	b.cells[y*b.size.W+x] = c
}

// Row returns the backing slice for one row, or nil when out of range.
// Callers copy into it during compositing; it must not be retained across a
// Resize.
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.size.H {
		return nil
	}
	return b.cells[y*b.size.W : (y+1)*b.size.W]
}

// Fill sets every cell to c.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Resize replaces the backing grid with a blank one of the new size.
func (b *Buffer) Resize(size geom.Size) {
	if size.H < 0 || size.W < 0 {
		panic("grid: negative buffer size")
	}
	b.size = size
	b.cells = make([]Cell, size.H*size.W)
}

// WriteString writes s starting at (y, x) and returns the column after the
// last cell written. Text is segmented into grapheme clusters so combining
// marks stay attached to their base cell; full-width clusters occupy two
// cells, the second marked as a continuation. Writing stops at the right
// edge, and a full-width cluster that does not fit is dropped rather than
// split.
func (b *Buffer) WriteString(y, x int, s string, fg, bg RGB, attrs Attr) int {
	if y < 0 || y >= b.size.H {
		return x
	}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		w := runewidth.StringWidth(g.Str())
		if w <= 0 {
			// A bare combining mark attaches to the previous cell.
			if x > 0 && x-1 < b.size.W {
				prev := b.At(y, x-1)
				prev.Comb += g.Str()
				b.Set(y, x-1, prev)
			}
			continue
		}
		if x >= b.size.W {
			break
		}
		if w > 1 && x+1 >= b.size.W {
			break
		}
		cell := Cell{Rune: runes[0], Fg: fg, Bg: bg, Attrs: attrs}
		if len(runes) > 1 {
			cell.Comb = string(runes[1:])
		}
		b.Set(y, x, cell)
		if w > 1 {
			b.Set(y, x+1, Cell{Rune: WideContinuation, Fg: fg, Bg: bg, Attrs: attrs})
		}
		x += w
	}
	return x
}

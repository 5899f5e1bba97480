// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/encoder.go
// Summary: Diff-based frame encoder producing minimal escape output.
//
// The encoder keeps a baseline copy of the last frame it emitted plus the
// terminal's cursor and attribute state as left by its own output. A frame
// identical to the baseline encodes to zero bytes; a small change encodes to
// one cursor move, at most one style change and the changed cells. Runs of
// horizontally adjacent changes ride the cursor's natural advance and need
// no positioning at all.

package vt

import (
	"bytes"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

// Encoder turns composited frames into terminal escape output. It is not
// safe for concurrent use; the render loop owns it.
type Encoder struct {
	mode ColorMode
	size geom.Size
	last *grid.Buffer
	// valid is false whenever the baseline no longer reflects the real
	// screen (startup, resize, external corruption).
	valid bool
	out   bytes.Buffer

	curX, curY int
	curKnown   bool

	attrs      grid.Attr
	fg, bg     grid.RGB
	styleKnown bool
}

// NewEncoder returns an encoder with an empty baseline; the first Render is
// a full repaint.
func NewEncoder(mode ColorMode) *Encoder {
	return &Encoder{
		mode: mode,
		last: grid.New(geom.Size{}),
	}
}

// Size returns the frame size the encoder currently expects.
func (e *Encoder) Size() geom.Size { return e.size }

// Resize adapts the baseline to a new screen size. The next Render repaints
// everything.
func (e *Encoder) Resize(size geom.Size) {
	e.size = size
	e.last.Resize(size)
	e.Invalidate()
}

// Invalidate discards the baseline and wire state, forcing the next Render
// to repaint the full screen. Use after anything else may have written to
// the terminal.
func (e *Encoder) Invalidate() {
	e.valid = false
	e.curKnown = false
	e.styleKnown = false
}

// Render diffs the frame against the baseline and returns the escape bytes
// that update the terminal. The returned slice is reused by the next call.
// An unchanged frame returns an empty slice.
func (e *Encoder) Render(frame *grid.Buffer) []byte {
	if frame.Size() != e.size {
		e.Resize(frame.Size())
	}
	e.out.Reset()
	if e.size.IsZero() {
		return nil
	}

	if !e.valid {
		e.out.Write(csiClear)
		e.out.Write(csiSGR0)
		e.curX, e.curY = 0, 0
		e.curKnown = true
		// SGR0 activates the terminal's default colors, which need not be
		// black; leave the style unknown so the first painted cell emits
		// its colors even when they are zero.
		e.styleKnown = false
	}

	for y := 0; y < e.size.H; y++ {
		e.renderRow(y, frame.Row(y), e.last.Row(y))
	}

	for y := 0; y < e.size.H; y++ {
		copy(e.last.Row(y), frame.Row(y))
	}
	e.valid = true
	return e.out.Bytes()
}

// renderRow emits updates for one row. Wide runes are handled head-first: a
// change in either half repaints the head, and the shadow cell is skipped.
func (e *Encoder) renderRow(y int, row, base []grid.Cell) {
	w := len(row)
	x := 0
	for x < w {
		c := row[x]
		width := 1
		if !c.IsWideContinuation() && x+1 < w && row[x+1].IsWideContinuation() {
			width = 2
		}

		dirty := !e.valid || c != base[x]
		if width == 2 && !dirty {
			dirty = row[x+1] != base[x+1]
		}
		if dirty {
			e.paintCell(x, y, c, width)
		}
		x += width
	}
}

func (e *Encoder) paintCell(x, y int, c grid.Cell, width int) {
	e.moveTo(x, y)

	if c.Payload != "" {
		// Inline graphics pass through untouched. The sequence may leave
		// the cursor anywhere, so the wire position is unknown after it.
		e.out.WriteString(c.Payload)
		e.curKnown = false
		return
	}

	e.setStyle(c)

	r := c.Rune
	if r == 0 || c.IsWideContinuation() {
		// Blank, or an orphaned shadow cell whose head was clipped away.
		r = ' '
	}
	rw := runewidth.RuneWidth(r)
	if rw > width {
		// A wide head whose continuation was clipped or overwritten would
		// spill into the next column and desync the cursor arithmetic.
		r = ' '
		rw = 1
	}
	e.out.WriteRune(r)
	if c.Comb != "" {
		e.out.WriteString(c.Comb)
	}
	if rw < width {
		e.out.WriteByte(' ')
	}
	e.curX = x + width
}

// moveTo positions the wire cursor, exploiting the advance left by the
// previously painted cell.
func (e *Encoder) moveTo(x, y int) {
	if e.curKnown && y == e.curY {
		if x == e.curX {
			return
		}
		if x > e.curX {
			writeCursorForward(&e.out, x-e.curX)
			e.curX = x
			return
		}
	}
	writeCursorPos(&e.out, x, y)
	e.curX, e.curY = x, y
	e.curKnown = true
}

// setStyle brings the wire SGR state to the cell's style. Attribute changes
// reset and rebuild; pure color changes emit only the color sequences.
func (e *Encoder) setStyle(c grid.Cell) {
	if e.styleKnown && c.Attrs == e.attrs {
		if c.Fg != e.fg {
			e.writeFg(c.Fg)
			e.fg = c.Fg
		}
		if c.Bg != e.bg {
			e.writeBg(c.Bg)
			e.bg = c.Bg
		}
		return
	}

	e.out.Write(csi)
	e.out.WriteByte('0')
	if c.Attrs&grid.AttrBold != 0 {
		e.out.WriteString(";1")
	}
	if c.Attrs&grid.AttrDim != 0 {
		e.out.WriteString(";2")
	}
	if c.Attrs&grid.AttrItalic != 0 {
		e.out.WriteString(";3")
	}
	if c.Attrs&grid.AttrUnderline != 0 {
		e.out.WriteString(";4")
	}
	if c.Attrs&grid.AttrBlink != 0 {
		e.out.WriteString(";5")
	}
	if c.Attrs&grid.AttrReverse != 0 {
		e.out.WriteString(";7")
	}
	e.out.WriteByte('m')
	e.writeFg(c.Fg)
	e.writeBg(c.Bg)

	e.attrs = c.Attrs
	e.fg, e.bg = c.Fg, c.Bg
	e.styleKnown = true
}

func (e *Encoder) writeFg(c grid.RGB) {
	if e.mode == ColorModeTrueColor {
		e.out.Write(csiFgRGB)
		writeRGBParams(&e.out, c)
		return
	}
	e.out.Write(csiFg256)
	writeInt(&e.out, int(RGBTo256(c)))
	e.out.WriteByte('m')
}

func (e *Encoder) writeBg(c grid.RGB) {
	if e.mode == ColorModeTrueColor {
		e.out.Write(csiBgRGB)
		writeRGBParams(&e.out, c)
		return
	}
	e.out.Write(csiBg256)
	writeInt(&e.out, int(RGBTo256(c)))
	e.out.WriteByte('m')
}

func writeRGBParams(w *bytes.Buffer, c grid.RGB) {
	writeInt(w, int(c.R))
	w.WriteByte(';')
	writeInt(w, int(c.G))
	w.WriteByte(';')
	writeInt(w, int(c.B))
	w.WriteByte('m')
}

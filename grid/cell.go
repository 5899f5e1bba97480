// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/cell.go
// Summary: Styled character cells and their color/attribute types.

package grid

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Attr is a bitmask of text attributes.
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// WideContinuation marks the shadow cell to the right of a full-width rune.
// It is a Unicode noncharacter, so it can never collide with real text.
const WideContinuation rune = 0xFFFF

// Cell is one terminal cell. The zero value is a blank cell with black
// colors and no attributes; the encoder renders a zero Rune as a space.
//
// Comb carries any combining runes of the cell's grapheme cluster beyond the
// base rune. Payload, when non-empty, is an opaque inline-graphics blob
// (e.g. a sixel or kitty sequence) emitted verbatim at the cell's position;
// the compositor moves it around like any other cell.
type Cell struct {
	Rune    rune
	Comb    string
	Fg      RGB
	Bg      RGB
	Attrs   Attr
	Payload string
}

// IsWideContinuation reports whether the cell is the shadow half of a
// full-width rune.
func (c Cell) IsWideContinuation() bool {
	return c.Rune == WideContinuation
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: geom/geom.go
// Summary: Points, sizes and half-open rectangles in screen-cell space.

package geom

import "fmt"

// Point is a cell coordinate. Y comes first so that buffers indexed
// [row][col] can be addressed with it directly.
type Point struct {
	Y, X int
}

// Size is a rectangular extent in cells.
type Size struct {
	H, W int
}

// IsZero reports whether the size has no area.
func (s Size) IsZero() bool {
	return s.H <= 0 || s.W <= 0
}

// Rect is an axis-aligned rectangle with exclusive Bottom and Right.
// A rect with Top == Bottom or Left == Right is valid and empty.
type Rect struct {
	Top, Bottom, Left, Right int
}

// NewRect builds a rect and validates its orientation. Negative-size
// rects are programmer errors, not data, so this panics rather than clamps.
func NewRect(top, bottom, left, right int) Rect {
	if bottom < top || right < left {
		panic(fmt.Sprintf("geom: invalid rect (top=%d bottom=%d left=%d right=%d)", top, bottom, left, right))
	}
	return Rect{Top: top, Bottom: bottom, Left: left, Right: right}
}

// RectAt builds the rect covering size cells with its top-left corner at pos.
func RectAt(pos Point, size Size) Rect {
	return NewRect(pos.Y, pos.Y+max(size.H, 0), pos.X, pos.X+max(size.W, 0))
}

// Size returns the rect's extent.
func (r Rect) Size() Size {
	return Size{H: r.Bottom - r.Top, W: r.Right - r.Left}
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Top >= r.Bottom || r.Left >= r.Right
}

// Contains reports whether p lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.Y >= r.Top && p.Y < r.Bottom && p.X >= r.Left && p.X < r.Right
}

// Translate returns the rect shifted by dy rows and dx columns.
func (r Rect) Translate(dy, dx int) Rect {
	return Rect{Top: r.Top + dy, Bottom: r.Bottom + dy, Left: r.Left + dx, Right: r.Right + dx}
}

// Slice is a sub-range of a rect expressed in that rect's own local
// coordinates: rows [Top, Bottom) and columns [Left, Right) relative to the
// rect's top-left corner. Both slices returned by Intersect always have the
// same shape, so callers can copy cell rows without further bounds checks.
type Slice struct {
	Top, Bottom, Left, Right int
}

// Size returns the slice extent.
func (s Slice) Size() Size {
	return Size{H: s.Bottom - s.Top, W: s.Right - s.Left}
}

// Intersect computes the overlap of two rects in the same coordinate space.
// It returns the overlapping sub-range local to each operand and true, or
// false when the rects share no cell. Touching edges do not intersect since
// Bottom/Right are exclusive.
func Intersect(a, b Rect) (sa, sb Slice, ok bool) {
	top := max(a.Top, b.Top)
	bottom := min(a.Bottom, b.Bottom)
	left := max(a.Left, b.Left)
	right := min(a.Right, b.Right)
	if top >= bottom || left >= right {
		return Slice{}, Slice{}, false
	}
	sa = Slice{Top: top - a.Top, Bottom: bottom - a.Top, Left: left - a.Left, Right: right - a.Left}
	sb = Slice{Top: top - b.Top, Bottom: bottom - b.Top, Left: left - b.Left, Right: right - b.Left}
	return sa, sb, true
}

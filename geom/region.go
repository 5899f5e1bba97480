// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: geom/region.go
// Summary: Band-based region set algebra used for damage and occlusion math.
//
// A region is a sorted list of non-overlapping horizontal bands. Each band
// spans rows [y1, y2) and holds an even-length, ascending list of column
// "walls"; consecutive wall pairs delimit the rects of that band. Set
// operations merge two regions band by band, combining walls with a boolean
// operator, then coalesce vertically adjacent bands with identical walls.

package geom

import "math"

type boolOp func(a, b bool) bool

func opAnd(a, b bool) bool { return a && b }
func opOr(a, b bool) bool  { return a || b }
func opSub(a, b bool) bool { return a && !b }
func opXor(a, b bool) bool { return a != b }

type band struct {
	y1, y2 int
	walls  []int
}

// Region is a set of screen cells closed under union, intersection,
// subtraction and symmetric difference.
type Region struct {
	bands []band
}

// RegionFromRect returns the region covering exactly r.
func RegionFromRect(r Rect) Region {
	if r.Empty() {
		return Region{}
	}
	return Region{bands: []band{{y1: r.Top, y2: r.Bottom, walls: []int{r.Left, r.Right}}}}
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool {
	return len(r.bands) == 0
}

// Union returns the cells in r or o.
func (r Region) Union(o Region) Region { return r.merge(o, opOr) }

// Intersect returns the cells in both r and o.
func (r Region) Intersect(o Region) Region { return r.merge(o, opAnd) }

// Subtract returns the cells in r but not in o.
func (r Region) Subtract(o Region) Region { return r.merge(o, opSub) }

// Xor returns the cells in exactly one of r and o.
func (r Region) Xor(o Region) Region { return r.merge(o, opXor) }

// Contains reports whether p is covered by the region.
func (r Region) Contains(p Point) bool {
	for _, b := range r.bands {
		if p.Y < b.y1 {
			return false
		}
		if p.Y >= b.y2 {
			continue
		}
		for i := 0; i+1 < len(b.walls); i += 2 {
			if p.X >= b.walls[i] && p.X < b.walls[i+1] {
				return true
			}
		}
		return false
	}
	return false
}

// Rects enumerates the disjoint rects that tile the region, top to bottom,
// left to right.
func (r Region) Rects() []Rect {
	var out []Rect
	for _, b := range r.bands {
		for i := 0; i+1 < len(b.walls); i += 2 {
			out = append(out, Rect{Top: b.y1, Bottom: b.y2, Left: b.walls[i], Right: b.walls[i+1]})
		}
	}
	return out
}

// Bounds returns the bounding box of the region, or false when empty.
func (r Region) Bounds() (Rect, bool) {
	if len(r.bands) == 0 {
		return Rect{}, false
	}
	left := math.MaxInt
	right := math.MinInt
	for _, b := range r.bands {
		if b.walls[0] < left {
			left = b.walls[0]
		}
		if w := b.walls[len(b.walls)-1]; w > right {
			right = w
		}
	}
	return Rect{
		Top:    r.bands[0].y1,
		Bottom: r.bands[len(r.bands)-1].y2,
		Left:   left,
		Right:  right,
	}, true
}

// mergeWalls combines the wall lists of two overlapping bands under op.
func mergeWalls(op boolOp, a, b []int) []int {
	var walls []int
	i, j := 0, 0
	insideA, insideB, inside := false, false, false
	for i < len(a) || j < len(b) {
		ca, cb := math.MaxInt, math.MaxInt
		if i < len(a) {
			ca = a[i]
		}
		if j < len(b) {
			cb = b[j]
		}
		threshold := min(ca, cb)
		if ca == threshold {
			insideA = !insideA
			i++
		}
		if cb == threshold {
			insideB = !insideB
			j++
		}
		if op(insideA, insideB) != inside {
			inside = !inside
			walls = append(walls, threshold)
		}
	}
	return walls
}

// coalesce joins contiguous bands with identical walls and drops empty bands.
func coalesce(bands []band) []band {
	i := 0
	for i < len(bands) {
		if len(bands[i].walls) == 0 {
			bands = append(bands[:i], bands[i+1:]...)
			continue
		}
		if i+1 < len(bands) && bands[i+1].y1 <= bands[i].y2 && wallsEqual(bands[i].walls, bands[i+1].walls) {
			bands[i].y2 = bands[i+1].y2
			bands = append(bands[:i+1], bands[i+2:]...)
			continue
		}
		i++
	}
	return bands
}

func wallsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// merge walks both band lists on a shared scanline, splitting bands at every
// y boundary and merging walls wherever bands overlap vertically.
func (r Region) merge(o Region, op boolOp) Region {
	var bands []band
	var none []int
	i, j := 0, 0
	scanline := math.MinInt

	emit := func(y1, y2 int, walls []int) {
		if y1 < y2 && len(walls) > 0 {
			bands = append(bands, band{y1: y1, y2: y2, walls: walls})
		}
	}

	for i < len(r.bands) && j < len(o.bands) {
		rb, sb := r.bands[i], o.bands[j]
		if rb.y1 <= sb.y1 {
			if scanline < rb.y1 {
				scanline = rb.y1
			}
			switch {
			case rb.y2 < sb.y1:
				emit(scanline, rb.y2, mergeWalls(op, rb.walls, none))
				scanline = rb.y2
				i++
			case rb.y2 < sb.y2:
				if scanline < sb.y1 {
					emit(scanline, sb.y1, mergeWalls(op, rb.walls, none))
				}
				if sb.y1 < rb.y2 {
					emit(sb.y1, rb.y2, mergeWalls(op, rb.walls, sb.walls))
				}
				scanline = rb.y2
				i++
			default:
				if scanline < sb.y1 {
					emit(scanline, sb.y1, mergeWalls(op, rb.walls, none))
				}
				emit(sb.y1, sb.y2, mergeWalls(op, rb.walls, sb.walls))
				scanline = sb.y2
				if sb.y2 == rb.y2 {
					i++
				}
				j++
			}
		} else {
			if scanline < sb.y1 {
				scanline = sb.y1
			}
			switch {
			case sb.y2 < rb.y1:
				emit(scanline, sb.y2, mergeWalls(op, none, sb.walls))
				scanline = sb.y2
				j++
			case sb.y2 < rb.y2:
				if scanline < rb.y1 {
					emit(scanline, rb.y1, mergeWalls(op, none, sb.walls))
				}
				if rb.y1 < sb.y2 {
					emit(rb.y1, sb.y2, mergeWalls(op, rb.walls, sb.walls))
				}
				scanline = sb.y2
				j++
			default:
				if scanline < rb.y1 {
					emit(scanline, rb.y1, mergeWalls(op, none, sb.walls))
				}
				emit(rb.y1, rb.y2, mergeWalls(op, rb.walls, sb.walls))
				scanline = rb.y2
				if rb.y2 == sb.y2 {
					j++
				}
				i++
			}
		}
	}

	for ; i < len(r.bands); i++ {
		rb := r.bands[i]
		if scanline < rb.y1 {
			scanline = rb.y1
		}
		emit(scanline, rb.y2, mergeWalls(op, rb.walls, none))
		scanline = rb.y2
	}
	for ; j < len(o.bands); j++ {
		sb := o.bands[j]
		if scanline < sb.y1 {
			scanline = sb.y1
		}
		emit(scanline, sb.y2, mergeWalls(op, none, sb.walls))
		scanline = sb.y2
	}

	return Region{bands: coalesce(bands)}
}

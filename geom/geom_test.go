// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom

import "testing"

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		ok     bool
		wantSA Slice
		wantSB Slice
	}{
		{
			name:   "full overlap",
			a:      NewRect(0, 10, 0, 10),
			b:      NewRect(0, 10, 0, 10),
			ok:     true,
			wantSA: Slice{0, 10, 0, 10},
			wantSB: Slice{0, 10, 0, 10},
		},
		{
			name:   "partial overlap",
			a:      NewRect(0, 5, 0, 5),
			b:      NewRect(3, 8, 3, 8),
			ok:     true,
			wantSA: Slice{3, 5, 3, 5},
			wantSB: Slice{0, 2, 0, 2},
		},
		{
			name: "disjoint",
			a:    NewRect(0, 5, 0, 5),
			b:    NewRect(10, 15, 10, 15),
		},
		{
			name: "touching edge is not overlap",
			a:    NewRect(0, 5, 0, 5),
			b:    NewRect(0, 5, 5, 10),
		},
		{
			name: "touching corner is not overlap",
			a:    NewRect(0, 5, 0, 5),
			b:    NewRect(5, 10, 5, 10),
		},
		{
			name:   "b inside a",
			a:      NewRect(0, 20, 0, 20),
			b:      NewRect(5, 7, 5, 7),
			ok:     true,
			wantSA: Slice{5, 7, 5, 7},
			wantSB: Slice{0, 2, 0, 2},
		},
		{
			name:   "negative coordinates",
			a:      NewRect(-3, 2, -3, 2),
			b:      NewRect(0, 5, 0, 5),
			ok:     true,
			wantSA: Slice{3, 5, 3, 5},
			wantSB: Slice{0, 2, 0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, sb, ok := Intersect(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if sa != tt.wantSA {
				t.Errorf("slice a = %+v, want %+v", sa, tt.wantSA)
			}
			if sb != tt.wantSB {
				t.Errorf("slice b = %+v, want %+v", sb, tt.wantSB)
			}
			if sa.Size() != sb.Size() {
				t.Errorf("slice shapes differ: %+v vs %+v", sa.Size(), sb.Size())
			}
		})
	}
}

func TestIntersectSymmetricWithPointScan(t *testing.T) {
	// Intersect must return false exactly when no cell is shared.
	rects := []Rect{
		NewRect(0, 3, 0, 3),
		NewRect(2, 5, 2, 5),
		NewRect(3, 6, 0, 2),
		NewRect(0, 0, 0, 0),
		NewRect(1, 2, 4, 9),
	}
	for _, a := range rects {
		for _, b := range rects {
			_, _, ok := Intersect(a, b)
			shared := false
			for y := -1; y < 10; y++ {
				for x := -1; x < 10; x++ {
					p := Point{Y: y, X: x}
					if a.Contains(p) && b.Contains(p) {
						shared = true
					}
				}
			}
			if ok != shared {
				t.Errorf("Intersect(%+v, %+v) = %v, cell scan says %v", a, b, ok, shared)
			}
		}
	}
}

func TestNewRectPanicsOnNegativeSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for inverted rect")
		}
	}()
	NewRect(5, 0, 0, 5)
}

func TestRectAt(t *testing.T) {
	r := RectAt(Point{Y: 2, X: 3}, Size{H: 4, W: 5})
	want := Rect{Top: 2, Bottom: 6, Left: 3, Right: 8}
	if r != want {
		t.Fatalf("RectAt = %+v, want %+v", r, want)
	}
	if r.Size() != (Size{H: 4, W: 5}) {
		t.Fatalf("size = %+v", r.Size())
	}
}

// cellSet materializes a region over a small probe area for brute-force
// comparison against the band algebra.
func cellSet(r Region) map[Point]bool {
	set := make(map[Point]bool)
	for y := -2; y < 14; y++ {
		for x := -2; x < 14; x++ {
			p := Point{Y: y, X: x}
			if r.Contains(p) {
				set[p] = true
			}
		}
	}
	return set
}

func rectCellSet(rects ...Rect) map[Point]bool {
	set := make(map[Point]bool)
	for y := -2; y < 14; y++ {
		for x := -2; x < 14; x++ {
			p := Point{Y: y, X: x}
			for _, r := range rects {
				if r.Contains(p) {
					set[p] = true
				}
			}
		}
	}
	return set
}

func sameSet(t *testing.T, got, want map[Point]bool) {
	t.Helper()
	for p := range want {
		if !got[p] {
			t.Fatalf("missing cell %+v", p)
		}
	}
	for p := range got {
		if !want[p] {
			t.Fatalf("extra cell %+v", p)
		}
	}
}

func TestRegionOpsMatchCellSemantics(t *testing.T) {
	pairs := []struct {
		name string
		a, b Rect
	}{
		{"overlapping", NewRect(0, 5, 0, 5), NewRect(3, 8, 3, 8)},
		{"nested", NewRect(0, 10, 0, 10), NewRect(2, 4, 2, 4)},
		{"disjoint", NewRect(0, 2, 0, 2), NewRect(5, 7, 5, 7)},
		{"side by side", NewRect(0, 4, 0, 4), NewRect(0, 4, 4, 8)},
		{"stacked", NewRect(0, 4, 1, 6), NewRect(4, 8, 1, 6)},
		{"cross", NewRect(0, 9, 3, 6), NewRect(3, 6, 0, 9)},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ra := RegionFromRect(tt.a)
			rb := RegionFromRect(tt.b)
			sa := rectCellSet(tt.a)
			sb := rectCellSet(tt.b)

			union := make(map[Point]bool)
			inter := make(map[Point]bool)
			diff := make(map[Point]bool)
			xor := make(map[Point]bool)
			for p := range sa {
				union[p] = true
				if sb[p] {
					inter[p] = true
				} else {
					diff[p] = true
					xor[p] = true
				}
			}
			for p := range sb {
				union[p] = true
				if !sa[p] {
					xor[p] = true
				}
			}

			sameSet(t, cellSet(ra.Union(rb)), union)
			sameSet(t, cellSet(ra.Intersect(rb)), inter)
			sameSet(t, cellSet(ra.Subtract(rb)), diff)
			sameSet(t, cellSet(ra.Xor(rb)), xor)
		})
	}
}

func TestRegionRectsAreDisjointAndTile(t *testing.T) {
	a := NewRect(0, 6, 0, 6)
	b := NewRect(3, 9, 3, 9)
	c := NewRect(0, 2, 7, 12)
	reg := RegionFromRect(a).Union(RegionFromRect(b)).Union(RegionFromRect(c))

	rects := reg.Rects()
	for i, r1 := range rects {
		for j, r2 := range rects {
			if i == j {
				continue
			}
			if _, _, ok := Intersect(r1, r2); ok {
				t.Fatalf("tiles %d and %d overlap: %+v %+v", i, j, r1, r2)
			}
		}
	}
	sameSet(t, rectCellSet(rects...), rectCellSet(a, b, c))
}

func TestRegionCoalesce(t *testing.T) {
	// Two stacked rects with identical columns must coalesce into one band.
	top := RegionFromRect(NewRect(0, 3, 2, 6))
	bottom := RegionFromRect(NewRect(3, 7, 2, 6))
	u := top.Union(bottom)
	rects := u.Rects()
	if len(rects) != 1 {
		t.Fatalf("expected 1 coalesced rect, got %d: %+v", len(rects), rects)
	}
	if rects[0] != NewRect(0, 7, 2, 6) {
		t.Fatalf("coalesced rect = %+v", rects[0])
	}
}

func TestRegionBounds(t *testing.T) {
	reg := RegionFromRect(NewRect(1, 3, 5, 9)).Union(RegionFromRect(NewRect(4, 6, 0, 2)))
	bounds, ok := reg.Bounds()
	if !ok {
		t.Fatal("expected non-empty bounds")
	}
	if bounds != NewRect(1, 6, 0, 9) {
		t.Fatalf("bounds = %+v", bounds)
	}
	if _, ok := (Region{}).Bounds(); ok {
		t.Fatal("empty region should have no bounds")
	}
	if !RegionFromRect(NewRect(2, 2, 0, 4)).Empty() {
		t.Fatal("degenerate rect should yield empty region")
	}
}

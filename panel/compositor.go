// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: panel/compositor.go
// Summary: Merges the live panel set into one authoritative frame buffer.

package panel

import (
	"sort"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

// Composite paints every visible panel into dst, back to front by z. Panels
// sharing a z keep their slice order, so among overlapping ties the later
// panel wins deterministically. dst is first reset to def. A zero-size dst
// is a no-op; panels extending past any edge are clipped, never a fault.
func Composite(dst *grid.Buffer, panels []*Panel, def grid.Cell) {
	if dst.Size().IsZero() {
		return
	}
	dst.Fill(def)

	ordered := make([]*Panel, len(panels))
	copy(ordered, panels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].z < ordered[j].z
	})

	screen := dst.Rect()
	skip := cullOccluded(ordered, screen)

	for i, p := range ordered {
		if skip[i] {
			continue
		}
		blit(dst, p, screen)
	}
}

// cullOccluded walks the stack top-down accumulating the region covered by
// opaque panels, so panels with no visible cell are never blitted.
func cullOccluded(ordered []*Panel, screen geom.Rect) []bool {
	skip := make([]bool, len(ordered))
	var covered geom.Region
	for i := len(ordered) - 1; i >= 0; i-- {
		p := ordered[i]
		if !p.visible {
			skip[i] = true
			continue
		}
		_, onScreen, ok := geom.Intersect(p.Rect(), screen)
		if !ok {
			skip[i] = true
			continue
		}
		// onScreen is screen-local, which is also absolute space here.
		visRect := geom.Rect{Top: onScreen.Top, Bottom: onScreen.Bottom, Left: onScreen.Left, Right: onScreen.Right}
		visReg := geom.RegionFromRect(visRect)
		if visReg.Subtract(covered).Empty() {
			skip[i] = true
			continue
		}
		if !p.transparent {
			covered = covered.Union(visReg)
		}
	}
	return skip
}

// blit copies the panel's on-screen sub-range into dst. Transparent panels
// skip NoPaint cells, leaving lower layers visible.
func blit(dst *grid.Buffer, p *Panel, screen geom.Rect) {
	src, dstSlice, ok := geom.Intersect(p.Rect(), screen)
	if !ok {
		return
	}
	rows := src.Bottom - src.Top
	for r := 0; r < rows; r++ {
		srcRow := p.buf.Row(src.Top + r)[src.Left:src.Right]
		dstRow := dst.Row(dstSlice.Top + r)[dstSlice.Left:dstSlice.Right]
		if !p.transparent {
			copy(dstRow, srcRow)
			continue
		}
		for c := range srcRow {
			if srcRow[c].Rune != NoPaint {
				dstRow[c] = srcRow[c]
			}
		}
	}
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: effects/effects.go
// Summary: Post-composite color effects over frame regions.
//
// Effects run after compositing, directly on the frame, so they apply to
// whatever ended up visible in the region regardless of which panel painted
// it. Typical uses: dimming unfocused panels, tinting a modal backdrop.

package effects

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

// Tint blends the colors of every cell in r toward target. amount 0 leaves
// the region untouched, 1 replaces colors entirely. The region is clipped to
// the buffer.
func Tint(buf *grid.Buffer, r geom.Rect, target grid.RGB, amount float64) {
	if amount <= 0 {
		return
	}
	if amount > 1 {
		amount = 1
	}

	sl, _, ok := geom.Intersect(buf.Rect(), r)
	if !ok {
		return
	}

	to := toColorful(target)
	for y := sl.Top; y < sl.Bottom; y++ {
		row := buf.Row(y)
		for x := sl.Left; x < sl.Right; x++ {
			row[x].Fg = blend(row[x].Fg, to, amount)
			row[x].Bg = blend(row[x].Bg, to, amount)
		}
	}
}

// Dim darkens the region; amount 1 is full black.
func Dim(buf *grid.Buffer, r geom.Rect, amount float64) {
	Tint(buf, r, grid.RGB{}, amount)
}

// blend mixes a cell color toward a target in Lab space, which keeps
// perceived lightness transitions smooth.
func blend(c grid.RGB, target colorful.Color, amount float64) grid.RGB {
	mixed := toColorful(c).BlendLab(target, amount).Clamped()
	return grid.RGB{
		R: uint8(mixed.R*255 + 0.5),
		G: uint8(mixed.G*255 + 0.5),
		B: uint8(mixed.B*255 + 0.5),
	}
}

func toColorful(c grid.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

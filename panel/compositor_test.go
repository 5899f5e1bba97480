// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"testing"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

var blank = grid.Cell{Rune: ' '}

func frameString(b *grid.Buffer) string {
	var out []rune
	size := b.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			r := b.At(y, x).Rune
			if r == 0 {
				r = ' '
			}
			out = append(out, r)
		}
		out = append(out, '\n')
	}
	return string(out)
}

func fillPanel(p *Panel, r rune) {
	p.Fill(grid.Cell{Rune: r})
}

func TestCompositeZOrder(t *testing.T) {
	dst := grid.New(geom.Size{H: 4, W: 4})

	p1 := New(geom.Size{H: 4, W: 4}, geom.Point{}, 0)
	fillPanel(p1, 'a')
	p2 := New(geom.Size{H: 2, W: 2}, geom.Point{Y: 1, X: 1}, 1)
	fillPanel(p2, 'b')

	Composite(dst, []*Panel{p2, p1}, blank)

	want := "" +
		"aaaa\n" +
		"abba\n" +
		"abba\n" +
		"aaaa\n"
	if got := frameString(dst); got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompositeTieBreakLaterWins(t *testing.T) {
	dst := grid.New(geom.Size{H: 1, W: 2})

	first := New(geom.Size{H: 1, W: 2}, geom.Point{}, 5)
	fillPanel(first, '1')
	second := New(geom.Size{H: 1, W: 2}, geom.Point{}, 5)
	fillPanel(second, '2')

	Composite(dst, []*Panel{first, second}, blank)
	if got := frameString(dst); got != "22\n" {
		t.Fatalf("frame = %q, later panel at equal z should win", got)
	}
}

func TestCompositeIdempotent(t *testing.T) {
	dst := grid.New(geom.Size{H: 3, W: 5})
	p := New(geom.Size{H: 2, W: 2}, geom.Point{Y: 0, X: 2}, 0)
	fillPanel(p, 'x')
	panels := []*Panel{p}

	Composite(dst, panels, blank)
	first := frameString(dst)
	Composite(dst, panels, blank)
	if second := frameString(dst); second != first {
		t.Fatalf("second pass differs:\n%s\nvs\n%s", second, first)
	}
}

func TestCompositeTransparent(t *testing.T) {
	dst := grid.New(geom.Size{H: 2, W: 3})

	bg := New(geom.Size{H: 2, W: 3}, geom.Point{}, 0)
	fillPanel(bg, '.')

	overlay := New(geom.Size{H: 2, W: 3}, geom.Point{}, 1)
	overlay.SetTransparent(true)
	overlay.Fill(grid.Cell{Rune: NoPaint})
	overlay.Write(1, 1, grid.Cell{Rune: '#'})

	Composite(dst, []*Panel{bg, overlay}, blank)

	want := "" +
		"...\n" +
		".#.\n"
	if got := frameString(dst); got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompositeAllNoPaintLeavesBackground(t *testing.T) {
	dst := grid.New(geom.Size{H: 2, W: 2})
	bg := New(geom.Size{H: 2, W: 2}, geom.Point{}, 0)
	fillPanel(bg, 'z')
	ghost := New(geom.Size{H: 2, W: 2}, geom.Point{}, 9)
	ghost.SetTransparent(true)
	ghost.Fill(grid.Cell{Rune: NoPaint})

	Composite(dst, []*Panel{bg, ghost}, blank)
	if got := frameString(dst); got != "zz\nzz\n" {
		t.Fatalf("frame = %q", got)
	}
}

func TestCompositeClipping(t *testing.T) {
	dst := grid.New(geom.Size{H: 3, W: 3})

	// Panel hangs off every edge; only the middle lands on screen.
	p := New(geom.Size{H: 5, W: 5}, geom.Point{Y: -1, X: -1}, 0)
	fillPanel(p, 'o')
	Composite(dst, []*Panel{p}, blank)
	if got := frameString(dst); got != "ooo\nooo\nooo\n" {
		t.Fatalf("frame = %q", got)
	}

	// Fully off-screen panel must not paint or panic.
	far := New(geom.Size{H: 2, W: 2}, geom.Point{Y: 50, X: 50}, 1)
	fillPanel(far, 'X')
	Composite(dst, []*Panel{p, far}, blank)
	if got := frameString(dst); got != "ooo\nooo\nooo\n" {
		t.Fatalf("frame = %q", got)
	}
}

func TestCompositeInvisibleSkipped(t *testing.T) {
	dst := grid.New(geom.Size{H: 2, W: 2})
	p := New(geom.Size{H: 2, W: 2}, geom.Point{}, 0)
	fillPanel(p, 'v')
	p.SetVisible(false)
	Composite(dst, []*Panel{p}, blank)
	if got := frameString(dst); got != "  \n  \n" {
		t.Fatalf("frame = %q", got)
	}
}

func TestCompositeZeroSizeScreen(t *testing.T) {
	dst := grid.New(geom.Size{H: 0, W: 10})
	p := New(geom.Size{H: 2, W: 2}, geom.Point{}, 0)
	fillPanel(p, 'q')
	Composite(dst, []*Panel{p}, blank) // must not panic
}

func TestCompositeOcclusionCullMatchesPlainPaint(t *testing.T) {
	// Culling fully hidden panels must not change the output.
	dst := grid.New(geom.Size{H: 4, W: 4})

	hidden := New(geom.Size{H: 2, W: 2}, geom.Point{Y: 1, X: 1}, 0)
	fillPanel(hidden, 'h')
	cover := New(geom.Size{H: 4, W: 4}, geom.Point{}, 1)
	fillPanel(cover, 'c')
	top := New(geom.Size{H: 1, W: 1}, geom.Point{Y: 0, X: 0}, 2)
	fillPanel(top, 't')

	Composite(dst, []*Panel{hidden, cover, top}, blank)
	want := "" +
		"tccc\n" +
		"cccc\n" +
		"cccc\n" +
		"cccc\n"
	if got := frameString(dst); got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestPanelMoveAndRefreshNotifier(t *testing.T) {
	ch := make(chan bool, 1)
	p := New(geom.Size{H: 1, W: 1}, geom.Point{}, 0)
	p.SetRefreshNotifier(ch)

	p.MoveTo(2, 3)
	select {
	case <-ch:
	default:
		t.Fatal("MoveTo should signal damage")
	}
	if p.Rect() != geom.NewRect(2, 3, 3, 4) {
		t.Fatalf("rect = %+v", p.Rect())
	}

	// A full channel must not block mutation.
	ch <- true
	p.Write(0, 0, grid.Cell{Rune: 'k'})
}

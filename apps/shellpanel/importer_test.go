// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/shellpanel/importer_test.go
// Summary: SGR importer tests: text, styling, motion, scroll, fragmentation.

package shellpanel

import (
	"testing"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
	"github.com/framegrace/texelcore/vt"
)

func newTestImporter(h, w int) (*importer, *panel.Panel) {
	p := panel.New(geom.Size{H: h, W: w}, geom.Point{}, 0)
	im := newImporter(p, grid.RGB{R: 229, G: 229, B: 229}, grid.RGB{})
	return im, p
}

func rowText(p *panel.Panel, y int) string {
	var out []rune
	for x := 0; x < p.Size().W; x++ {
		c := p.Buffer().At(y, x)
		if c.Rune == 0 || c.IsWideContinuation() {
			continue
		}
		out = append(out, c.Rune)
	}
	return string(out)
}

func TestImporterPlainText(t *testing.T) {
	im, p := newTestImporter(3, 20)
	im.Feed([]byte("hello"))
	if got := rowText(p, 0); got != "hello" {
		t.Errorf("row 0 = %q", got)
	}
}

func TestImporterNewlineAndCR(t *testing.T) {
	im, p := newTestImporter(3, 20)
	im.Feed([]byte("one\r\ntwo"))
	if got := rowText(p, 0); got != "one" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(p, 1); got != "two" {
		t.Errorf("row 1 = %q", got)
	}
}

func TestImporterSGRColors(t *testing.T) {
	im, p := newTestImporter(1, 40)
	im.Feed([]byte("\x1b[31mred\x1b[0m \x1b[38;2;1;2;3mtc\x1b[0m \x1b[38;5;196mpal"))

	if got := p.Buffer().At(0, 0).Fg; got != ansiPalette[1] {
		t.Errorf("palette red fg = %+v", got)
	}
	if got := p.Buffer().At(0, 4).Fg; got != (grid.RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("truecolor fg = %+v", got)
	}
	if got := p.Buffer().At(0, 7).Fg; got != xterm256(196) {
		t.Errorf("256-palette fg = %+v", got)
	}
	// Space after reset carries the default fg again.
	if got := p.Buffer().At(0, 3).Fg; got != im.defFg {
		t.Errorf("reset fg = %+v", got)
	}
}

func TestImporterAttributes(t *testing.T) {
	im, p := newTestImporter(1, 20)
	im.Feed([]byte("\x1b[1;4mx\x1b[22my"))

	if got := p.Buffer().At(0, 0).Attrs; got != grid.AttrBold|grid.AttrUnderline {
		t.Errorf("attrs = %v", got)
	}
	if got := p.Buffer().At(0, 1).Attrs; got != grid.AttrUnderline {
		t.Errorf("bold not cleared: %v", got)
	}
}

func TestImporterSplitSequenceAcrossFeeds(t *testing.T) {
	im, p := newTestImporter(1, 20)
	im.Feed([]byte("\x1b[3"))
	im.Feed([]byte("2mg"))
	if got := p.Buffer().At(0, 0).Fg; got != ansiPalette[2] {
		t.Errorf("split SGR fg = %+v", got)
	}
	if got := rowText(p, 0); got != "g" {
		t.Errorf("row = %q", got)
	}
}

func TestImporterCursorMotionAndClear(t *testing.T) {
	im, p := newTestImporter(3, 10)
	im.Feed([]byte("aaaa\x1b[1;2Hbb"))

	if got := rowText(p, 0); got != "abba" {
		t.Errorf("row 0 = %q", got)
	}
}

func TestImporterClearToEOL(t *testing.T) {
	im, p := newTestImporter(1, 10)
	im.Feed([]byte("abcdef\x1b[1;4H\x1b[K"))
	if got := rowText(p, 0); got != "abc" {
		t.Errorf("row = %q", got)
	}
}

func TestImporterClearScreen(t *testing.T) {
	im, p := newTestImporter(2, 10)
	im.Feed([]byte("junk\n junk\x1b[2J\x1b[Hfresh"))
	if got := rowText(p, 0); got != "fresh" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(p, 1); got != "" {
		t.Errorf("row 1 = %q", got)
	}
}

func TestImporterScrollAtBottom(t *testing.T) {
	im, p := newTestImporter(2, 10)
	im.Feed([]byte("first\r\nsecond\r\nthird"))
	if got := rowText(p, 0); got != "second" {
		t.Errorf("row 0 after scroll = %q", got)
	}
	if got := rowText(p, 1); got != "third" {
		t.Errorf("row 1 after scroll = %q", got)
	}
}

func TestImporterWrapsAtRightEdge(t *testing.T) {
	im, p := newTestImporter(2, 4)
	im.Feed([]byte("abcdef"))
	if got := rowText(p, 0); got != "abcd" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(p, 1); got != "ef" {
		t.Errorf("row 1 = %q", got)
	}
}

func TestImporterWideRune(t *testing.T) {
	im, p := newTestImporter(1, 10)
	im.Feed([]byte("深"))
	if got := p.Buffer().At(0, 0).Rune; got != '深' {
		t.Errorf("head rune = %q", got)
	}
	if !p.Buffer().At(0, 1).IsWideContinuation() {
		t.Error("missing continuation cell")
	}
}

func TestImporterSkipsOSC(t *testing.T) {
	im, p := newTestImporter(1, 20)
	im.Feed([]byte("\x1b]0;title\x07ok"))
	if got := rowText(p, 0); got != "ok" {
		t.Errorf("row = %q", got)
	}
}

func TestInputBytes(t *testing.T) {
	tests := []struct {
		name string
		ev   vt.Event
		want string
	}{
		{"rune", vt.Event{Type: vt.EventKey, Key: vt.KeyRune, Rune: 'a'}, "a"},
		{"ctrl-c", vt.Event{Type: vt.EventKey, Key: vt.KeyRune, Rune: 'c', Mods: vt.ModCtrl}, "\x03"},
		{"alt-x", vt.Event{Type: vt.EventKey, Key: vt.KeyRune, Rune: 'x', Mods: vt.ModAlt}, "\x1bx"},
		{"enter", vt.Event{Type: vt.EventKey, Key: vt.KeyEnter}, "\r"},
		{"up", vt.Event{Type: vt.EventKey, Key: vt.KeyUp}, "\x1b[A"},
		{"delete", vt.Event{Type: vt.EventKey, Key: vt.KeyDelete}, "\x1b[3~"},
		{"paste", vt.Event{Type: vt.EventPaste, Paste: "pasted"}, "pasted"},
		{"mouse ignored", vt.Event{Type: vt.EventMouse}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(inputBytes(tc.ev)); got != tc.want {
				t.Errorf("inputBytes = %q, want %q", got, tc.want)
			}
		})
	}
}

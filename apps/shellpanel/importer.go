// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/shellpanel/importer.go
// Summary: Minimal escape-sequence importer painting pty output into a panel.
//
// This is deliberately not a terminal emulator: it understands printable
// text, SGR styling, cursor motion, line/screen clears and little else.
// Unknown sequences are skipped so a chatty program cannot corrupt the
// panel. Full emulation belongs to a dedicated vterm, not this demo app.

package shellpanel

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
)

// ansiPalette holds the 16 base colors (normal + bright).
var ansiPalette = [16]grid.RGB{
	{R: 0, G: 0, B: 0},       // black
	{R: 205, G: 49, B: 49},   // red
	{R: 13, G: 188, B: 121},  // green
	{R: 229, G: 229, B: 16},  // yellow
	{R: 36, G: 114, B: 200},  // blue
	{R: 188, G: 63, B: 188},  // magenta
	{R: 17, G: 168, B: 205},  // cyan
	{R: 229, G: 229, B: 229}, // white
	{R: 102, G: 102, B: 102}, // bright black
	{R: 241, G: 76, B: 76},   // bright red
	{R: 35, G: 209, B: 139},  // bright green
	{R: 245, G: 245, B: 67},  // bright yellow
	{R: 59, G: 142, B: 234},  // bright blue
	{R: 214, G: 112, B: 214}, // bright magenta
	{R: 41, G: 184, B: 219},  // bright cyan
	{R: 255, G: 255, B: 255}, // bright white
}

// xterm256 resolves a palette index to RGB (16 base + 216 cube + 24 grays).
func xterm256(idx int) grid.RGB {
	switch {
	case idx < 0:
		return grid.RGB{}
	case idx < 16:
		return ansiPalette[idx]
	case idx < 232:
		idx -= 16
		levels := [6]uint8{0, 95, 135, 175, 215, 255}
		return grid.RGB{
			R: levels[idx/36],
			G: levels[idx/6%6],
			B: levels[idx%6],
		}
	case idx < 256:
		v := uint8(8 + (idx-232)*10)
		return grid.RGB{R: v, G: v, B: v}
	default:
		return grid.RGB{}
	}
}

// importer is the write-side state machine. The owning App serializes calls.
type importer struct {
	p    *panel.Panel
	y, x int

	defFg, defBg grid.RGB
	fg, bg       grid.RGB
	attrs        grid.Attr

	buf []byte
}

func newImporter(p *panel.Panel, defFg, defBg grid.RGB) *importer {
	return &importer{p: p, defFg: defFg, defBg: defBg, fg: defFg, bg: defBg}
}

func (im *importer) size() (h, w int) {
	s := im.p.Size()
	return s.H, s.W
}

// Feed consumes pty output, keeping incomplete sequences for the next call.
func (im *importer) Feed(data []byte) {
	im.buf = append(im.buf, data...)
	consumed := im.parse(im.buf)
	if consumed > 0 {
		copy(im.buf, im.buf[consumed:])
		im.buf = im.buf[:len(im.buf)-consumed]
	}
	im.p.Damage()
}

func (im *importer) parse(data []byte) int {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == 0x1b:
			n := im.parseEscape(data[i:])
			if n == 0 {
				return i
			}
			i += n
		case b == '\n':
			im.lineFeed()
			i++
		case b == '\r':
			im.x = 0
			i++
		case b == '\b':
			if im.x > 0 {
				im.x--
			}
			i++
		case b == '\t':
			_, w := im.size()
			im.x = (im.x/8 + 1) * 8
			if im.x >= w {
				im.x = w - 1
			}
			i++
		case b < 0x20:
			i++ // other control bytes ignored
		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			r, size := utf8.DecodeRune(data[i:])
			im.putRune(r)
			i += size
		}
	}
	return i
}

func (im *importer) putRune(r rune) {
	h, w := im.size()
	if h == 0 || w == 0 {
		return
	}
	rw := runewidth.RuneWidth(r)
	if rw <= 0 {
		// Combining mark: attach to the previous cell.
		if im.x > 0 {
			prev := im.p.Buffer().At(im.y, im.x-1)
			prev.Comb += string(r)
			im.p.Buffer().Set(im.y, im.x-1, prev)
		}
		return
	}

	if im.x+rw > w {
		im.x = 0
		im.lineFeed()
	}

	im.p.Buffer().Set(im.y, im.x, grid.Cell{
		Rune: r, Fg: im.fg, Bg: im.bg, Attrs: im.attrs,
	})
	if rw > 1 {
		im.p.Buffer().Set(im.y, im.x+1, grid.Cell{
			Rune: grid.WideContinuation, Fg: im.fg, Bg: im.bg, Attrs: im.attrs,
		})
	}
	im.x += rw
}

func (im *importer) lineFeed() {
	h, _ := im.size()
	if im.y+1 < h {
		im.y++
		return
	}
	im.scrollUp()
}

func (im *importer) scrollUp() {
	h, _ := im.size()
	buf := im.p.Buffer()
	for y := 1; y < h; y++ {
		copy(buf.Row(y-1), buf.Row(y))
	}
	im.clearRow(h-1, 0)
}

func (im *importer) blank() grid.Cell {
	return grid.Cell{Bg: im.bg}
}

func (im *importer) clearRow(y, fromX int) {
	row := im.p.Buffer().Row(y)
	for x := fromX; x < len(row); x++ {
		row[x] = im.blank()
	}
}

// parseEscape returns consumed bytes, 0 when incomplete.
func (im *importer) parseEscape(data []byte) int {
	if len(data) < 2 {
		return 0
	}
	switch data[1] {
	case '[':
		return im.parseCSI(data)
	case ']':
		return skipOSC(data)
	case '(', ')':
		// Charset designation: ESC ( B etc.
		if len(data) < 3 {
			return 0
		}
		return 3
	default:
		return 2
	}
}

func (im *importer) parseCSI(data []byte) int {
	end := 2
	for end < len(data) && end < 64 {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			im.executeCSI(data[2:end], b)
			return end + 1
		}
		if b < 0x20 || b > 0x3f {
			return end
		}
		end++
	}
	if end >= 64 {
		return end
	}
	return 0
}

func (im *importer) executeCSI(body []byte, final byte) {
	params := parseParams(body)
	h, w := im.size()

	switch final {
	case 'm':
		im.applySGR(params)
	case 'H', 'f':
		row, col := 1, 1
		if len(params) > 0 && params[0] > 0 {
			row = params[0]
		}
		if len(params) > 1 && params[1] > 0 {
			col = params[1]
		}
		im.y = clamp(row-1, 0, h-1)
		im.x = clamp(col-1, 0, w-1)
	case 'A':
		im.y = clamp(im.y-paramOr(params, 0, 1), 0, h-1)
	case 'B':
		im.y = clamp(im.y+paramOr(params, 0, 1), 0, h-1)
	case 'C':
		im.x = clamp(im.x+paramOr(params, 0, 1), 0, w-1)
	case 'D':
		im.x = clamp(im.x-paramOr(params, 0, 1), 0, w-1)
	case 'K':
		switch paramOr(params, 0, 0) {
		case 0:
			im.clearRow(im.y, im.x)
		case 1:
			row := im.p.Buffer().Row(im.y)
			for x := 0; x <= im.x && x < len(row); x++ {
				row[x] = im.blank()
			}
		case 2:
			im.clearRow(im.y, 0)
		}
	case 'J':
		if paramOr(params, 0, 0) == 2 {
			im.p.Buffer().Fill(im.blank())
			im.y, im.x = 0, 0
		}
	}
	// Everything else (modes, scroll regions, queries) is out of scope.
}

func (im *importer) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			im.fg, im.bg, im.attrs = im.defFg, im.defBg, grid.AttrNone
		case p == 1:
			im.attrs |= grid.AttrBold
		case p == 2:
			im.attrs |= grid.AttrDim
		case p == 3:
			im.attrs |= grid.AttrItalic
		case p == 4:
			im.attrs |= grid.AttrUnderline
		case p == 5:
			im.attrs |= grid.AttrBlink
		case p == 7:
			im.attrs |= grid.AttrReverse
		case p == 22:
			im.attrs &^= grid.AttrBold | grid.AttrDim
		case p == 23:
			im.attrs &^= grid.AttrItalic
		case p == 24:
			im.attrs &^= grid.AttrUnderline
		case p == 25:
			im.attrs &^= grid.AttrBlink
		case p == 27:
			im.attrs &^= grid.AttrReverse
		case p >= 30 && p <= 37:
			im.fg = ansiPalette[p-30]
		case p == 38:
			var c grid.RGB
			var n int
			if c, n = extendedColor(params[i+1:]); n > 0 {
				im.fg = c
				i += n
			}
		case p == 39:
			im.fg = im.defFg
		case p >= 40 && p <= 47:
			im.bg = ansiPalette[p-40]
		case p == 48:
			var c grid.RGB
			var n int
			if c, n = extendedColor(params[i+1:]); n > 0 {
				im.bg = c
				i += n
			}
		case p == 49:
			im.bg = im.defBg
		case p >= 90 && p <= 97:
			im.fg = ansiPalette[p-90+8]
		case p >= 100 && p <= 107:
			im.bg = ansiPalette[p-100+8]
		}
	}
}

// extendedColor parses the tail of a 38/48 SGR: "2;r;g;b" or "5;n".
// Returns the color and how many parameters were consumed.
func extendedColor(rest []int) (grid.RGB, int) {
	if len(rest) >= 4 && rest[0] == 2 {
		return grid.RGB{
			R: uint8(clamp(rest[1], 0, 255)),
			G: uint8(clamp(rest[2], 0, 255)),
			B: uint8(clamp(rest[3], 0, 255)),
		}, 4
	}
	if len(rest) >= 2 && rest[0] == 5 {
		return xterm256(rest[1]), 2
	}
	return grid.RGB{}, 0
}

func skipOSC(data []byte) int {
	for i := 2; i < len(data); i++ {
		if data[i] == 0x07 {
			return i + 1
		}
		if data[i] == 0x1b {
			if i+1 >= len(data) {
				return 0
			}
			if data[i+1] == '\\' {
				return i + 2
			}
		}
	}
	return 0
}

func parseParams(body []byte) []int {
	var params []int
	val, seen := 0, false
	for _, b := range body {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			seen = true
		case b == ';':
			params = append(params, val)
			val, seen = 0, false
		}
	}
	if seen || len(params) > 0 {
		params = append(params, val)
	}
	return params
}

func paramOr(params []int, idx, def int) int {
	if idx < len(params) && params[idx] > 0 {
		return params[idx]
	}
	return def
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

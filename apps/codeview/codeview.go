// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/codeview/codeview.go
// Summary: Scrollable syntax-highlighted file viewer panel.

package codeview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
	"github.com/framegrace/texelcore/vt"
)

const defaultStyleName = "catppuccin-mocha"

// span is a run of uniformly styled text within a line.
type span struct {
	text  string
	fg    grid.RGB
	attrs grid.Attr
}

// App renders a highlighted file into its panel with vertical scrolling.
type App struct {
	p     *panel.Panel
	bg    grid.RGB
	fg    grid.RGB
	lines [][]span
	top   int
}

func New(p *panel.Panel) *App {
	return &App{
		p:  p,
		bg: grid.RGB{R: 24, G: 24, B: 37},
		fg: grid.RGB{R: 205, G: 214, B: 244},
	}
}

// Load reads a file, detects its language and highlights it.
func (a *App) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("codeview: failed to read %s: %w", path, err)
	}
	lang := enry.GetLanguage(filepath.Base(path), data)
	a.LoadSource(lang, data)
	return nil
}

// LoadSource highlights source text under the named language ("" lets the
// lexer be guessed from content) and repaints from the top.
func (a *App) LoadSource(language string, src []byte) {
	a.lines = highlight(language, string(src), a.fg)
	a.top = 0
	a.redraw()
}

// LineCount reports the number of highlighted lines.
func (a *App) LineCount() int { return len(a.lines) }

// Top reports the first visible line.
func (a *App) Top() int { return a.top }

// Scroll moves the viewport by delta lines, clamped to the content.
func (a *App) Scroll(delta int) {
	maxTop := len(a.lines) - a.p.Size().H
	if maxTop < 0 {
		maxTop = 0
	}
	top := a.top + delta
	if top < 0 {
		top = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top == a.top {
		return
	}
	a.top = top
	a.redraw()
}

// HandleEvent implements arrow/page/wheel scrolling.
func (a *App) HandleEvent(ev vt.Event) {
	page := a.p.Size().H
	switch ev.Type {
	case vt.EventKey:
		switch ev.Key {
		case vt.KeyUp:
			a.Scroll(-1)
		case vt.KeyDown:
			a.Scroll(1)
		case vt.KeyPageUp:
			a.Scroll(-page)
		case vt.KeyPageDown:
			a.Scroll(page)
		case vt.KeyHome:
			a.Scroll(-len(a.lines))
		case vt.KeyEnd:
			a.Scroll(len(a.lines))
		}
	case vt.EventMouse:
		switch ev.MouseBtn {
		case vt.MouseBtnWheelUp:
			a.Scroll(-3)
		case vt.MouseBtnWheelDown:
			a.Scroll(3)
		}
	}
}

// Resize reshapes the panel and repaints, keeping the viewport in range.
func (a *App) Resize(size geom.Size) {
	a.p.Resize(size)
	if max := len(a.lines) - size.H; a.top > max {
		if max < 0 {
			max = 0
		}
		a.top = max
	}
	a.redraw()
}

func (a *App) redraw() {
	a.p.Fill(grid.Cell{Bg: a.bg})
	h := a.p.Size().H
	for y := 0; y < h; y++ {
		idx := a.top + y
		if idx >= len(a.lines) {
			break
		}
		x := 0
		for _, s := range a.lines[idx] {
			x = a.p.WriteString(y, x, s.text, s.fg, a.bg, s.attrs)
		}
	}
	a.p.Damage()
}

// highlight tokenizes src and splits the token stream into styled lines.
func highlight(language, src string, defFg grid.RGB) [][]span {
	lexer := pickLexer(language, src)
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(defaultStyleName)

	tokens, err := chroma.Tokenise(lexer, nil, src)
	if err != nil {
		return plainLines(src, defFg)
	}

	var lines [][]span
	var cur []span
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		fg, attrs := tokenStyle(style, tok.Type, defFg)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			if part != "" {
				cur = append(cur, span{text: part, fg: fg, attrs: attrs})
			}
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func plainLines(src string, fg grid.RGB) [][]span {
	raw := strings.Split(src, "\n")
	lines := make([][]span, len(raw))
	for i, l := range raw {
		if l != "" {
			lines[i] = []span{{text: l, fg: fg}}
		}
	}
	return lines
}

func pickLexer(language, src string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(src); l != nil {
		return l
	}
	return lexers.Fallback
}

func tokenStyle(style *chroma.Style, t chroma.TokenType, defFg grid.RGB) (grid.RGB, grid.Attr) {
	entry := style.Get(t)

	var attrs grid.Attr
	if entry.Bold == chroma.Yes {
		attrs |= grid.AttrBold
	}
	if entry.Italic == chroma.Yes {
		attrs |= grid.AttrItalic
	}
	if entry.Underline == chroma.Yes {
		attrs |= grid.AttrUnderline
	}

	if !entry.Colour.IsSet() {
		return defFg, attrs
	}
	return grid.RGB{
		R: entry.Colour.Red(),
		G: entry.Colour.Green(),
		B: entry.Colour.Blue(),
	}, attrs
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: panel/panel.go
// Summary: Positioned, z-ordered cell buffers painted by collaborators.

package panel

import (
	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

// Z-order bands for common layering scenarios.
const (
	ZDefault  = 0
	ZFloating = 100
	ZDialog   = 500
	ZTooltip  = 2000
)

// NoPaint is the per-cell "do not overwrite what is beneath" sentinel used by
// transparent panels. Like grid.WideContinuation it is a Unicode
// noncharacter and can never appear in real text.
const NoPaint rune = 0xFFFE

// Panel owns one cell buffer plus its placement on screen. Panels are
// created and painted by the application layer; the compositor only reads
// them during a render pass. A panel is not safe for mutation concurrent
// with that pass.
type Panel struct {
	buf         *grid.Buffer
	pos         geom.Point
	z           int
	visible     bool
	transparent bool

	refresh chan<- bool
}

// New creates a visible, opaque panel.
func New(size geom.Size, pos geom.Point, z int) *Panel {
	return &Panel{
		buf:     grid.New(size),
		pos:     pos,
		z:       z,
		visible: true,
	}
}

// SetRefreshNotifier registers the channel poked whenever the panel changes,
// so the render loop knows the frame is damaged. Sends never block.
func (p *Panel) SetRefreshNotifier(ch chan<- bool) {
	p.refresh = ch
}

func (p *Panel) damage() {
	if p.refresh == nil {
		return
	}
	select {
	case p.refresh <- true:
	default:
	}
}

// Buffer exposes the panel's backing grid for bulk painting.
// Call Damage after direct buffer writes.
func (p *Panel) Buffer() *grid.Buffer { return p.buf }

// Damage marks the panel changed without writing a cell.
func (p *Panel) Damage() { p.damage() }

// Write sets one cell in the panel's local coordinates. Out-of-range writes
// are silent no-ops, matching grid.Buffer.
func (p *Panel) Write(y, x int, c grid.Cell) {
	p.buf.Set(y, x, c)
	p.damage()
}

// WriteString writes styled text at (y, x) and returns the next column.
func (p *Panel) WriteString(y, x int, s string, fg, bg grid.RGB, attrs grid.Attr) int {
	next := p.buf.WriteString(y, x, s, fg, bg, attrs)
	p.damage()
	return next
}

// Fill floods the panel with one cell.
func (p *Panel) Fill(c grid.Cell) {
	p.buf.Fill(c)
	p.damage()
}

// Resize replaces the backing buffer, discarding old content.
func (p *Panel) Resize(size geom.Size) {
	p.buf.Resize(size)
	p.damage()
}

// MoveTo changes the panel's screen position without touching content.
func (p *Panel) MoveTo(top, left int) {
	p.pos = geom.Point{Y: top, X: left}
	p.damage()
}

// SetZ changes the stacking order.
func (p *Panel) SetZ(z int) {
	p.z = z
	p.damage()
}

// SetVisible toggles whether the compositor paints the panel at all.
func (p *Panel) SetVisible(v bool) {
	if p.visible == v {
		return
	}
	p.visible = v
	p.damage()
}

// SetTransparent enables the NoPaint sentinel check for this panel's cells.
func (p *Panel) SetTransparent(v bool) {
	if p.transparent == v {
		return
	}
	p.transparent = v
	p.damage()
}

func (p *Panel) Pos() geom.Point   { return p.pos }
func (p *Panel) Z() int            { return p.z }
func (p *Panel) Size() geom.Size   { return p.buf.Size() }
func (p *Panel) Visible() bool     { return p.visible }
func (p *Panel) Transparent() bool { return p.transparent }

// Rect returns the panel's extent in absolute screen coordinates.
func (p *Panel) Rect() geom.Rect {
	return geom.RectAt(p.pos, p.buf.Size())
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/ansi.go
// Summary: Pre-allocated escape fragments and zero-alloc sequence writers.

package vt

import "bytes"

var (
	csi     = []byte("\x1b[")
	csiSGR0 = []byte("\x1b[0m")
	csiRIS  = []byte("\x1bc")

	csiClear      = []byte("\x1b[2J\x1b[H")
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h\x1b[H")
	csiAltScreenExit  = []byte("\x1b[?1049l")

	// DECAWM off keeps the cursor parked at the right edge so painting the
	// bottom-right cell cannot scroll the screen.
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	csiPasteOn  = []byte("\x1b[?2004h")
	csiPasteOff = []byte("\x1b[?2004l")

	csiFocusOn  = []byte("\x1b[?1004h")
	csiFocusOff = []byte("\x1b[?1004l")

	// Mouse tracking: 1000 click, 1002 drag, 1003 any-motion, 1006 SGR
	// extended coordinates (required past the legacy 223-cell limit).
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOn    = []byte("\x1b[?1002h")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOn  = []byte("\x1b[?1003h")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseSGROff    = []byte("\x1b[?1006l")

	csiFg256 = []byte("\x1b[38;5;")
	csiBg256 = []byte("\x1b[48;5;")
	csiFgRGB = []byte("\x1b[38;2;")
	csiBgRGB = []byte("\x1b[48;2;")
)

// writeInt writes a non-negative integer without allocating. Terminal
// parameters are almost always below 1000.
func writeInt(w *bytes.Buffer, n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case n < 10:
		w.WriteByte(byte(n) + '0')
	case n < 100:
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
	case n < 1000:
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
	default:
		var buf [8]byte
		i := len(buf)
		for n > 0 {
			i--
			buf[i] = byte(n%10) + '0'
			n /= 10
		}
		w.Write(buf[i:])
	}
}

// writeCursorPos emits CUP for a 0-indexed position.
func writeCursorPos(w *bytes.Buffer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward emits CUF, moving right without overwriting.
func writeCursorForward(w *bytes.Buffer, n int) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeInt(w, n)
	}
	w.WriteByte('C')
}

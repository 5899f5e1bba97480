// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/decoder.go
// Summary: Incremental decoder turning raw terminal bytes into input events.
//
// The decoder never blocks: Feed consumes as much of its buffer as parses
// completely and keeps the rest for the next read, so escape sequences and
// UTF-8 runes split across reads are reassembled transparently. Sequences
// that match no table are dropped up to the next recognizable boundary;
// malformed input produces no event and never an error.

package vt

import (
	"bytes"
	"unicode/utf8"
)

var pasteEnd = []byte("\x1b[201~")

// maxCSILen bounds CSI accumulation; longer sequences are treated as noise.
const maxCSILen = 64

// Decoder is the input-side protocol state machine. It is not safe for
// concurrent use; the read loop owns it.
type Decoder struct {
	buf     []byte
	pasting bool
	paste   []byte
}

// Feed appends raw bytes and returns every event that can be decoded
// without waiting for more input.
func (d *Decoder) Feed(p []byte) []Event {
	d.buf = append(d.buf, p...)
	var evs []Event
	consumed := d.parse(d.buf, &evs)
	if consumed > 0 {
		if consumed >= len(d.buf) {
			d.buf = d.buf[:0]
		} else {
			copy(d.buf, d.buf[consumed:])
			d.buf = d.buf[:len(d.buf)-consumed]
		}
	}
	return evs
}

// Flush resolves input that is ambiguous until a read timeout: a lone ESC
// becomes an Escape key press, and an unterminated paste is emitted with any
// partial end marker stripped. Call it when a poll deadline expires with no
// further bytes.
func (d *Decoder) Flush() []Event {
	var evs []Event
	if d.pasting {
		text := d.paste
		if i := bytes.LastIndexByte(text, 0x1b); i >= 0 {
			tail := text[i:]
			if len(tail) < len(pasteEnd) && bytes.HasPrefix(pasteEnd, tail) {
				text = text[:i]
			}
		}
		evs = append(evs, Event{Type: EventPaste, Paste: string(text)})
		d.paste = nil
		d.pasting = false
		return evs
	}
	if len(d.buf) == 1 && d.buf[0] == 0x1b {
		evs = append(evs, Event{Type: EventKey, Key: KeyEscape})
		d.buf = d.buf[:0]
		return evs
	}
	if len(d.buf) > 0 && d.buf[0] == 0x1b {
		// Escape sequence that never completed. Resynchronize.
		d.buf = d.buf[:0]
	}
	return evs
}

// parse consumes as much of data as possible, appending events, and returns
// the number of bytes consumed.
func (d *Decoder) parse(data []byte, evs *[]Event) int {
	i := 0
	n := len(data)
	for i < n {
		if d.pasting {
			i += d.feedPaste(data[i:], evs)
			continue
		}

		b := data[i]

		// Fast path: printable ASCII.
		if b >= 0x20 && b < 0x7f {
			*evs = append(*evs, Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++
			continue
		}

		if b == 0x1b {
			consumed := d.parseEscape(data[i:], evs)
			if consumed == 0 {
				return i // incomplete, wait for more bytes
			}
			i += consumed
			continue
		}

		if b < 0x20 {
			*evs = append(*evs, controlEvent(b))
			i++
			continue
		}

		if b == 0x7f {
			*evs = append(*evs, Event{Type: EventKey, Key: KeyBackspace})
			i++
			continue
		}

		// UTF-8 multibyte. Partial runes wait for the next read; invalid
		// bytes become the replacement rune so binary noise cannot wedge
		// the decoder.
		if !utf8.FullRune(data[i:]) {
			return i
		}
		r, size := utf8.DecodeRune(data[i:])
		*evs = append(*evs, Event{Type: EventKey, Key: KeyRune, Rune: r})
		i += size
	}
	return i
}

// feedPaste moves bytes into the paste buffer until the end marker arrives.
func (d *Decoder) feedPaste(data []byte, evs *[]Event) int {
	for i, b := range data {
		d.paste = append(d.paste, b)
		if b == '~' && bytes.HasSuffix(d.paste, pasteEnd) {
			text := d.paste[:len(d.paste)-len(pasteEnd)]
			*evs = append(*evs, Event{Type: EventPaste, Paste: string(text)})
			d.paste = nil
			d.pasting = false
			return i + 1
		}
	}
	return len(data)
}

// controlEvent maps C0 control bytes to events.
func controlEvent(b byte) Event {
	switch b {
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x00:
		return Event{Type: EventKey, Key: KeyRune, Rune: ' ', Mods: ModCtrl}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyRune, Rune: rune('a' + b - 1), Mods: ModCtrl}
	}
	// 0x1c-0x1f: Ctrl+\ Ctrl+] Ctrl+^ Ctrl+_
	return Event{Type: EventKey, Key: KeyRune, Rune: rune('\\' + b - 0x1c), Mods: ModCtrl}
}

// parseEscape handles a sequence starting with ESC. Returns bytes consumed,
// or 0 when more input is needed.
func (d *Decoder) parseEscape(data []byte, evs *[]Event) int {
	if len(data) < 2 {
		return 0
	}
	switch data[1] {
	case 0x1b:
		*evs = append(*evs, Event{Type: EventKey, Key: KeyEscape, Mods: ModAlt})
		return 2
	case '[':
		return d.parseCSI(data, evs)
	case 'O':
		return parseSS3(data, evs)
	case ']':
		return parseOSC(data)
	}
	if data[1] < 0x20 {
		ev := controlEvent(data[1])
		ev.Mods |= ModAlt
		*evs = append(*evs, ev)
		return 2
	}
	if data[1] >= 0x20 && data[1] < 0x7f {
		*evs = append(*evs, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Mods: ModAlt})
		return 2
	}
	if data[1] == 0x7f {
		*evs = append(*evs, Event{Type: EventKey, Key: KeyBackspace, Mods: ModAlt})
		return 2
	}
	// ESC followed by a byte outside every table: drop both.
	return 2
}

// parseCSI scans ESC [ <body> <final>. Parameter bytes are 0x30-0x3f,
// intermediates 0x20-0x2f, the final byte 0x40-0x7e.
func (d *Decoder) parseCSI(data []byte, evs *[]Event) int {
	if len(data) < 3 {
		return 0
	}
	if data[2] == '<' {
		return parseSGRMouse(data, evs)
	}

	end := 2
	for end < len(data) && end < maxCSILen {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			end++
			return d.executeCSI(data[2:end], evs, end)
		}
		if b < 0x20 || b > 0x3f {
			// Not a legal CSI byte: drop what we scanned and resync here.
			return end
		}
		end++
	}
	if end >= maxCSILen {
		return end // runaway sequence, discard
	}
	return 0 // incomplete
}

// executeCSI interprets a complete CSI body (final byte included).
func (d *Decoder) executeCSI(body []byte, evs *[]Event, consumed int) int {
	switch {
	case bytes.Equal(body, []byte("200~")):
		d.pasting = true
		d.paste = d.paste[:0]
		return consumed
	case bytes.Equal(body, []byte("201~")):
		return consumed // stray paste end, drop
	case bytes.Equal(body, []byte("I")):
		*evs = append(*evs, Event{Type: EventFocus, FocusIn: true})
		return consumed
	case bytes.Equal(body, []byte("O")):
		*evs = append(*evs, Event{Type: EventFocus, FocusIn: false})
		return consumed
	}
	if key, mod, ok := lookupCSI(body); ok {
		*evs = append(*evs, Event{Type: EventKey, Key: key, Mods: mod})
	}
	// Unknown but well-formed CSI: consumed silently.
	return consumed
}

func parseSS3(data []byte, evs *[]Event) int {
	if len(data) < 3 {
		return 0
	}
	if key, mod, ok := lookupSS3(data[2:3]); ok {
		*evs = append(*evs, Event{Type: EventKey, Key: key, Mods: mod})
	}
	return 3
}

// parseOSC consumes an operating-system-command sequence terminated by BEL
// or ST (ESC \). The payload is dropped; nothing in the input path needs it.
func parseOSC(data []byte) int {
	const maxOSCLen = 4096
	for i := 2; i < len(data) && i < maxOSCLen; i++ {
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
	if len(data) >= maxOSCLen {
		return maxOSCLen
	}
	return 0
}

// parseSGRMouse decodes ESC [ < btn ; x ; y (M|m).
func parseSGRMouse(data []byte, evs *[]Event) int {
	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		if end >= 32 {
			return end // garbage, discard
		}
		return 0
	}
	if data[end] != 'M' && data[end] != 'm' {
		return end
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1 // malformed, drop silently
	}

	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1}

	switch {
	case btn&64 != 0:
		if btn&1 != 0 {
			ev.MouseBtn = MouseBtnWheelDown
		} else {
			ev.MouseBtn = MouseBtnWheelUp
		}
		ev.MouseAction = MouseActionPress
	default:
		switch btn & 3 {
		case 0:
			ev.MouseBtn = MouseBtnLeft
		case 1:
			ev.MouseBtn = MouseBtnMiddle
		case 2:
			ev.MouseBtn = MouseBtnRight
		case 3:
			ev.MouseBtn = MouseBtnNone
		}
		switch {
		case btn&32 != 0:
			if ev.MouseBtn == MouseBtnNone {
				ev.MouseAction = MouseActionMove
			} else {
				ev.MouseAction = MouseActionDrag
			}
		case data[end] == 'm':
			ev.MouseAction = MouseActionRelease
		case ev.MouseBtn == MouseBtnNone:
			ev.MouseAction = MouseActionMove
		default:
			ev.MouseAction = MouseActionPress
		}
	}

	if btn&4 != 0 {
		ev.Mods |= ModShift
	}
	if btn&8 != 0 {
		ev.Mods |= ModAlt
	}
	if btn&16 != 0 {
		ev.Mods |= ModCtrl
	}

	*evs = append(*evs, ev)
	return end + 1
}

// parseSGRParams extracts btn, x, y from "btn;x;y".
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	field := 0
	val := 0
	for _, b := range data {
		switch {
		case b == ';':
			switch field {
			case 0:
				btn = val
			case 1:
				x = val
			default:
				return 0, 0, 0, false
			}
			field++
			val = 0
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 99999 {
				return 0, 0, 0, false
			}
		default:
			return 0, 0, 0, false
		}
	}
	if field != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/keys.go
// Summary: Named keys, modifier flags and the CSI/SS3 lookup tables.

package vt

// Key identifies a named (non-text) key.
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // printable character, see Event.Rune

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

type seqEntry struct {
	key Key
	mod Modifier
}

// csiTable maps the bytes between ESC [ and the final byte (final byte
// included) to named keys.
var csiTable = map[string]seqEntry{
	"A": {KeyUp, ModNone},
	"B": {KeyDown, ModNone},
	"C": {KeyRight, ModNone},
	"D": {KeyLeft, ModNone},
	"H": {KeyHome, ModNone},
	"F": {KeyEnd, ModNone},
	"Z": {KeyBacktab, ModShift},

	"1;2A": {KeyUp, ModShift},
	"1;2B": {KeyDown, ModShift},
	"1;2C": {KeyRight, ModShift},
	"1;2D": {KeyLeft, ModShift},
	"1;3A": {KeyUp, ModAlt},
	"1;3B": {KeyDown, ModAlt},
	"1;3C": {KeyRight, ModAlt},
	"1;3D": {KeyLeft, ModAlt},
	"1;5A": {KeyUp, ModCtrl},
	"1;5B": {KeyDown, ModCtrl},
	"1;5C": {KeyRight, ModCtrl},
	"1;5D": {KeyLeft, ModCtrl},

	"1~": {KeyHome, ModNone},
	"2~": {KeyInsert, ModNone},
	"3~": {KeyDelete, ModNone},
	"4~": {KeyEnd, ModNone},
	"5~": {KeyPageUp, ModNone},
	"6~": {KeyPageDown, ModNone},

	"11~": {KeyF1, ModNone},
	"12~": {KeyF2, ModNone},
	"13~": {KeyF3, ModNone},
	"14~": {KeyF4, ModNone},
	"15~": {KeyF5, ModNone},
	"17~": {KeyF6, ModNone},
	"18~": {KeyF7, ModNone},
	"19~": {KeyF8, ModNone},
	"20~": {KeyF9, ModNone},
	"21~": {KeyF10, ModNone},
	"23~": {KeyF11, ModNone},
	"24~": {KeyF12, ModNone},
}

// ss3Table maps the byte after ESC O.
var ss3Table = map[string]seqEntry{
	"A": {KeyUp, ModNone},
	"B": {KeyDown, ModNone},
	"C": {KeyRight, ModNone},
	"D": {KeyLeft, ModNone},
	"H": {KeyHome, ModNone},
	"F": {KeyEnd, ModNone},
	"P": {KeyF1, ModNone},
	"Q": {KeyF2, ModNone},
	"R": {KeyF3, ModNone},
	"S": {KeyF4, ModNone},
}

// lookupCSI resolves a CSI body. The string([]byte) conversion inside the
// map index does not allocate.
func lookupCSI(body []byte) (Key, Modifier, bool) {
	if e, ok := csiTable[string(body)]; ok {
		return e.key, e.mod, true
	}
	return KeyNone, ModNone, false
}

func lookupSS3(body []byte) (Key, Modifier, bool) {
	if e, ok := ss3Table[string(body)]; ok {
		return e.key, e.mod, true
	}
	return KeyNone, ModNone, false
}

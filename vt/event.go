// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/event.go
// Summary: Decoded terminal input events.

package vt

// EventType distinguishes input event categories.
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventResize
	EventPaste
	EventFocus
	EventError
	EventClosed
)

// Event is one decoded input event. Fields are valid per Type.
type Event struct {
	Type EventType

	// EventKey
	Key  Key
	Rune rune
	Mods Modifier

	// EventMouse, 0-indexed cell coordinates
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction

	// EventResize
	Width  int
	Height int

	// EventPaste: the reassembled paste text
	Paste string

	// EventFocus
	FocusIn bool

	// EventError
	Err error
}

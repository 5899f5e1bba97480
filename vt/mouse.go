// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/mouse.go
// Summary: Mouse button, action and tracking-mode types.

package vt

// MouseButton identifies which button an event refers to.
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
)

// MouseAction is what the button (or pointer) did.
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove // motion with no button held (any-motion tracking)
	MouseActionDrag // motion with a button held
)

// MouseMode selects which pointer events the terminal reports (bitmask).
// SGR extended coordinates are always enabled alongside any mode.
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0
	MouseModeDrag   MouseMode = 1 << 1
	MouseModeMotion MouseMode = 1 << 2
)

func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "Left"
	case MouseBtnMiddle:
		return "Middle"
	case MouseBtnRight:
		return "Right"
	case MouseBtnWheelUp:
		return "WheelUp"
	case MouseBtnWheelDown:
		return "WheelDown"
	default:
		return "None"
	}
}

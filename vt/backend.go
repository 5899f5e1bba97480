// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/backend.go
// Summary: Platform abstraction over the raw terminal device.

package vt

import "github.com/framegrace/texelcore/geom"

// Backend abstracts the terminal device so the session layer can run
// against a real tty or an in-memory double in tests.
type Backend interface {
	// Init puts the device into raw mode.
	Init() error
	// Fini restores the device state captured by Init.
	Fini()

	// Size reports the current screen size in cells.
	Size() geom.Size

	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read blocks until input arrives, the poll deadline expires, the stop
	// channel closes, or an error occurs. timedOut is true when the deadline
	// expired with no data; a nil slice with a nil error and timedOut false
	// means the input stream ended.
	Read(stopCh <-chan struct{}) (data []byte, timedOut bool, err error)

	// SetResizeHandler registers a callback invoked when the screen size
	// changes. Pass nil to stop delivery.
	SetResizeHandler(handler func(geom.Size))
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/terminal.go
// Summary: Terminal session: mode setup, render path and the input loop.

package vt

import (
	"io"
	"sync"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
)

// Terminal owns one interactive terminal session. Init switches the device
// into raw mode, the alternate screen and bracketed paste; Fini undoes all
// of it. Render pushes frames through the diff encoder, and PollEvent
// delivers decoded input.
type Terminal struct {
	backend Backend
	enc     *Encoder

	events   chan Event
	synthCh  chan Event
	resizeCh chan geom.Size
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
}

// New creates a terminal session on the given backend. When no color mode
// is passed it is detected from the environment.
func New(backend Backend, colorMode ...ColorMode) *Terminal {
	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}
	return &Terminal{
		backend:  backend,
		enc:      NewEncoder(c),
		events:   make(chan Event, 64),
		synthCh:  make(chan Event, 16),
		resizeCh: make(chan geom.Size, 1),
	}
}

// ColorMode returns the session's color capability.
func (t *Terminal) ColorMode() ColorMode { return t.enc.mode }

// Size returns the current screen size.
func (t *Terminal) Size() geom.Size { return t.backend.Size() }

// Init enters raw mode and arms the session. Safe to call once.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.enc.Resize(t.backend.Size())

	t.backend.SetResizeHandler(func(size geom.Size) {
		// Keep only the latest size pending.
		select {
		case t.resizeCh <- size:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- size:
			default:
			}
		}
	})

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	// No autowrap: painting the bottom-right cell must not scroll.
	t.writeRaw(csiAutoWrapOff)
	t.writeRaw(csiPasteOn)
	t.writeRaw(csiFocusOn)

	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.readLoop(t.stopCh, t.doneCh)

	t.initialized = true
	return nil
}

// Fini restores the terminal. Safe to call multiple times.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.mouseMode != MouseModeNone {
		t.writeRaw(csiMouseMotionOff)
		t.writeRaw(csiMouseDragOff)
		t.writeRaw(csiMouseClickOff)
		t.writeRaw(csiMouseSGROff)
	}
	t.writeRaw(csiFocusOff)
	t.writeRaw(csiPasteOff)

	close(t.stopCh)
	<-t.doneCh

	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Autowrap back on after leaving the alternate screen so the main
	// buffer keeps normal wrapping.
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()
	t.finalized = true
}

// Render encodes the frame against the previous one and writes the delta.
// Frames whose size no longer matches the screen are dropped; the resize
// event already in flight triggers a recomposite at the right size.
func (t *Terminal) Render(frame *grid.Buffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}
	if frame.Size() != t.backend.Size() {
		return nil
	}

	out := t.enc.Render(frame)
	if len(out) == 0 {
		return nil
	}
	return t.backend.Write(out)
}

// Sync forces the next Render to repaint the whole screen.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enc.Invalidate()
}

// SetTitle sets the terminal window title.
func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.writeRaw([]byte("\x1b]0;" + title + "\x07"))
}

// PollEvent blocks until the next input, synthetic or resize event.
func (t *Terminal) PollEvent() Event {
	select {
	case ev := <-t.synthCh:
		return ev
	default:
	}

	select {
	case ev := <-t.synthCh:
		return ev
	case ev := <-t.events:
		return ev
	case size := <-t.resizeCh:
		return Event{Type: EventResize, Width: size.W, Height: size.H}
	}
}

// TryPollEvent returns the next pending event without blocking.
func (t *Terminal) TryPollEvent() (Event, bool) {
	select {
	case ev := <-t.synthCh:
		return ev, true
	default:
	}
	select {
	case ev := <-t.events:
		return ev, true
	case size := <-t.resizeCh:
		return Event{Type: EventResize, Width: size.W, Height: size.H}, true
	default:
		return Event{}, false
	}
}

// PostEvent injects a synthetic event; it is dropped when the queue is full.
func (t *Terminal) PostEvent(ev Event) {
	select {
	case t.synthCh <- ev:
	default:
	}
}

// SetMouseMode switches pointer tracking. SGR extended coordinates are
// enabled alongside any mode and disabled with the last one.
func (t *Terminal) SetMouseMode(mode MouseMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	old := t.mouseMode
	t.mouseMode = mode

	if old&MouseModeMotion != 0 && mode&MouseModeMotion == 0 {
		t.writeRaw(csiMouseMotionOff)
	}
	if old&MouseModeDrag != 0 && mode&MouseModeDrag == 0 {
		t.writeRaw(csiMouseDragOff)
	}
	if old&MouseModeClick != 0 && mode&MouseModeClick == 0 {
		t.writeRaw(csiMouseClickOff)
	}
	if mode == MouseModeNone && old != MouseModeNone {
		t.writeRaw(csiMouseSGROff)
	}

	if mode != MouseModeNone && old == MouseModeNone {
		t.writeRaw(csiMouseSGROn)
	}
	if mode&MouseModeClick != 0 && old&MouseModeClick == 0 {
		t.writeRaw(csiMouseClickOn)
	}
	if mode&MouseModeDrag != 0 && old&MouseModeDrag == 0 {
		t.writeRaw(csiMouseDragOn)
	}
	if mode&MouseModeMotion != 0 && old&MouseModeMotion == 0 {
		t.writeRaw(csiMouseMotionOn)
	}
}

// readLoop owns the decoder and pumps backend reads into the event queue.
func (t *Terminal) readLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	var dec Decoder
	for {
		data, timedOut, err := t.backend.Read(stopCh)

		select {
		case <-stopCh:
			return
		default:
		}

		switch {
		case err != nil:
			t.deliver(stopCh, Event{Type: EventError, Err: err})
			return
		case timedOut:
			for _, ev := range dec.Flush() {
				if !t.deliver(stopCh, ev) {
					return
				}
			}
		case len(data) == 0:
			t.deliver(stopCh, Event{Type: EventClosed})
			return
		default:
			for _, ev := range dec.Feed(data) {
				if !t.deliver(stopCh, ev) {
					return
				}
			}
		}
	}
}

func (t *Terminal) deliver(stopCh <-chan struct{}, ev Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-stopCh:
		return false
	}
}

func (t *Terminal) writeRaw(p []byte) {
	t.backend.Write(p)
}

// EmergencyReset writes best-effort restore sequences. Call from panic
// recovery when Fini cannot run normally; escape sequences alone do not
// restore termios, but they make the session readable again.
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiFocusOff)
	w.Write(csiPasteOff)
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/shellpanel/shellpanel.go
// Summary: Interactive shell hosted on a pty, painting into a panel.

package shellpanel

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"unicode/utf8"

	"github.com/creack/pty"

	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
	"github.com/framegrace/texelcore/vt"
)

// App runs a shell on a pty and mirrors its output into a panel. Input
// events are translated back to bytes on the pty. One goroutine pumps the
// pty; panel writes are serialized through the importer mutex.
type App struct {
	p   *panel.Panel
	imp *importer

	mu   sync.Mutex
	cmd  *exec.Cmd
	ptmx *os.File
	stop chan struct{}
	done chan struct{}
}

// New wires the app to a panel. Default colors follow the common dark theme.
func New(p *panel.Panel) *App {
	defFg := grid.RGB{R: 229, G: 229, B: 229}
	defBg := grid.RGB{R: 16, G: 16, B: 16}
	p.Fill(grid.Cell{Bg: defBg})
	return &App{
		p:   p,
		imp: newImporter(p, defFg, defBg),
	}
}

// Start launches the command (or $SHELL, or /bin/sh) on a fresh pty sized
// to the panel.
func (a *App) Start(command string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ptmx != nil {
		return fmt.Errorf("shellpanel: already started")
	}

	if command == "" {
		command = os.Getenv("SHELL")
	}
	if command == "" {
		command = "/bin/sh"
	}

	size := a.p.Size()
	cmd := exec.Command(command)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(size.H),
		Cols: uint16(size.W),
	})
	if err != nil {
		return fmt.Errorf("shellpanel: failed to start %q: %w", command, err)
	}

	a.cmd = cmd
	a.ptmx = ptmx
	a.stop = make(chan struct{})
	a.done = make(chan struct{})

	go a.pump(ptmx, a.stop, a.done)
	return nil
}

func (a *App) pump(ptmx *os.File, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			a.mu.Lock()
			a.imp.Feed(buf[:n])
			a.mu.Unlock()
		}
		if err != nil {
			select {
			case <-stop:
			default:
				log.Printf("Shellpanel: pty read ended: %v", err)
			}
			return
		}
	}
}

// Stop tears the pty and process down. Safe to call twice.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ptmx == nil {
		return
	}
	close(a.stop)
	a.ptmx.Close()
	if a.cmd != nil && a.cmd.Process != nil {
		a.cmd.Process.Kill()
		a.cmd.Wait()
	}
	a.ptmx = nil
	a.cmd = nil
}

// Resize reshapes the panel and informs the pty.
func (a *App) Resize(size geom.Size) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.p.Resize(size)
	a.imp.y, a.imp.x = 0, 0
	a.p.Fill(grid.Cell{Bg: a.imp.defBg})
	if a.ptmx != nil {
		pty.Setsize(a.ptmx, &pty.Winsize{
			Rows: uint16(size.H),
			Cols: uint16(size.W),
		})
	}
}

// HandleEvent forwards key and paste events to the shell.
func (a *App) HandleEvent(ev vt.Event) {
	data := inputBytes(ev)
	if len(data) == 0 {
		return
	}

	a.mu.Lock()
	ptmx := a.ptmx
	a.mu.Unlock()
	if ptmx == nil {
		return
	}
	if _, err := ptmx.Write(data); err != nil {
		log.Printf("Shellpanel: pty write failed: %v", err)
	}
}

// inputBytes encodes an event as the byte sequence a terminal would send.
func inputBytes(ev vt.Event) []byte {
	switch ev.Type {
	case vt.EventPaste:
		return []byte(ev.Paste)
	case vt.EventKey:
	default:
		return nil
	}

	switch ev.Key {
	case vt.KeyRune:
		var out []byte
		if ev.Mods&vt.ModAlt != 0 {
			out = append(out, 0x1b)
		}
		if ev.Mods&vt.ModCtrl != 0 && ev.Rune >= 'a' && ev.Rune <= 'z' {
			return append(out, byte(ev.Rune-'a'+1))
		}
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], ev.Rune)
		return append(out, rb[:n]...)
	case vt.KeyEnter:
		return []byte{'\r'}
	case vt.KeyTab:
		return []byte{'\t'}
	case vt.KeyBacktab:
		return []byte("\x1b[Z")
	case vt.KeyBackspace:
		return []byte{0x7f}
	case vt.KeyEscape:
		return []byte{0x1b}
	case vt.KeyUp:
		return []byte("\x1b[A")
	case vt.KeyDown:
		return []byte("\x1b[B")
	case vt.KeyRight:
		return []byte("\x1b[C")
	case vt.KeyLeft:
		return []byte("\x1b[D")
	case vt.KeyHome:
		return []byte("\x1b[H")
	case vt.KeyEnd:
		return []byte("\x1b[F")
	case vt.KeyInsert:
		return []byte("\x1b[2~")
	case vt.KeyDelete:
		return []byte("\x1b[3~")
	case vt.KeyPageUp:
		return []byte("\x1b[5~")
	case vt.KeyPageDown:
		return []byte("\x1b[6~")
	}
	return nil
}

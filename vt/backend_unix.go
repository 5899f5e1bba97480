// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/backend_unix.go
// Summary: tty backend using raw mode, poll(2) and SIGWINCH.

//go:build unix

package vt

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/framegrace/texelcore/geom"
)

// readTimeoutMs is the poll deadline. It doubles as the escape-sequence
// disambiguation timeout: a lone ESC older than this is a keypress.
const readTimeoutMs = 50

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

// NewBackend returns a backend bound to stdin/stdout.
func NewBackend() Backend {
	return &unixBackend{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return fmt.Errorf("stdin is not a terminal")
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	b.SetResizeHandler(nil)
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() geom.Size {
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return geom.Size{H: 24, W: 80}
	}
	return geom.Size{H: int(ws.Row), W: int(ws.Col)}
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

func (b *unixBackend) Read(stopCh <-chan struct{}) ([]byte, bool, error) {
	buf := make([]byte, 4096)

	for {
		select {
		case <-stopCh:
			return nil, false, nil
		default:
		}

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}

		n, err := unix.Poll(fds, readTimeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, false, err
		}

		if n == 0 {
			return nil, true, nil
		}

		rn, err := unix.Read(b.inFd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, false, err
		}

		if rn == 0 {
			return nil, false, nil
		}

		ret := make([]byte, rn)
		copy(ret, buf[:rn])
		return ret, false, nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(geom.Size)) {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if handler == nil {
		return
	}

	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})
	stopCh, doneCh := b.resizeStopCh, b.resizeDoneCh

	go func() {
		defer close(doneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-stopCh:
				return
			case <-sigCh:
				handler(b.Size())
			}
		}
	}()
}

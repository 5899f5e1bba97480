// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/backend_mem.go
// Summary: In-memory backend for tests and headless embedding.

package vt

import (
	"bytes"
	"sync"
	"time"

	"github.com/framegrace/texelcore/geom"
)

// MemBackend implements Backend against in-memory buffers. Input is fed with
// FeedInput, output accumulates and is inspected with Output. The zero value
// is not usable; call NewMemBackend.
type MemBackend struct {
	mu      sync.Mutex
	size    geom.Size
	out     bytes.Buffer
	inCh    chan []byte
	closeCh chan struct{}
	handler func(geom.Size)

	// PollTimeout is the simulated read deadline; reads with no pending
	// input report a timeout after it elapses.
	PollTimeout time.Duration
}

func NewMemBackend(size geom.Size) *MemBackend {
	return &MemBackend{
		size:        size,
		inCh:        make(chan []byte, 64),
		closeCh:     make(chan struct{}),
		PollTimeout: 5 * time.Millisecond,
	}
}

func (b *MemBackend) Init() error { return nil }
func (b *MemBackend) Fini()       {}

func (b *MemBackend) Size() geom.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

func (b *MemBackend) Write(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out.Write(p)
	return nil
}

func (b *MemBackend) Read(stopCh <-chan struct{}) ([]byte, bool, error) {
	select {
	case data, ok := <-b.inCh:
		if !ok {
			return nil, false, nil
		}
		return data, false, nil
	case <-b.closeCh:
		return nil, false, nil
	case <-stopCh:
		return nil, false, nil
	case <-time.After(b.PollTimeout):
		return nil, true, nil
	}
}

func (b *MemBackend) SetResizeHandler(handler func(geom.Size)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
}

// FeedInput queues bytes for the next Read.
func (b *MemBackend) FeedInput(p []byte) {
	data := make([]byte, len(p))
	copy(data, p)
	b.inCh <- data
}

// CloseInput ends the input stream; subsequent reads report EOF.
func (b *MemBackend) CloseInput() {
	close(b.closeCh)
}

// SetSize changes the reported size and fires the resize handler.
func (b *MemBackend) SetSize(size geom.Size) {
	b.mu.Lock()
	b.size = size
	h := b.handler
	b.mu.Unlock()
	if h != nil {
		h(size)
	}
}

// Output returns a copy of everything written so far.
func (b *MemBackend) Output() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.out.Len())
	copy(out, b.out.Bytes())
	return out
}

// ResetOutput discards accumulated output.
func (b *MemBackend) ResetOutput() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out.Reset()
}

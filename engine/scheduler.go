// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: engine/scheduler.go
// Summary: Due-time min-heap for timed callbacks, driven by the engine tick.
//
// Callbacks run on the render loop goroutine, single-threaded with
// compositing, so they may mutate panels without extra locking. Scheduling
// and cancellation are safe from any goroutine.

package engine

import (
	"container/heap"
	"sync"
	"time"
)

// Handle identifies a scheduled callback for cancellation.
type Handle uint64

type task struct {
	at     time.Time
	seq    uint64
	handle Handle
	fn     func(now time.Time)
	index  int
}

// Scheduler orders callbacks by due time. Equal due times run in schedule
// order.
type Scheduler struct {
	mu      sync.Mutex
	heap    taskHeap
	pending map[Handle]*task
	nextSeq uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[Handle]*task)}
}

// Schedule registers fn to run at or after the given time.
func (s *Scheduler) Schedule(at time.Time, fn func(now time.Time)) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	t := &task{
		at:     at,
		seq:    s.nextSeq,
		handle: Handle(s.nextSeq),
		fn:     fn,
	}
	heap.Push(&s.heap, t)
	s.pending[t.handle] = t
	return t.handle
}

// After schedules fn relative to now.
func (s *Scheduler) After(d time.Duration, fn func(now time.Time)) Handle {
	return s.Schedule(time.Now().Add(d), fn)
}

// Cancel removes a pending callback. It reports whether the callback was
// still pending.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.pending[h]
	if !ok {
		return false
	}
	delete(s.pending, h)
	heap.Remove(&s.heap, t.index)
	return true
}

// Tick runs every callback due at or before now and returns how many ran.
func (s *Scheduler) Tick(now time.Time) int {
	ran := 0
	for {
		s.mu.Lock()
		if s.heap.Len() == 0 || s.heap[0].at.After(now) {
			s.mu.Unlock()
			return ran
		}
		t := heap.Pop(&s.heap).(*task)
		delete(s.pending, t.handle)
		s.mu.Unlock()

		// Run outside the lock so a callback can reschedule.
		t.fn(now)
		ran++
	}
}

// Len reports how many callbacks are pending.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heap.Len()
}

// NextDue returns the earliest pending due time.
func (s *Scheduler) NextDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.heap.Len() == 0 {
		return time.Time{}, false
	}
	return s.heap[0].at, true
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: engine/scheduler_test.go
// Summary: Scheduler ordering, cancellation and reschedule tests.

package engine

import (
	"testing"
	"time"
)

func TestSchedulerRunsInDueOrder(t *testing.T) {
	s := NewScheduler()
	base := time.Unix(1000, 0)

	var order []string
	s.Schedule(base.Add(3*time.Second), func(time.Time) { order = append(order, "c") })
	s.Schedule(base.Add(1*time.Second), func(time.Time) { order = append(order, "a") })
	s.Schedule(base.Add(2*time.Second), func(time.Time) { order = append(order, "b") })

	ran := s.Tick(base.Add(10 * time.Second))
	if ran != 3 {
		t.Fatalf("ran %d callbacks, want 3", ran)
	}
	if got := order[0] + order[1] + order[2]; got != "abc" {
		t.Errorf("order %q, want abc", got)
	}
}

func TestSchedulerEqualDueTimesAreStable(t *testing.T) {
	s := NewScheduler()
	at := time.Unix(1000, 0)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.Schedule(at, func(time.Time) { order = append(order, i) })
	}

	s.Tick(at)
	for i, got := range order {
		if got != i {
			t.Fatalf("position %d ran callback %d; equal due times must run in schedule order", i, got)
		}
	}
}

func TestSchedulerOnlyDueCallbacksRun(t *testing.T) {
	s := NewScheduler()
	base := time.Unix(1000, 0)

	ran := map[string]bool{}
	s.Schedule(base.Add(1*time.Second), func(time.Time) { ran["early"] = true })
	s.Schedule(base.Add(1*time.Hour), func(time.Time) { ran["late"] = true })

	s.Tick(base.Add(2 * time.Second))
	if !ran["early"] || ran["late"] {
		t.Errorf("ran=%v, want only early", ran)
	}
	if s.Len() != 1 {
		t.Errorf("pending = %d, want 1", s.Len())
	}

	s.Tick(base.Add(2 * time.Hour))
	if !ran["late"] {
		t.Error("late callback never ran")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	at := time.Unix(1000, 0)

	fired := false
	h := s.Schedule(at, func(time.Time) { fired = true })

	if !s.Cancel(h) {
		t.Fatal("Cancel of pending handle returned false")
	}
	if s.Cancel(h) {
		t.Error("second Cancel returned true")
	}

	s.Tick(at.Add(time.Minute))
	if fired {
		t.Error("cancelled callback ran")
	}
}

func TestSchedulerRescheduleFromCallback(t *testing.T) {
	s := NewScheduler()
	base := time.Unix(1000, 0)

	count := 0
	var again func(now time.Time)
	again = func(now time.Time) {
		count++
		if count < 3 {
			s.Schedule(now.Add(time.Second), again)
		}
	}
	s.Schedule(base, again)

	now := base
	for i := 0; i < 5; i++ {
		s.Tick(now)
		now = now.Add(time.Second)
	}
	if count != 3 {
		t.Errorf("chained callback ran %d times, want 3", count)
	}
}

func TestSchedulerNextDue(t *testing.T) {
	s := NewScheduler()
	if _, ok := s.NextDue(); ok {
		t.Error("empty scheduler reported a due time")
	}

	at := time.Unix(2000, 0)
	s.Schedule(at.Add(time.Hour), func(time.Time) {})
	s.Schedule(at, func(time.Time) {})

	due, ok := s.NextDue()
	if !ok || !due.Equal(at) {
		t.Errorf("NextDue = %v ok=%v, want %v", due, ok, at)
	}
}

// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/clock/clock.go
// Summary: Centered wall-clock panel driven by the engine scheduler.

package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/framegrace/texelcore/engine"
	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
)

const layout = "15:04:05"

// App paints the current time once a second. It reschedules itself on the
// engine scheduler, so it runs no goroutine of its own.
type App struct {
	p     *panel.Panel
	sched *engine.Scheduler
	fg    grid.RGB

	mu      sync.Mutex
	handle  engine.Handle
	running bool
}

func New(p *panel.Panel, sched *engine.Scheduler) *App {
	return &App{
		p:     p,
		sched: sched,
		fg:    grid.RGB{R: 41, G: 184, B: 219},
	}
}

// Start draws immediately and begins the per-second update cycle.
func (a *App) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.mu.Unlock()

	a.Draw(time.Now())
	a.scheduleNext()
}

// Stop cancels the pending update.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	a.sched.Cancel(a.handle)
}

func (a *App) scheduleNext() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	// Fire just past the next second boundary so the display never lags.
	next := time.Until(time.Now().Truncate(time.Second).Add(time.Second))
	a.handle = a.sched.After(next, func(now time.Time) {
		a.Draw(now)
		a.scheduleNext()
	})
}

// Draw paints the given time centered in the panel.
func (a *App) Draw(now time.Time) {
	a.p.Fill(grid.Cell{})
	size := a.p.Size()
	if size.H == 0 || size.W == 0 {
		return
	}

	str := fmt.Sprintf("Time: %s", now.Format(layout))
	y := size.H / 2
	x := (size.W - len(str)) / 2
	if x < 0 {
		x = 0
	}
	a.p.WriteString(y, x, str, a.fg, grid.RGB{}, grid.AttrNone)
}

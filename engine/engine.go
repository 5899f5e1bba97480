// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: engine/engine.go
// Summary: Engine facade: panel arena, render loop, input and snapshots.
//
// The engine owns the terminal session and the frame buffer. Collaborators
// create panels, paint into them from any goroutine they like, and the
// damage channel tells the render loop a recomposite is due. One engine per
// terminal session.

package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/framegrace/texelcore/config"
	"github.com/framegrace/texelcore/geom"
	"github.com/framegrace/texelcore/grid"
	"github.com/framegrace/texelcore/panel"
	"github.com/framegrace/texelcore/store"
	"github.com/framegrace/texelcore/vt"
)

// Options configures a new engine. The zero value is usable: color mode is
// detected, the tick defaults to ~30fps, the background is blank.
type Options struct {
	// ColorMode is "truecolor", "256", or "auto"/"" for detection.
	ColorMode string
	// TickInterval is the render loop cadence.
	TickInterval time.Duration
	// Default is the background cell under all panels.
	Default grid.Cell
	// Mouse selects pointer tracking at startup.
	Mouse vt.MouseMode
}

// OptionsFromConfig builds engine options from the system config.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ColorMode:    cfg.GetString("render", "color_mode", "auto"),
		TickInterval: time.Duration(cfg.GetInt("render", "tick_ms", 33)) * time.Millisecond,
		Mouse:        ParseMouseMode(cfg.GetString("input", "mouse", "click")),
	}
}

// ParseMouseMode maps a config string to a tracking mode. Unknown values
// disable tracking.
func ParseMouseMode(s string) vt.MouseMode {
	switch s {
	case "click":
		return vt.MouseModeClick
	case "drag":
		return vt.MouseModeClick | vt.MouseModeDrag
	case "motion":
		return vt.MouseModeClick | vt.MouseModeDrag | vt.MouseModeMotion
	default:
		return vt.MouseModeNone
	}
}

type panelEntry struct {
	id int64
	p  *panel.Panel
}

// Engine composites panels and drives the terminal.
type Engine struct {
	term *vt.Terminal
	tick time.Duration
	def  grid.Cell

	mu      sync.Mutex
	entries []panelEntry
	nextID  int64
	frame   *grid.Buffer
	post    func(*grid.Buffer)
	closed  bool

	damageCh chan bool
	sched    *Scheduler
}

// New initializes the terminal session and returns a running engine. Close
// restores the terminal.
func New(backend vt.Backend, opts Options) (*Engine, error) {
	var term *vt.Terminal
	switch opts.ColorMode {
	case "truecolor":
		term = vt.New(backend, vt.ColorModeTrueColor)
	case "256":
		term = vt.New(backend, vt.ColorMode256)
	default:
		term = vt.New(backend)
	}

	if err := term.Init(); err != nil {
		return nil, err
	}

	tick := opts.TickInterval
	if tick <= 0 {
		tick = 33 * time.Millisecond
	}

	e := &Engine{
		term:     term,
		tick:     tick,
		def:      opts.Default,
		frame:    grid.New(term.Size()),
		damageCh: make(chan bool, 1),
		sched:    NewScheduler(),
	}

	if opts.Mouse != vt.MouseModeNone {
		term.SetMouseMode(opts.Mouse)
	}

	e.markDamage()
	return e, nil
}

// Scheduler returns the engine's timed-callback scheduler.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Terminal exposes the underlying session for collaborators that need
// direct access (mouse mode changes, synthetic events).
func (e *Engine) Terminal() *vt.Terminal { return e.term }

// Size returns the current screen size.
func (e *Engine) Size() geom.Size { return e.term.Size() }

// NewPanel creates a panel wired into the engine's damage tracking.
func (e *Engine) NewPanel(size geom.Size, pos geom.Point, z int) *panel.Panel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.newPanelLocked(size, pos, z)
}

func (e *Engine) newPanelLocked(size geom.Size, pos geom.Point, z int) *panel.Panel {
	p := panel.New(size, pos, z)
	p.SetRefreshNotifier(e.damageCh)
	e.nextID++
	e.entries = append(e.entries, panelEntry{id: e.nextID, p: p})
	e.markDamage()
	return p
}

// RemovePanel detaches a panel from compositing. It reports whether the
// panel belonged to this engine.
func (e *Engine) RemovePanel(p *panel.Panel) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, ent := range e.entries {
		if ent.p == p {
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			p.SetRefreshNotifier(nil)
			e.markDamage()
			return true
		}
	}
	return false
}

// Panels returns the panels in creation order.
func (e *Engine) Panels() []*panel.Panel {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*panel.Panel, len(e.entries))
	for i, ent := range e.entries {
		out[i] = ent.p
	}
	return out
}

// SetPostComposite installs a hook run on the composited frame before it is
// encoded, for whole-frame effects such as dimming an unfocused panel. Pass
// nil to remove it. The hook runs under the engine lock and must not call
// back into the engine.
func (e *Engine) SetPostComposite(fn func(*grid.Buffer)) {
	e.mu.Lock()
	e.post = fn
	e.mu.Unlock()
	e.markDamage()
}

// Damage schedules a recomposite on the next loop tick. Collaborators call
// it when render-relevant state outside any panel changes.
func (e *Engine) Damage() { e.markDamage() }

// Render composites all panels and writes the frame delta to the terminal.
func (e *Engine) Render() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	size := e.term.Size()
	if e.frame.Size() != size {
		e.frame.Resize(size)
	}
	panels := make([]*panel.Panel, len(e.entries))
	for i, ent := range e.entries {
		panels[i] = ent.p
	}
	panel.Composite(e.frame, panels, e.def)
	if e.post != nil {
		e.post(e.frame)
	}
	frame := e.frame
	e.mu.Unlock()

	return e.term.Render(frame)
}

// PollInput drains pending input without blocking. Resize events update the
// frame before being returned.
func (e *Engine) PollInput() []vt.Event {
	var evs []vt.Event
	for {
		ev, ok := e.term.TryPollEvent()
		if !ok {
			return evs
		}
		if ev.Type == vt.EventResize {
			e.Resize(geom.Size{H: ev.Height, W: ev.Width})
		}
		evs = append(evs, ev)
	}
}

// Resize reshapes the frame and schedules a full recomposite.
func (e *Engine) Resize(size geom.Size) {
	e.mu.Lock()
	e.frame.Resize(size)
	e.mu.Unlock()
	e.markDamage()
}

// Run drives the engine until the context is cancelled, the input stream
// closes, or the handler returns false. The handler runs on the loop
// goroutine and may mutate panels freely.
func (e *Engine) Run(ctx context.Context, handle func(vt.Event) bool) error {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	evCh := make(chan vt.Event, 32)
	go func() {
		for {
			ev := e.term.PollEvent()
			select {
			case evCh <- ev:
			case <-ctx.Done():
				return
			}
			if ev.Type == vt.EventClosed || ev.Type == vt.EventError {
				return
			}
		}
	}()

	e.markDamage()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-evCh:
			switch ev.Type {
			case vt.EventResize:
				e.Resize(geom.Size{H: ev.Height, W: ev.Width})
			case vt.EventError:
				return ev.Err
			case vt.EventClosed:
				return nil
			}
			if handle != nil && !handle(ev) {
				return nil
			}

		case <-ticker.C:
			e.sched.Tick(time.Now())
			if e.consumeDamage() {
				if err := e.Render(); err != nil {
					return err
				}
			}
		}
	}
}

// Close restores the terminal. Safe to call after Run returns.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	// Unblock anything stuck in PollEvent before tearing the session down.
	e.term.PostEvent(vt.Event{Type: vt.EventClosed})
	e.term.Fini()
}

// SaveSnapshot persists the current panel layout.
func (e *Engine) SaveSnapshot(st *store.SnapshotStore) error {
	e.mu.Lock()
	snap := store.Snapshot{}
	for _, ent := range e.entries {
		pos := ent.p.Pos()
		size := ent.p.Size()
		snap.Panels = append(snap.Panels, store.PanelState{
			ID:          ent.id,
			Y:           pos.Y,
			X:           pos.X,
			H:           size.H,
			W:           size.W,
			Z:           ent.p.Z(),
			Visible:     ent.p.Visible(),
			Transparent: ent.p.Transparent(),
		})
	}
	e.mu.Unlock()

	if err := st.Save(snap); err != nil {
		log.Printf("Engine: Failed to save snapshot: %v", err)
		return err
	}
	return nil
}

// LoadSnapshot recreates panels from a stored layout and returns them in
// creation order. Content is not restored; collaborators repaint. Returns
// nil without error when no snapshot exists.
func (e *Engine) LoadSnapshot(st *store.SnapshotStore) ([]*panel.Panel, error) {
	snap, ok, err := st.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*panel.Panel, 0, len(snap.Panels))
	for _, s := range snap.Panels {
		p := e.newPanelLocked(geom.Size{H: s.H, W: s.W}, geom.Point{Y: s.Y, X: s.X}, s.Z)
		p.SetVisible(s.Visible)
		p.SetTransparent(s.Transparent)
		if s.ID > e.nextID {
			e.nextID = s.ID
		}
		e.entries[len(e.entries)-1].id = s.ID
		out = append(out, p)
	}
	return out, nil
}

// RestoreLayout applies a stored layout to existing panels, matched by save
// order. It reports false when the store holds no snapshot or the saved
// panel count differs; the panels are then left untouched. For callers that
// own their panels (and the apps bound to them), unlike LoadSnapshot which
// creates fresh ones.
func (e *Engine) RestoreLayout(st *store.SnapshotStore, panels []*panel.Panel) (bool, error) {
	snap, ok, err := st.Load()
	if err != nil {
		return false, err
	}
	if !ok || len(snap.Panels) != len(panels) {
		return false, nil
	}

	for i, s := range snap.Panels {
		p := panels[i]
		p.Resize(geom.Size{H: s.H, W: s.W})
		p.MoveTo(s.Y, s.X)
		p.SetZ(s.Z)
		p.SetVisible(s.Visible)
		p.SetTransparent(s.Transparent)
	}
	e.markDamage()
	return true, nil
}

func (e *Engine) markDamage() {
	select {
	case e.damageCh <- true:
	default:
	}
}

func (e *Engine) consumeDamage() bool {
	select {
	case <-e.damageCh:
		return true
	default:
		return false
	}
}

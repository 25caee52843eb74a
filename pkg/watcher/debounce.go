// Mediagrove
// Copyright (c) 2026 The Mediagrove Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Mediagrove.
//
// Mediagrove is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Mediagrove is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Mediagrove.  If not, see <http://www.gnu.org/licenses/>.

// Package watcher keeps folder classifications live as the filesystem
// changes underneath them. Filesystem events feed a per-folder debounce
// state machine which waits out bursts (copies, extractions) before
// dispatching a refresh to a shared bounded worker pool.
package watcher

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mediagrove/mediagrove/pkg/helpers/syncutil"
)

// DebounceState is the debouncer's position in its three-state machine.
type DebounceState int

// The debounce states.
const (
	// StateIdle: no change pending.
	StateIdle DebounceState = iota
	// StateInitialWait: first change after a long quiet spell; a short
	// timer runs and further events do not restart it.
	StateInitialWait
	// StateSecondaryWait: change arrived close to a recent refresh; the
	// quiet-period timer restarts on every further event.
	StateSecondaryWait
)

func (s DebounceState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialWait:
		return "initial-wait"
	case StateSecondaryWait:
		return "secondary-wait"
	default:
		return "unknown"
	}
}

// Delays holds the debounce timing constants.
type Delays struct {
	// Initial is the wait before refreshing after a cold-start event.
	Initial time.Duration
	// Quiet is how long the filesystem must stay quiet before refreshing.
	Quiet time.Duration
	// ColdThreshold is how long since the last refresh counts as cold.
	ColdThreshold time.Duration
}

// DefaultDelays returns the stock debounce timing.
func DefaultDelays() Delays {
	return Delays{
		Initial:       30 * time.Second,
		Quiet:         120 * time.Second,
		ColdThreshold: 120 * time.Second,
	}
}

// Debouncer is the per-logical-folder debounce state machine. Touch may be
// called from any number of event-delivery goroutines; a timer pending in
// InitialWait is never double-armed.
type Debouncer struct {
	clock       clockwork.Clock
	timer       clockwork.Timer
	fire        func(changedDir string)
	changedDir  string
	lastRefresh time.Time
	delays      Delays
	state       DebounceState
	mu          syncutil.Mutex
}

// NewDebouncer builds a debouncer that calls fire with the most recently
// changed directory once the machine decides a refresh is due.
func NewDebouncer(clock clockwork.Clock, delays Delays, fire func(changedDir string)) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{
		clock:  clock,
		delays: delays,
		fire:   fire,
		// A fresh debouncer counts as cold: the owning folder was just
		// enumerated, so the first change takes the short path.
		lastRefresh: clock.Now().Add(-2 * delays.ColdThreshold),
	}
}

// Touch records a change under changedDir and advances the state machine.
func (d *Debouncer) Touch(changedDir string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.changedDir = changedDir

	switch d.state {
	case StateIdle:
		if d.clock.Since(d.lastRefresh) > d.delays.ColdThreshold {
			d.state = StateInitialWait
			d.timer = d.clock.AfterFunc(d.delays.Initial, d.expire)
		} else {
			d.state = StateSecondaryWait
			d.timer = d.clock.AfterFunc(d.delays.Quiet, d.expire)
		}
	case StateInitialWait:
		// Timer already pending; let it run.
	case StateSecondaryWait:
		// Still noisy: wait for a full quiet period since this event.
		d.timer.Reset(d.delays.Quiet)
	}
}

func (d *Debouncer) expire() {
	d.mu.Lock()
	d.state = StateIdle
	d.timer = nil
	d.lastRefresh = d.clock.Now()
	changed := d.changedDir
	fire := d.fire
	d.mu.Unlock()

	if fire != nil {
		fire(changed)
	}
}

// State returns the current machine state.
func (d *Debouncer) State() DebounceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Stop cancels any pending timer and returns the machine to idle.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.state = StateIdle
}

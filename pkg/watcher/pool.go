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

package watcher

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Pool is a named, bounded worker pool. Refresh work is dispatched here so
// it never blocks event-delivery goroutines and at most size refreshes run
// concurrently system-wide.
type Pool struct {
	sem  *semaphore.Weighted
	name string
	wg   sync.WaitGroup
}

// NewPool creates a pool running at most size tasks concurrently.
func NewPool(name string, size int64) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		name: name,
		sem:  semaphore.NewWeighted(size),
	}
}

// Go runs fn on the pool, queueing behind the concurrency bound. A panic
// in fn is logged, never propagated to the pool's other work.
func (p *Pool) Go(label string, fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			log.Error().Msgf("%s pool failed to acquire slot for %s: %v", p.name, label, err)
			return
		}
		defer p.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				log.Error().Msgf("%s pool task %s panicked: %v", p.name, label, r)
			}
		}()

		fn()
	}()
}

// Wait blocks until all submitted work has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

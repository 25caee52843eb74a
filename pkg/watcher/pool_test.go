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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewPool("test", 2)

	var running, peak atomic.Int64
	release := make(chan struct{})
	var mu sync.Mutex

	for i := 0; i < 5; i++ {
		pool.Go("task", func() {
			n := running.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			<-release
			running.Add(-1)
		})
	}

	require.Eventually(t, func() bool {
		return running.Load() == 2
	}, time.Second, time.Millisecond)
	close(release)
	pool.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
	assert.Zero(t, running.Load())
}

func TestPoolRecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewPool("test", 1)
	done := make(chan struct{})

	pool.Go("boom", func() {
		panic("task failure")
	})
	pool.Go("after", func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool stopped running tasks after a panic")
	}
	pool.Wait()
}

func TestPoolMinimumSize(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewPool("test", 0)
	ran := false
	pool.Go("task", func() { ran = true })
	pool.Wait()
	assert.True(t, ran)
}

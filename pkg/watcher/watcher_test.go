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
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTarget records refresh calls.
type mockTarget struct {
	mu            sync.Mutex
	validated     int
	metadataPaths []string
	imagePaths    []string
	notified      int
}

func (m *mockTarget) ValidateChildren() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validated++
	return nil
}

func (m *mockTarget) RefreshMetadata(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadataPaths = append(m.metadataPaths, path)
	return nil
}

func (m *mockTarget) ReCacheImages(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imagePaths = append(m.imagePaths, path)
	return nil
}

func (m *mockTarget) NotifyDisplay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified++
}

func (m *mockTarget) counts() (validated, metadata, images, notified int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validated, len(m.metadataPaths), len(m.imagePaths), m.notified
}

func TestRefreshDeepFolder(t *testing.T) {
	t.Parallel()

	target := &mockTarget{}
	w := New(target, []string{"/media/Movies"}, Options{})

	w.refresh("/media/Movies/Alien (1979)")

	validated, metadata, images, notified := target.counts()
	assert.Equal(t, 1, validated)
	assert.Equal(t, 1, metadata)
	assert.Equal(t, 1, images)
	assert.Equal(t, 1, notified)
	assert.Equal(t, "/media/Movies/Alien (1979)", target.metadataPaths[0])
}

func TestRefreshTopLevelRootSkipsDeepWalk(t *testing.T) {
	t.Parallel()

	target := &mockTarget{}
	w := New(target, []string{"/media/Movies", "/disk2/Movies"}, Options{})

	// Case and trailing separators do not defeat the root check.
	w.refresh("/media/movies/")
	w.refresh("/DISK2/Movies")

	validated, metadata, images, notified := target.counts()
	assert.Equal(t, 2, validated)
	assert.Zero(t, metadata)
	assert.Zero(t, images)
	assert.Equal(t, 2, notified)
}

func TestRelevantFiltering(t *testing.T) {
	t.Parallel()

	w := New(&mockTarget{}, []string{"/media"}, Options{})

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{
			name:     "create counts",
			event:    fsnotify.Event{Name: "/media/new.mkv", Op: fsnotify.Create},
			expected: true,
		},
		{
			name:     "remove counts",
			event:    fsnotify.Event{Name: "/media/old.mkv", Op: fsnotify.Remove},
			expected: true,
		},
		{
			name:     "rename counts",
			event:    fsnotify.Event{Name: "/media/moved.mkv", Op: fsnotify.Rename},
			expected: true,
		},
		{
			name:     "write ignored by default",
			event:    fsnotify.Event{Name: "/media/grow.mkv", Op: fsnotify.Write},
			expected: false,
		},
		{
			name:     "chmod ignored",
			event:    fsnotify.Event{Name: "/media/perm.mkv", Op: fsnotify.Chmod},
			expected: false,
		},
		{
			name:     "engine artifact ignored",
			event:    fsnotify.Event{Name: "/media/poster.JPG", Op: fsnotify.Create},
			expected: false,
		},
		{
			name:     "metadata sidecar ignored",
			event:    fsnotify.Event{Name: "/media/mymovies.xml", Op: fsnotify.Create},
			expected: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, w.relevant(tt.event))
		})
	}
}

func TestRelevantWatchModifications(t *testing.T) {
	t.Parallel()

	w := New(&mockTarget{}, []string{"/media"}, Options{WatchModifications: true})
	assert.True(t, w.relevant(fsnotify.Event{Name: "/media/grow.mkv", Op: fsnotify.Write}))
}

func TestSuppressorBlocksEvents(t *testing.T) {
	t.Parallel()

	sup := &Suppressor{}
	w := New(&mockTarget{}, []string{"/media"}, Options{Suppressor: sup})
	event := fsnotify.Event{Name: "/media/new.mkv", Op: fsnotify.Create}

	assert.True(t, w.relevant(event))
	sup.Suspend()
	assert.False(t, w.relevant(event))
	sup.Resume()
	assert.True(t, w.relevant(event))
}

func TestWatcherEndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Movies"), 0o755))

	target := &mockTarget{}
	w := New(target, []string{root}, Options{
		Delays: Delays{
			Initial:       20 * time.Millisecond,
			Quiet:         50 * time.Millisecond,
			ColdThreshold: 50 * time.Millisecond,
		},
	})
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(
		filepath.Join(root, "Movies", "alien.mkv"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		validated, _, _, _ := target.counts()
		return validated >= 1
	}, 5*time.Second, 10*time.Millisecond)

	// The change was below the root, so the deep walk ran against the
	// enclosing directory.
	target.mu.Lock()
	defer target.mu.Unlock()
	require.NotEmpty(t, target.metadataPaths)
	assert.Equal(t, filepath.Join(root, "Movies"), target.metadataPaths[0])
}

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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mediagrove/mediagrove/pkg/helpers/syncutil"
)

// RefreshTarget is the owning folder entity's side of the watcher
// boundary. ValidateChildren re-checks structure for the folder and its
// descendants; RefreshMetadata and ReCacheImages walk already-known items
// under a path; NotifyDisplay pokes the currently-displayed navigation
// chain.
type RefreshTarget interface {
	ValidateChildren() error
	RefreshMetadata(path string) error
	ReCacheImages(path string) error
	NotifyDisplay()
}

// Suppressor gates all watchers while the engine itself performs bulk
// writes, so its own metadata and image output does not trigger refresh
// storms. It is injected per watcher rather than living in global state so
// tests can toggle it deterministically.
type Suppressor struct {
	suppressed atomic.Bool
}

// Suspend discards all filesystem events until Resume.
func (s *Suppressor) Suspend() { s.suppressed.Store(true) }

// Resume re-enables event delivery.
func (s *Suppressor) Resume() { s.suppressed.Store(false) }

// Suppressed reports whether events are currently discarded.
func (s *Suppressor) Suppressed() bool { return s.suppressed.Load() }

// DefaultIgnoredExtensions are artifacts of the engine's own metadata and
// image writes, not user content changes.
var DefaultIgnoredExtensions = []string{".jpg", ".json", ".data", ".png", ".xml"}

// Options configures a folder watcher.
type Options struct {
	Clock              clockwork.Clock
	Suppressor         *Suppressor
	Pool               *Pool
	IgnoredExtensions  []string
	Delays             Delays
	WatchModifications bool
}

// FolderWatcher watches the physical roots behind one logical folder. Each
// root gets its own fsnotify watcher, so a setup failure on one root never
// takes down its siblings (the virtual-folder fan-out).
type FolderWatcher struct {
	target     RefreshTarget
	suppressor *Suppressor
	pool       *Pool
	debouncer  *Debouncer
	ignored    map[string]bool
	topLevel   map[string]bool
	roots      []string
	watchers   []*fsnotify.Watcher
	opts       Options
	refreshMu  syncutil.Mutex
}

// New builds a watcher for the given physical roots. For a virtual folder
// the roots are its constituent folders; for a plain folder, its single
// path.
func New(target RefreshTarget, roots []string, opts Options) *FolderWatcher {
	if opts.Suppressor == nil {
		opts.Suppressor = &Suppressor{}
	}
	if opts.Pool == nil {
		opts.Pool = NewPool("refresh", 1)
	}
	if opts.Delays == (Delays{}) {
		opts.Delays = DefaultDelays()
	}
	ignoredExts := opts.IgnoredExtensions
	if ignoredExts == nil {
		ignoredExts = DefaultIgnoredExtensions
	}

	w := &FolderWatcher{
		target:     target,
		roots:      roots,
		opts:       opts,
		suppressor: opts.Suppressor,
		pool:       opts.Pool,
		ignored:    make(map[string]bool, len(ignoredExts)),
		topLevel:   make(map[string]bool, len(roots)),
	}
	for _, ext := range ignoredExts {
		w.ignored[strings.ToLower(ext)] = true
	}
	for _, root := range roots {
		w.topLevel[strings.ToLower(filepath.Clean(root))] = true
	}
	w.debouncer = NewDebouncer(opts.Clock, opts.Delays, w.dispatchRefresh)
	return w
}

// Start arms one fsnotify watcher per root. A root that cannot be watched
// is logged and skipped; the others keep working.
func (w *FolderWatcher) Start() {
	for _, root := range w.roots {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			log.Error().Msgf("failed to create watcher for %s: %v", root, err)
			continue
		}
		if err := fsw.Add(root); err != nil {
			log.Error().Msgf("failed to watch %s: %v", root, err)
			_ = fsw.Close()
			continue
		}
		// fsnotify watches are not recursive; cover the existing subtree
		// up front and pick up new directories as they appear.
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() || path == root {
				return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
			}
			if addErr := fsw.Add(path); addErr != nil {
				log.Debug().Msgf("failed to watch subdirectory %s: %v", path, addErr)
			}
			return nil
		})
		if err != nil {
			log.Debug().Msgf("failed to walk %s for watches: %v", root, err)
		}
		w.watchers = append(w.watchers, fsw)
		go w.run(fsw)
		log.Debug().Msgf("watching %s", root)
	}
}

// Stop closes every root watcher and cancels any pending debounce timer.
// In-flight refreshes run to completion.
func (w *FolderWatcher) Stop() {
	for _, fsw := range w.watchers {
		_ = fsw.Close()
	}
	w.watchers = nil
	w.debouncer.Stop()
}

// Debouncer exposes the state machine, primarily for tests and status
// reporting.
func (w *FolderWatcher) Debouncer() *Debouncer {
	return w.debouncer
}

func (w *FolderWatcher) run(fsw *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fsw.Add(event.Name); err != nil {
						log.Debug().Msgf("failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}
			w.handleEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Error().Msgf("watcher error: %v", err)
		}
	}
}

// handleEvent filters one event and feeds the debouncer. Callbacks arrive
// on arbitrary goroutines; everything past here must be safe under
// concurrent delivery.
func (w *FolderWatcher) handleEvent(event fsnotify.Event) {
	if !w.relevant(event) {
		return
	}

	// Record the enclosing directory for files and for anything gone by
	// the time we look at it.
	changed := event.Name
	if info, err := os.Stat(event.Name); err != nil || !info.IsDir() {
		changed = filepath.Dir(changed)
	}
	w.debouncer.Touch(changed)
}

// relevant applies the suppression flag first, then the extension filter,
// then the operation filter.
func (w *FolderWatcher) relevant(event fsnotify.Event) bool {
	if w.suppressor.Suppressed() {
		return false
	}
	if ext := strings.ToLower(filepath.Ext(event.Name)); w.ignored[ext] {
		return false
	}

	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}
	// Write events are opt-in; long file copies flood the stream with them.
	return w.opts.WatchModifications && event.Op&fsnotify.Write != 0
}

// dispatchRefresh hands refresh work to the shared pool. The per-watcher
// mutex keeps refreshes for one logical folder strictly serialized even if
// a new debounce cycle completes while the previous refresh still runs.
func (w *FolderWatcher) dispatchRefresh(changedDir string) {
	w.pool.Go("refresh", func() {
		w.refreshMu.Lock()
		defer w.refreshMu.Unlock()
		w.refresh(changedDir)
	})
}

// refresh re-validates structure, then walks metadata and images under the
// changed directory. A change at a top-level constituent root invalidates
// trust in the whole tree, so the focused deep walk is skipped in favor of
// the bare structural pass.
func (w *FolderWatcher) refresh(changedDir string) {
	log.Info().Msgf("refreshing after change under %s", changedDir)

	if err := w.target.ValidateChildren(); err != nil {
		log.Error().Err(err).Msg("failed to validate children")
	}

	if !w.isTopLevel(changedDir) {
		if err := w.target.RefreshMetadata(changedDir); err != nil {
			log.Error().Err(err).Msgf("failed to refresh metadata under %s", changedDir)
		}
		if err := w.target.ReCacheImages(changedDir); err != nil {
			log.Error().Err(err).Msgf("failed to re-cache images under %s", changedDir)
		}
	}

	w.target.NotifyDisplay()
}

func (w *FolderWatcher) isTopLevel(path string) bool {
	return w.topLevel[strings.ToLower(filepath.Clean(path))]
}

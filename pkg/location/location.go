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

// Package location models the filesystem tree the resolver chain operates
// on: files, folders and user-defined virtual folders that splice together
// several physical directories. Folder children are enumerated lazily and
// memoized for the lifetime of the node; invalidation replaces the node
// wholesale via Reload rather than mutating caches in place.
package location

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/helpers"
	"github.com/mediagrove/mediagrove/pkg/media"
)

// ErrChildNotFound is returned by GetChild for a name with no entry.
var ErrChildNotFound = errors.New("child not found")

// Location is a node in the filesystem tree, independent of its eventual
// media classification.
type Location interface {
	// Path is the absolute path of the node; immutable after construction.
	Path() string
	// Name is the display name: the filename without extension for files,
	// the directory name for folders.
	Name() string
	// Parent is the enclosing folder location, or nil at the root. The
	// reference is borrowed; the tree owns its nodes.
	Parent() *Folder
	Created() time.Time
	Modified() time.Time
	IsHidden() bool
	IsDirectory() bool
}

// entry carries the state shared by every location kind.
type entry struct {
	created  time.Time
	modified time.Time
	fsys     afero.Fs
	parent   *Folder
	path     string
	hidden   bool
	dir      bool
}

func (e *entry) Path() string        { return e.path }
func (e *entry) Parent() *Folder     { return e.parent }
func (e *entry) Created() time.Time  { return e.created }
func (e *entry) Modified() time.Time { return e.modified }
func (e *entry) IsHidden() bool      { return e.hidden }
func (e *entry) IsDirectory() bool   { return e.dir }

// File is a plain file location.
type File struct {
	entry
}

// Name returns the filename without its extension.
func (f *File) Name() string {
	base := filepath.Base(f.path)
	if ext := media.Extension(base); ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}

// Folder is a directory location. Children are computed once on first
// access and never re-read for the lifetime of the node.
type Folder struct {
	load        func() ([]Location, []string)
	index       map[string]Location
	children    []Location
	unavailable []string
	entry
	once sync.Once
}

// Name returns the directory name.
func (f *Folder) Name() string {
	return filepath.Base(f.path)
}

// Children returns the folder's child locations in enumeration order. The
// listing is computed once; callers needing fresh data must Reload the node.
func (f *Folder) Children() []Location {
	f.resolve()
	return f.children
}

// GetChild looks up a direct child by filename, case-insensitively.
func (f *Folder) GetChild(name string) (Location, error) {
	f.resolve()
	child, ok := f.index[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChildNotFound, name)
	}
	return child, nil
}

// ContainsChild reports whether a direct child with the given filename
// exists. It never fails.
func (f *Folder) ContainsChild(name string) bool {
	f.resolve()
	_, ok := f.index[strings.ToLower(name)]
	return ok
}

// Unavailable returns the lowercased path prefixes that failed to resolve
// during enumeration.
func (f *Folder) Unavailable() []string {
	f.resolve()
	return f.unavailable
}

// IsUnavailable reports whether the candidate path falls under any prefix
// recorded as unavailable.
func (f *Folder) IsUnavailable(candidate string) bool {
	f.resolve()
	lower := strings.ToLower(candidate)
	for _, prefix := range f.unavailable {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func (f *Folder) resolve() {
	f.once.Do(func() {
		children, unavailable := f.load()
		index := make(map[string]Location, len(children))
		kept := children[:0]
		for _, child := range children {
			key := strings.ToLower(filepath.Base(child.Path()))
			if _, exists := index[key]; exists {
				// Name collision after shortcut resolution or virtual
				// folder merging: the later occurrence is dropped.
				log.Debug().Msgf("dropping duplicate child %s in %s", key, f.path)
				continue
			}
			index[key] = child
			kept = append(kept, child)
		}
		f.children = kept
		f.index = index
		f.unavailable = unavailable
	})
}

// New stats a path and returns the matching location kind. Folders get no
// parent link; use folder enumeration to build linked subtrees.
func New(fsys afero.Fs, path string) (Location, error) {
	info, err := helpers.StatWithRetry(fsys, path, helpers.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to stat location: %w", err)
	}
	if media.IsVirtualFolderFile(path) {
		return NewVirtualFolder(fsys, path, nil, info), nil
	}
	if info.IsDir() {
		return NewFolder(fsys, path, nil, info), nil
	}
	return newFile(fsys, path, nil, info), nil
}

// NewFolder constructs a physical folder location from an enumeration
// record. Children stay unenumerated until first access.
func NewFolder(fsys afero.Fs, path string, parent *Folder, info os.FileInfo) *Folder {
	f := &Folder{entry: newEntry(fsys, path, parent, info, true)}
	f.load = func() ([]Location, []string) {
		return enumerate(fsys, path, f), nil
	}
	return f
}

func newFile(fsys afero.Fs, path string, parent *Folder, info os.FileInfo) *File {
	return &File{entry: newEntry(fsys, path, parent, info, false)}
}

func newEntry(fsys afero.Fs, path string, parent *Folder, info os.FileInfo, dir bool) entry {
	e := entry{
		fsys:   fsys,
		path:   path,
		parent: parent,
		dir:    dir,
		hidden: isHiddenName(filepath.Base(path)),
	}
	if info != nil {
		// Directory enumeration records only carry a modification time;
		// some network shares report none at all. The zero time stands in
		// rather than surfacing an OS error.
		e.modified = info.ModTime()
		e.created = info.ModTime()
	} else {
		log.Debug().Msgf("no timestamp metadata for %s", path)
	}
	return e
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// enumerate lists a physical directory and wraps each entry as a location
// with the given parent. Shortcuts are resolved to their targets; dangling
// shortcuts are dropped. An unreadable directory logs and yields no
// children rather than failing the caller.
func enumerate(fsys afero.Fs, dir string, parent *Folder) []Location {
	infos, err := helpers.ReadDirWithRetry(fsys, dir, helpers.DefaultRetryConfig())
	if err != nil {
		log.Warn().Msgf("failed to enumerate %s: %v", dir, err)
		return nil
	}

	children := make([]Location, 0, len(infos))
	for _, info := range infos {
		child := wrapEntry(fsys, dir, parent, info)
		if child != nil {
			children = append(children, child)
		}
	}
	return children
}

// wrapEntry turns one directory entry into a location, or nil to drop it.
func wrapEntry(fsys afero.Fs, dir string, parent *Folder, info os.FileInfo) Location {
	path := filepath.Join(dir, info.Name())

	if media.IsShortcut(path) {
		target, err := ResolveShortcut(fsys, path)
		if err != nil || target == "" {
			log.Debug().Msgf("unreadable shortcut dropped: %s", path)
			return nil
		}
		targetInfo, err := helpers.StatWithRetry(fsys, target, helpers.DefaultRetryConfig())
		if err != nil {
			// Stale shortcut; tolerated silently.
			return nil
		}
		path = target
		info = targetInfo
	}

	if media.IsVirtualFolderFile(path) {
		return NewVirtualFolder(fsys, path, parent, info)
	}
	if info.IsDir() {
		return NewFolder(fsys, path, parent, info)
	}
	return newFile(fsys, path, parent, info)
}

// Reload builds a fresh node for the same path, discarding the old node's
// memoized children. The old node keeps serving concurrent readers until
// the caller swaps it out.
func Reload(loc Location) (Location, error) {
	fsys := locationFs(loc)
	info, err := helpers.StatWithRetry(fsys, loc.Path(), helpers.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to reload location: %w", err)
	}

	switch old := loc.(type) {
	case *VirtualFolder:
		return NewVirtualFolder(fsys, old.path, old.parent, info), nil
	case *Folder:
		return NewFolder(fsys, old.path, old.parent, info), nil
	case *File:
		return newFile(fsys, old.path, old.parent, info), nil
	default:
		return nil, fmt.Errorf("unknown location type for %s", loc.Path())
	}
}

// AsFolder returns the folder capability of a location, or nil for plain
// files. Virtual folders answer with their embedded folder state.
func AsFolder(loc Location) *Folder {
	switch l := loc.(type) {
	case *VirtualFolder:
		return &l.Folder
	case *Folder:
		return l
	default:
		return nil
	}
}

func locationFs(loc Location) afero.Fs {
	switch l := loc.(type) {
	case *VirtualFolder:
		return l.fsys
	case *Folder:
		return l.fsys
	case *File:
		return l.fsys
	default:
		return afero.NewOsFs()
	}
}

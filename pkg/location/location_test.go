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

package location

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/media/Movies/Alien (1979)", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/media/Movies/Alien (1979)/alien.mkv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/media/Movies/readme.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/media/Movies/.hidden.nfo", []byte("x"), 0o644))
	return fsys
}

func TestNewDispatchesByKind(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/media/All.vf", []byte("folder: /media/Movies\n"), 0o644))

	loc, err := New(fsys, "/media/Movies")
	require.NoError(t, err)
	assert.IsType(t, &Folder{}, loc)
	assert.True(t, loc.IsDirectory())

	loc, err = New(fsys, "/media/Movies/readme.txt")
	require.NoError(t, err)
	assert.IsType(t, &File{}, loc)
	assert.Equal(t, "readme", loc.Name(), "file names drop their extension")

	loc, err = New(fsys, "/media/All.vf")
	require.NoError(t, err)
	assert.IsType(t, &VirtualFolder{}, loc)
	assert.Equal(t, "All", loc.Name())

	_, err = New(fsys, "/media/nope")
	require.Error(t, err)
}

func TestFolderChildrenMemoized(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	loc, err := New(fsys, "/media/Movies")
	require.NoError(t, err)
	folder := AsFolder(loc)
	require.NotNil(t, folder)

	first := folder.Children()
	require.Len(t, first, 3)

	// Disk changes after the first read are invisible to this node.
	require.NoError(t, afero.WriteFile(fsys, "/media/Movies/new.mkv", []byte("x"), 0o644))
	assert.Len(t, folder.Children(), 3)

	fresh, err := Reload(folder)
	require.NoError(t, err)
	assert.Len(t, AsFolder(fresh).Children(), 4)
	// The stale node keeps serving its old snapshot.
	assert.Len(t, folder.Children(), 3)
}

func TestGetChild(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	loc, err := New(fsys, "/media/Movies")
	require.NoError(t, err)
	folder := AsFolder(loc)

	child, err := folder.GetChild("README.TXT")
	require.NoError(t, err)
	assert.Equal(t, "/media/Movies/readme.txt", child.Path())

	assert.True(t, folder.ContainsChild("Alien (1979)"))
	assert.False(t, folder.ContainsChild("Aliens (1986)"))

	_, err = folder.GetChild("missing.xml")
	require.ErrorIs(t, err, ErrChildNotFound)
}

func TestHiddenChildren(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	loc, err := New(fsys, "/media/Movies")
	require.NoError(t, err)
	folder := AsFolder(loc)

	child, err := folder.GetChild(".hidden.nfo")
	require.NoError(t, err)
	assert.True(t, child.IsHidden())

	child, err = folder.GetChild("readme.txt")
	require.NoError(t, err)
	assert.False(t, child.IsHidden())
}

func TestParentLinks(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	loc, err := New(fsys, "/media/Movies")
	require.NoError(t, err)
	folder := AsFolder(loc)
	assert.Nil(t, folder.Parent())

	child, err := folder.GetChild("Alien (1979)")
	require.NoError(t, err)
	assert.Same(t, folder, child.Parent())

	grandchild, err := AsFolder(child).GetChild("alien.mkv")
	require.NoError(t, err)
	assert.Same(t, AsFolder(child), grandchild.Parent())
}

func TestShortcutResolution(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	require.NoError(t, fsys.MkdirAll("/archive/Classics", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/archive/Classics/metropolis.mkv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/media/Movies/Classics.lnk",
		[]byte("\n/archive/Classics\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/media/Movies/Gone.lnk",
		[]byte("/archive/missing\n"), 0o644))

	loc, err := New(fsys, "/media/Movies")
	require.NoError(t, err)
	folder := AsFolder(loc)

	// The valid shortcut surfaces as its target folder; the dangling one
	// disappears without error.
	child, err := folder.GetChild("Classics")
	require.NoError(t, err)
	assert.Equal(t, "/archive/Classics", child.Path())
	assert.True(t, child.IsDirectory())
	assert.True(t, AsFolder(child).ContainsChild("metropolis.mkv"))

	assert.False(t, folder.ContainsChild("Gone.lnk"))
	assert.False(t, folder.ContainsChild("Gone"))
}

func TestResolveShortcut(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/a.lnk", []byte("  \n\n  /target/path  \nextra\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/empty.lnk", []byte("\n \n"), 0o644))

	target, err := ResolveShortcut(fsys, "/a.lnk")
	require.NoError(t, err)
	assert.Equal(t, "/target/path", target)

	target, err = ResolveShortcut(fsys, "/empty.lnk")
	require.NoError(t, err)
	assert.Empty(t, target)

	_, err = ResolveShortcut(fsys, "/absent.lnk")
	require.Error(t, err)
}

func TestVirtualFolderUnion(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/disk1/Movies", 0o755))
	require.NoError(t, fsys.MkdirAll("/disk2/Movies", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/disk1/Movies/a.mkv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/disk2/Movies/b.mkv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/disk2/Movies/a.mkv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/media/All Movies.vf",
		[]byte("folder: /disk1/Movies\nfolder: /disk2/Movies\nfolder: /disk3/Movies\n"), 0o644))

	loc, err := New(fsys, "/media/All Movies.vf")
	require.NoError(t, err)
	vf, ok := loc.(*VirtualFolder)
	require.True(t, ok)

	assert.Equal(t, "All Movies", vf.Name())
	assert.Equal(t, []string{"/disk1/Movies", "/disk2/Movies", "/disk3/Movies"},
		vf.Constituents())

	// Children merge across constituents; the duplicate a.mkv from disk2 is
	// dropped in favor of the first occurrence.
	folder := AsFolder(vf)
	children := folder.Children()
	require.Len(t, children, 2)
	child, err := folder.GetChild("a.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/disk1/Movies/a.mkv", child.Path())

	// The missing constituent lands in the unavailable list.
	require.Len(t, folder.Unavailable(), 1)
	assert.True(t, folder.IsUnavailable("/disk3/Movies/sub/c.mkv"))
	assert.True(t, folder.IsUnavailable("/DISK3/Movies"))
	assert.False(t, folder.IsUnavailable("/disk1/Movies/a.mkv"))
}

func TestVirtualFolderUnreadableDefinition(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/media", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/media/Empty.vf", nil, 0o644))

	loc, err := New(fsys, "/media/Empty.vf")
	require.NoError(t, err)
	vf, ok := loc.(*VirtualFolder)
	require.True(t, ok)
	assert.Empty(t, vf.Constituents())
	assert.Empty(t, AsFolder(vf).Children())
}

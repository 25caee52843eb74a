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

package media

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDetermineMediaType(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/media/Alien (1979)/VIDEO_TS", 0o755))
	require.NoError(t, fsys.MkdirAll("/media/Tron/BDMV", 0o755))
	require.NoError(t, fsys.MkdirAll("/media/empty", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/media/loose.bin", nil, 0o644))

	tests := []struct {
		name     string
		path     string
		expected MediaType
	}{
		{name: "mkv extension", path: "/media/foo.mkv", expected: Mkv},
		{name: "mp4 extension", path: "/media/foo.MP4", expected: Mp4},
		{name: "iso image", path: "/media/X.iso", expected: ISO},
		{name: "vob maps to dvd", path: "/media/x/file.vob", expected: DVD},
		{name: "m3u playlist", path: "/media/mix.m3u", expected: PlayList},
		{name: "webm generic video", path: "/media/clip.webm", expected: Video},
		{name: "video_ts segment", path: "/media/x/VIDEO_TS", expected: DVD},
		{name: "bdmv segment", path: "/media/x/BDMV", expected: BluRay},
		{name: "hvdvd segment", path: "/media/x/HVDVD_TS", expected: HDDVD},
		{name: "dvd folder probed", path: "/media/Alien (1979)", expected: DVD},
		{name: "bluray folder probed", path: "/media/Tron", expected: BluRay},
		{name: "plain folder", path: "/media/empty", expected: Unknown},
		{name: "unknown file", path: "/media/loose.bin", expected: Unknown},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DetermineMediaType(fsys, tt.path))
		})
	}
}

func TestDetermineMediaTypeIsPure(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/m/disc/VIDEO_TS", 0o755))

	rapid.Check(t, func(t *rapid.T) {
		path := rapid.SampledFrom([]string{
			"/m/a.mkv", "/m/a.iso", "/m/disc", "/m/nothing", "relative/b.avi",
		}).Draw(t, "path")
		first := DetermineMediaType(fsys, path)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, DetermineMediaType(fsys, path))
		}
	})
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IsVideo("a/b/c.MKV"))
	assert.False(t, IsVideo("a/b/c.iso"))
	assert.False(t, IsVideo("a/b/c.vob"))
	assert.False(t, IsVideo("a/b/c.m3u"))

	assert.True(t, IsISO("disc.ISO"))
	assert.True(t, IsVob("VTS_01_1.vob"))
	assert.True(t, IsShortcut("link.lnk"))
	assert.True(t, IsVirtualFolderFile("All Movies.vf"))
	assert.True(t, IsVodcastFile("feed.vodcast"))
	assert.True(t, IsPlaylistFile("mix.wpl"))

	assert.True(t, IsBoxSetPath("/media/Bond [boxset]"))
	assert.True(t, IsBoxSetPath("/media/Bond [BOXSET]"))
	assert.False(t, IsBoxSetPath("/media/[boxset]/Bond"))
}

func TestLastSegmentAndExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		segment string
		ext     string
	}{
		{path: "/a/b/c.mkv", segment: "c.mkv", ext: ".mkv"},
		{path: `C:\media\d.AVI`, segment: "d.AVI", ext: ".avi"},
		{path: "/a/b/", segment: "b", ext: ""},
		{path: "noslash", segment: "noslash", ext: ""},
		{path: "/a/.hidden", segment: ".hidden", ext: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.segment, LastSegment(tt.path), tt.path)
		assert.Equal(t, tt.ext, Extension(tt.path), tt.path)
	}
}

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

// Package media classifies paths into container formats and provides the
// path predicates used by the resolver chain, plus parsers for the sidecar
// file formats the engine understands.
package media

import (
	"strings"

	"github.com/spf13/afero"
)

// MediaType identifies the container format of a media location.
type MediaType string

// The closed set of recognized container formats.
const (
	Unknown  MediaType = "unknown"
	Asf      MediaType = "asf"
	Avi      MediaType = "avi"
	BluRay   MediaType = "bluray"
	DVD      MediaType = "dvd"
	Dvrms    MediaType = "dvrms"
	F4v      MediaType = "f4v"
	Flv      MediaType = "flv"
	HDDVD    MediaType = "hddvd"
	ISO      MediaType = "iso"
	M2ts     MediaType = "m2ts"
	M4v      MediaType = "m4v"
	Mkv      MediaType = "mkv"
	Mk3d     MediaType = "mk3d"
	Mov      MediaType = "mov"
	Mp4      MediaType = "mp4"
	Mpeg     MediaType = "mpeg"
	Mpg      MediaType = "mpg"
	Ogv      MediaType = "ogv"
	PlayList MediaType = "playlist"
	Threegp  MediaType = "3gp"
	Ts       MediaType = "ts"
	Wmv      MediaType = "wmv"
	Wtv      MediaType = "wtv"
	Video    MediaType = "video"
)

// Sidecar and marker extensions recognized by the engine.
const (
	ShortcutExtension      = ".lnk"
	VirtualFolderExtension = ".vf"
	VodcastExtension       = ".vodcast"
)

// extensionTypes maps a lowercased file extension to its container format.
// Extensions not listed here are not media.
var extensionTypes = map[string]MediaType{
	".asf":    Asf,
	".avi":    Avi,
	".dvr-ms": Dvrms,
	".f4v":    F4v,
	".flv":    Flv,
	".iso":    ISO,
	".m2ts":   M2ts,
	".m4v":    M4v,
	".mk3d":   Mk3d,
	".mkv":    Mkv,
	".mov":    Mov,
	".mp4":    Mp4,
	".mpeg":   Mpeg,
	".mpg":    Mpg,
	".ogv":    Ogv,
	".3gp":    Threegp,
	".ts":     Ts,
	".vob":    DVD,
	".wmv":    Wmv,
	".wtv":    Wtv,
	".m3u":    PlayList,
	".pls":    PlayList,
	".wpl":    PlayList,
	".divx":   Video,
	".ogm":    Video,
	".rmvb":   Video,
	".webm":   Video,
}

// videoExtensions is the subset of extensions treated as playable video
// files by the resolvers. ISOs, VOBs and playlists are deliberately not in
// this set; the resolvers handle them separately.
var videoExtensions = map[string]bool{
	".asf":    true,
	".avi":    true,
	".dvr-ms": true,
	".f4v":    true,
	".flv":    true,
	".m2ts":   true,
	".m4v":    true,
	".mk3d":   true,
	".mkv":    true,
	".mov":    true,
	".mp4":    true,
	".mpeg":   true,
	".mpg":    true,
	".ogv":    true,
	".3gp":    true,
	".ts":     true,
	".wmv":    true,
	".wtv":    true,
	".divx":   true,
	".ogm":    true,
	".rmvb":   true,
	".webm":   true,
}

// discMarkers maps the lowercased name of a disc-structure directory to the
// format it represents.
var discMarkers = map[string]MediaType{
	"video_ts": DVD,
	"bdmv":     BluRay,
	"hvdvd_ts": HDDVD,
}

// LastSegment returns the final path segment, trimming trailing separators.
// Both separator styles are handled so paths recorded on other systems
// still classify correctly.
func LastSegment(path string) string {
	trimmed := strings.TrimRight(path, "/\\")
	if i := strings.LastIndexAny(trimmed, "/\\"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Extension returns the lowercased extension of the final path segment,
// including the dot, or "" if there is none. A leading dot alone (dotfiles
// like ".ignore") does not count as an extension.
func Extension(path string) string {
	seg := LastSegment(path)
	i := strings.LastIndexByte(seg, '.')
	if i <= 0 || i == len(seg)-1 {
		return ""
	}
	return strings.ToLower(seg[i:])
}

// IsVideo reports whether the path names a recognized video file.
func IsVideo(path string) bool {
	return videoExtensions[Extension(path)]
}

// IsISO reports whether the path names a disc image file.
func IsISO(path string) bool {
	return Extension(path) == ".iso"
}

// IsVob reports whether the path names a DVD VOB part.
func IsVob(path string) bool {
	return Extension(path) == ".vob"
}

// IsShortcut reports whether the path names a shortcut file.
func IsShortcut(path string) bool {
	return Extension(path) == ShortcutExtension
}

// IsVirtualFolderFile reports whether the path names a virtual folder
// definition file.
func IsVirtualFolderFile(path string) bool {
	return Extension(path) == VirtualFolderExtension
}

// IsVodcastFile reports whether the path names a vodcast definition file.
func IsVodcastFile(path string) bool {
	return Extension(path) == VodcastExtension
}

// IsPlaylistFile reports whether the path names a playlist.
func IsPlaylistFile(path string) bool {
	return extensionTypes[Extension(path)] == PlayList
}

// IsBoxSetPath reports whether the final path segment carries the boxset
// marker.
func IsBoxSetPath(path string) bool {
	return strings.Contains(strings.ToLower(LastSegment(path)), "[boxset]")
}

// SpecialFolderType returns the disc or image format a child path marks its
// parent folder as, or Unknown. Used by the movie resolver to let disc
// structures win over loose video files.
func SpecialFolderType(path string) MediaType {
	seg := strings.ToLower(LastSegment(path))
	if mt, ok := discMarkers[seg]; ok {
		return mt
	}
	switch Extension(path) {
	case ".vob":
		return DVD
	case ".iso":
		return ISO
	}
	return Unknown
}

// DetermineMediaType classifies a path into a container format. The decision
// is purely path-derived except for extensionless directories, where the
// presence of a VIDEO_TS, BDMV or HVDVD_TS subdirectory is probed through
// fsys. Pass a nil fsys to skip the probe.
func DetermineMediaType(fsys afero.Fs, path string) MediaType {
	if ext := Extension(path); ext != "" {
		if mt, ok := extensionTypes[ext]; ok {
			return mt
		}
		return Unknown
	}

	if mt, ok := discMarkers[strings.ToLower(LastSegment(path))]; ok {
		return mt
	}

	if fsys != nil {
		if mt := probeDiscStructure(fsys, path); mt != Unknown {
			return mt
		}
	}

	return Unknown
}

// probeDiscStructure checks a directory for a disc-structure subdirectory.
func probeDiscStructure(fsys afero.Fs, path string) MediaType {
	f, err := fsys.Open(path)
	if err != nil {
		return Unknown
	}
	defer func() { _ = f.Close() }()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return Unknown
	}

	for _, name := range names {
		if mt, ok := discMarkers[strings.ToLower(name)]; ok {
			return mt
		}
	}
	return Unknown
}

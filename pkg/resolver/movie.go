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

package resolver

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/location"
	"github.com/mediagrove/mediagrove/pkg/media"
)

// Sentinel files whose presence marks a folder as externally curated;
// recursive part collection stops at them.
var movieSentinelFiles = []string{"mymovies.xml", "movie.xml"}

// MovieResolver matches loose video files, disc images and folders that
// aggregate the parts of a single movie.
//
// Disc-structure markers among a folder's children are authoritative: a
// folder containing VIDEO_TS is one DVD no matter how many loose video
// files sit beside it, so they short-circuit collection outright. Multiple
// ISO siblings are deliberately left unresolved; there is no reliable way
// to tell alternate cuts from unrelated movies.
type MovieResolver struct {
	fsys afero.Fs
	opts Options
}

func (*MovieResolver) Name() string { return "movie" }

func (m *MovieResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() {
		return nil
	}

	if folder := location.AsFolder(loc); folder != nil {
		return m.resolveFolder(loc, folder)
	}

	if m.inTrailersPath(loc.Path()) {
		return nil
	}
	switch {
	case media.IsISO(loc.Path()):
		return &Resolution{Kind: KindMovie, MediaType: media.ISO}
	case media.IsVideo(loc.Path()):
		return &Resolution{Kind: KindMovie, MediaType: media.DetermineMediaType(m.fsys, loc.Path())}
	default:
		return nil
	}
}

func (m *MovieResolver) resolveFolder(loc location.Location, folder *location.Folder) *Resolution {
	if m.isTrailersFolder(loc.Name()) || folder.ContainsChild(IgnoreMarkerFile) {
		return nil
	}

	var volumes []location.Location
	isoCount := 0
	var iso location.Location

	for _, child := range folder.Children() {
		switch media.SpecialFolderType(child.Path()) {
		case media.DVD, media.HDDVD, media.BluRay:
			// Disc structure wins outright.
			return &Resolution{Kind: KindMovie, MediaType: media.SpecialFolderType(child.Path())}
		case media.ISO:
			isoCount++
			if isoCount > 1 {
				// Ambiguous; not auto-classified.
				return nil
			}
			iso = child
			continue
		}

		if m.skipAsTrailers(child) {
			continue
		}

		if len(volumes) > m.opts.MaxVideosPerMovie || isoCount > 0 {
			continue
		}
		if !child.IsHidden() && media.IsVideo(child.Path()) {
			volumes = append(volumes, child)
		}
	}

	if m.opts.SearchRecursively && isoCount == 0 {
		for _, child := range folder.Children() {
			sub := location.AsFolder(child)
			if sub == nil || m.skipAsTrailers(child) {
				continue
			}
			volumes = append(volumes, collectNestedVideos(sub)...)
			if len(volumes) > m.opts.MaxVideosPerMovie {
				break
			}
		}
	}

	if len(volumes) > 0 && len(volumes) <= m.opts.MaxVideosPerMovie {
		return &Resolution{
			Kind:      KindMovie,
			MediaType: media.DetermineMediaType(m.fsys, volumes[0].Path()),
			Volumes:   volumes,
		}
	}
	if len(volumes) == 0 && isoCount == 1 && iso != nil {
		return &Resolution{Kind: KindMovie, MediaType: media.ISO}
	}
	return nil
}

// collectNestedVideos gathers video files from a subfolder tree. A nested
// disc-structure marker or a mymovies.xml/movie.xml sentinel aborts the
// whole branch: that subtree is somebody's curated folder, not parts of
// the enclosing movie.
func collectNestedVideos(folder *location.Folder) []location.Location {
	for _, sentinel := range movieSentinelFiles {
		if folder.ContainsChild(sentinel) {
			return nil
		}
	}

	var videos []location.Location
	for _, child := range folder.Children() {
		switch media.SpecialFolderType(child.Path()) {
		case media.DVD, media.HDDVD, media.BluRay, media.ISO:
			return nil
		}
		if sub := location.AsFolder(child); sub != nil {
			videos = append(videos, collectNestedVideos(sub)...)
			continue
		}
		if !child.IsHidden() && media.IsVideo(child.Path()) {
			videos = append(videos, child)
		}
	}
	return videos
}

func (m *MovieResolver) isTrailersFolder(name string) bool {
	return strings.EqualFold(name, m.opts.TrailersFolder)
}

// skipAsTrailers reports whether a child is the reserved trailer subfolder
// and trailer support is on.
func (m *MovieResolver) skipAsTrailers(child location.Location) bool {
	return m.opts.EnableTrailerSupport &&
		location.AsFolder(child) != nil &&
		m.isTrailersFolder(child.Name())
}

// inTrailersPath reports whether any path segment names the reserved
// trailer folder.
func (m *MovieResolver) inTrailersPath(path string) bool {
	if !m.opts.EnableTrailerSupport {
		return false
	}
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if strings.EqualFold(seg, m.opts.TrailersFolder) {
			return true
		}
	}
	return false
}

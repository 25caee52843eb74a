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
	"regexp"
	"strings"

	"github.com/mediagrove/mediagrove/pkg/location"
	"github.com/mediagrove/mediagrove/pkg/media"
)

var (
	seasonFolderPattern = regexp.MustCompile(`^(?:season|series|staffel|saison|temporada)[ ._-]*([0-9]+)$`)

	// Episode numbering patterns, most specific first.
	episodePatterns = []*regexp.Regexp{
		// S01E02, s1.e2, S01-E02
		regexp.MustCompile(`(?i)s([0-9]{1,3})[ ._-]*e([0-9]{1,3})`),
		// 1x02
		regexp.MustCompile(`(?i)\b([0-9]{1,3})x([0-9]{2,3})\b`),
		// Episode 7
		regexp.MustCompile(`(?i)\bepisode[ ._-]*([0-9]{1,3})\b`),
		// Date-based: 2019.04.22
		regexp.MustCompile(`\b([0-9]{4})[._-]([0-9]{2})[._-]([0-9]{2})\b`),
	}
)

// IsSeasonFolder reports whether a folder name follows season-folder
// naming: "Season 3", "Staffel 1", a bare "Specials" folder and common
// international variants.
func IsSeasonFolder(name string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "specials" {
		return true
	}
	return seasonFolderPattern.MatchString(trimmed)
}

// EpisodeNumber extracts the episode number from a video filename, or ""
// when the name carries no recognizable numbering. Date-based naming
// returns the day component.
func EpisodeNumber(path string) string {
	name := media.LastSegment(path)
	if ext := media.Extension(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}

	for i, pattern := range episodePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if i == len(episodePatterns)-1 {
			// date pattern: year month day
			return m[3]
		}
		return m[len(m)-1]
	}
	return ""
}

// IsSeriesFolder reports whether a folder looks like a TV series: it is not
// itself a season folder, and either a season folder shows up among its
// child folders before three non-season folders have been seen, or some
// child file is a video with a recognizable episode number.
func IsSeriesFolder(folder *location.Folder) bool {
	if IsSeasonFolder(folder.Name()) {
		return false
	}

	nonSeason := 0
	for _, child := range folder.Children() {
		if location.AsFolder(child) != nil {
			if IsSeasonFolder(child.Name()) {
				return true
			}
			nonSeason++
			if nonSeason >= 3 {
				return false
			}
		} else if media.IsVideo(child.Path()) && EpisodeNumber(child.Path()) != "" {
			return true
		}
	}
	return false
}

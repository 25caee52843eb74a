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

// EpisodeResolver matches locations whose name carries episode numbering
// and whose content is playable: a disc folder, an ISO, a video file or a
// loose VOB.
type EpisodeResolver struct {
	fsys afero.Fs
}

func (*EpisodeResolver) Name() string { return "episode" }

func (e *EpisodeResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() {
		return nil
	}
	if EpisodeNumber(loc.Path()) == "" {
		return nil
	}

	path := loc.Path()
	if folder := location.AsFolder(loc); folder != nil {
		disc := inspectDiscFolder(folder)
		if !disc.isDisc() {
			return nil
		}
		return &Resolution{Kind: KindEpisode, MediaType: disc.mediaType()}
	}

	switch {
	case media.IsISO(path):
		return &Resolution{Kind: KindEpisode, MediaType: media.ISO}
	case media.IsVideo(path):
		return &Resolution{Kind: KindEpisode, MediaType: media.DetermineMediaType(e.fsys, path)}
	case media.IsVob(path):
		return &Resolution{Kind: KindEpisode, MediaType: media.DVD}
	default:
		return nil
	}
}

// discInspection is the result of a one-level scan of a folder's children
// for disc-structure markers.
type discInspection struct {
	isDVD       bool
	containsIfo bool
	isBluRay    bool
}

func (d discInspection) isDisc() bool {
	return d.isDVD || d.isBluRay
}

func (d discInspection) mediaType() media.MediaType {
	if d.isBluRay {
		return media.BluRay
	}
	return media.DVD
}

// inspectDiscFolder recurses one level into a folder's children looking
// for a VIDEO_TS marker, a BDMV marker or any VOB/IFO file, stopping early
// once both DVD conditions are confirmed.
func inspectDiscFolder(folder *location.Folder) discInspection {
	var d discInspection
	for _, child := range folder.Children() {
		name := strings.ToLower(media.LastSegment(child.Path()))
		switch {
		case name == "video_ts" || strings.HasSuffix(name, ".vob"):
			d.isDVD = true
		case name == "bdmv":
			d.isBluRay = true
		case strings.HasSuffix(name, ".ifo"):
			d.containsIfo = true
		}
		if d.isDVD && d.containsIfo {
			break
		}
	}
	return d
}

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

	"github.com/mediagrove/mediagrove/pkg/location"
	"github.com/mediagrove/mediagrove/pkg/media"
)

// IgnoreMarkerFile inside a folder excludes it from classification.
const IgnoreMarkerFile = ".ignore"

// SeriesMarkerFile inside a folder forces series classification.
const SeriesMarkerFile = "series.xml"

// ignoredFolderNames are system folders never classified as media.
var ignoredFolderNames = map[string]bool{
	"metadata":     true,
	".metadata":    true,
	"$recycle.bin": true,
}

// BoxSetResolver matches folders carrying the [boxset] path marker.
type BoxSetResolver struct{}

func (*BoxSetResolver) Name() string { return "boxset" }

func (*BoxSetResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() || location.AsFolder(loc) == nil {
		return nil
	}
	if !media.IsBoxSetPath(loc.Path()) {
		return nil
	}
	return &Resolution{Kind: KindBoxSet}
}

// SeriesResolver matches folders that look like a TV series, or that carry
// an explicit series.xml marker.
type SeriesResolver struct{}

func (*SeriesResolver) Name() string { return "series" }

func (*SeriesResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() {
		return nil
	}
	folder := location.AsFolder(loc)
	if folder == nil {
		return nil
	}
	if folder.ContainsChild(SeriesMarkerFile) || IsSeriesFolder(folder) {
		return &Resolution{Kind: KindSeries}
	}
	return nil
}

// SeasonResolver matches folders named like a season of a series.
type SeasonResolver struct{}

func (*SeasonResolver) Name() string { return "season" }

func (*SeasonResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() || location.AsFolder(loc) == nil {
		return nil
	}
	if !IsSeasonFolder(loc.Name()) {
		return nil
	}
	return &Resolution{Kind: KindSeason}
}

// VodCastResolver matches vodcast definition files.
type VodCastResolver struct{}

func (*VodCastResolver) Name() string { return "vodcast" }

func (*VodCastResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() || !media.IsVodcastFile(loc.Path()) {
		return nil
	}
	return &Resolution{Kind: KindVodCast}
}

// FolderResolver is the fallback classification for plain folders. It must
// sit after every more specific folder resolver in the chain.
type FolderResolver struct {
	opts Options
}

func (*FolderResolver) Name() string { return "folder" }

func (f *FolderResolver) Resolve(loc location.Location) *Resolution {
	if loc.IsHidden() {
		return nil
	}
	folder := location.AsFolder(loc)
	if folder == nil {
		return nil
	}

	name := strings.ToLower(loc.Name())
	if name == strings.ToLower(f.opts.TrailersFolder) || ignoredFolderNames[name] {
		return nil
	}
	if folder.ContainsChild(IgnoreMarkerFile) {
		return nil
	}
	if len(folder.Children()) == 0 {
		return nil
	}
	return &Resolution{Kind: KindFolder}
}

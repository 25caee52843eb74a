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

// Package resolver classifies locations into media entity kinds. A chain
// of resolvers inspects each location in a fixed precedence order; the
// first resolver to produce a resolution wins. The order is load-bearing:
// the specific folder kinds must be tried before the generic movie and
// folder fallbacks, or a series folder would classify as a movie.
package resolver

import (
	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/location"
	"github.com/mediagrove/mediagrove/pkg/media"
)

// Kind identifies what sort of media entity a location represents. The
// consuming library layer maps a kind to the entity constructor it owns.
type Kind string

// The entity kinds the chain can produce.
const (
	KindMovie   Kind = "movie"
	KindSeries  Kind = "series"
	KindSeason  Kind = "season"
	KindEpisode Kind = "episode"
	KindBoxSet  Kind = "boxset"
	KindFolder  Kind = "folder"
	KindVodCast Kind = "vodcast"
)

// InitParameter is a typed payload handed from a resolver to the entity
// factory. Parameters are created by the resolver and consumed once; the
// location tree does not retain them.
type InitParameter interface {
	initParameter()
}

// MediaTypeParameter tells the factory which container format the entity
// holds.
type MediaTypeParameter struct {
	MediaType media.MediaType
}

func (MediaTypeParameter) initParameter() {}

// MovieVolumesParameter carries the file parts of a multi-part movie in
// enumeration order.
type MovieVolumesParameter struct {
	Volumes []location.Location
}

func (MovieVolumesParameter) initParameter() {}

// Resolution is a classification decision: the entity kind to construct
// plus its initialization data.
type Resolution struct {
	Kind      Kind
	MediaType media.MediaType
	Volumes   []location.Location
}

// Parameters returns the initialization parameter list for the factory.
func (r *Resolution) Parameters() []InitParameter {
	var params []InitParameter
	if r.MediaType != media.Unknown && r.MediaType != "" {
		params = append(params, MediaTypeParameter{MediaType: r.MediaType})
	}
	if len(r.Volumes) > 0 {
		params = append(params, MovieVolumesParameter{Volumes: r.Volumes})
	}
	return params
}

// Resolver inspects a location and either claims it with a resolution or
// returns nil. Resolvers never fail; "not a match" is nil.
type Resolver interface {
	Name() string
	Resolve(loc location.Location) *Resolution
}

// Options carries the movie resolver tunables.
type Options struct {
	// TrailersFolder is the reserved trailer subfolder name, compared
	// case-insensitively.
	TrailersFolder string
	// MaxVideosPerMovie caps how many loose video files still count as
	// parts of a single movie.
	MaxVideosPerMovie int
	// SearchRecursively also collects video parts from subfolders.
	SearchRecursively bool
	// EnableTrailerSupport skips the trailers subfolder during collection.
	EnableTrailerSupport bool
}

// DefaultOptions returns the stock tunables.
func DefaultOptions() Options {
	return Options{
		MaxVideosPerMovie:    3,
		SearchRecursively:    false,
		EnableTrailerSupport: true,
		TrailersFolder:       "trailers",
	}
}

// Chain is an ordered list of resolvers.
type Chain struct {
	resolvers []Resolver
}

// NewChain builds the standard chain: BoxSet, Series, Season, Episode,
// Movie, VodCast, Folder.
func NewChain(fsys afero.Fs, opts Options) *Chain {
	return &Chain{resolvers: []Resolver{
		&BoxSetResolver{},
		&SeriesResolver{},
		&SeasonResolver{},
		&EpisodeResolver{fsys: fsys},
		&MovieResolver{fsys: fsys, opts: opts},
		&VodCastResolver{},
		&FolderResolver{opts: opts},
	}}
}

// Resolve runs the chain and returns the first resolution, or nil when the
// location is not media.
func (c *Chain) Resolve(loc location.Location) *Resolution {
	for _, r := range c.resolvers {
		if res := r.Resolve(loc); res != nil {
			return res
		}
	}
	return nil
}

// Names returns the resolver names in evaluation order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.resolvers))
	for _, r := range c.resolvers {
		names = append(names, r.Name())
	}
	return names
}

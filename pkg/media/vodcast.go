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
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DownloadPolicy controls when vodcast episodes are fetched.
type DownloadPolicy string

// Recognized download policies.
const (
	DownloadPolicyStream    DownloadPolicy = "Stream"
	DownloadPolicyFirstPlay DownloadPolicy = "FirstPlay"
	DownloadPolicyLatest    DownloadPolicy = "Latest"
)

// Attribute keys recognized in .vodcast files.
const (
	vodcastKeyURL            = "url"
	vodcastKeyFilesToRetain  = "files_to_retain"
	vodcastKeyDownloadPolicy = "download_policy"
)

// VodcastContents is the parsed form of a .vodcast file.
type VodcastContents struct {
	URL            string
	DownloadPolicy DownloadPolicy
	FilesToRetain  int
}

// ParseVodcast parses .vodcast attributed text. An unparseable policy falls
// back to Stream; an unparseable retain count falls back to zero.
func ParseVodcast(text string) *VodcastContents {
	attrs := ParseAttributes(text)
	c := &VodcastContents{
		URL:            attrs.Get(vodcastKeyURL),
		DownloadPolicy: DownloadPolicyStream,
	}

	if raw := attrs.Get(vodcastKeyFilesToRetain); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn().Msgf("invalid files_to_retain value: %s", raw)
		} else {
			c.FilesToRetain = n
		}
	}

	switch policy := DownloadPolicy(attrs.Get(vodcastKeyDownloadPolicy)); policy {
	case DownloadPolicyStream, DownloadPolicyFirstPlay, DownloadPolicyLatest:
		c.DownloadPolicy = policy
	case "":
	default:
		log.Warn().Msgf("invalid download_policy value: %s", policy)
	}

	return c
}

// ReadVodcast loads and parses a .vodcast file.
func ReadVodcast(fsys afero.Fs, path string) (*VodcastContents, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vodcast file: %w", err)
	}
	return ParseVodcast(string(data)), nil
}

// Encode serializes the contents back to attributed text.
func (c *VodcastContents) Encode() string {
	attrs := NewAttributes()
	if c.URL != "" {
		attrs.Add(vodcastKeyURL, c.URL)
	}
	if c.FilesToRetain > 0 {
		attrs.Add(vodcastKeyFilesToRetain, strconv.Itoa(c.FilesToRetain))
	}
	attrs.Add(vodcastKeyDownloadPolicy, string(c.DownloadPolicy))
	return attrs.Encode()
}

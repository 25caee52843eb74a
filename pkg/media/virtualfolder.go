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
	"strings"

	"github.com/spf13/afero"
)

// Attribute keys recognized in .vf virtual folder files.
const (
	vfKeyImage     = "image"
	vfKeySortOrder = "sortorder"
	vfKeyFolder    = "folder"
)

// VirtualFolderContents is the parsed form of a .vf file: a user-defined
// logical folder splicing together several physical directories, with
// optional image and sort-name overrides.
type VirtualFolderContents struct {
	ImagePath string
	SortName  string
	Folders   []string
}

// ParseVirtualFolder parses .vf attributed text.
func ParseVirtualFolder(text string) *VirtualFolderContents {
	attrs := ParseAttributes(text)
	c := &VirtualFolderContents{
		ImagePath: attrs.Get(vfKeyImage),
		SortName:  attrs.Get(vfKeySortOrder),
	}
	for _, folder := range attrs.GetAll(vfKeyFolder) {
		c.AddFolder(folder)
	}
	return c
}

// ReadVirtualFolder loads and parses a .vf file.
func ReadVirtualFolder(fsys afero.Fs, path string) (*VirtualFolderContents, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read virtual folder file: %w", err)
	}
	return ParseVirtualFolder(string(data)), nil
}

// AddFolder appends a constituent folder, suppressing duplicates while
// preserving the order folders were first added in.
func (c *VirtualFolderContents) AddFolder(path string) {
	for _, existing := range c.Folders {
		if strings.EqualFold(existing, path) {
			return
		}
	}
	c.Folders = append(c.Folders, path)
}

// RemoveFolder drops a constituent folder if present.
func (c *VirtualFolderContents) RemoveFolder(path string) {
	for i, existing := range c.Folders {
		if strings.EqualFold(existing, path) {
			c.Folders = append(c.Folders[:i], c.Folders[i+1:]...)
			return
		}
	}
}

// Encode serializes the contents back to attributed text. Encode and
// ParseVirtualFolder round-trip.
func (c *VirtualFolderContents) Encode() string {
	attrs := NewAttributes()
	if c.ImagePath != "" {
		attrs.Add(vfKeyImage, c.ImagePath)
	}
	if c.SortName != "" {
		attrs.Add(vfKeySortOrder, c.SortName)
	}
	for _, folder := range c.Folders {
		attrs.Add(vfKeyFolder, folder)
	}
	return attrs.Encode()
}

// WriteVirtualFolder saves the contents to a .vf file.
func WriteVirtualFolder(fsys afero.Fs, path string, c *VirtualFolderContents) error {
	if err := afero.WriteFile(fsys, path, []byte(c.Encode()), 0o644); err != nil {
		return fmt.Errorf("failed to write virtual folder file: %w", err)
	}
	return nil
}

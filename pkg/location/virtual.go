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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/helpers"
	"github.com/mediagrove/mediagrove/pkg/media"
)

// VirtualFolder is a folder location whose children are the union of the
// children of the constituent folders listed in its .vf file, in list
// order. A constituent that fails to enumerate is recorded as unavailable
// and contributes no children; the rest keep resolving.
type VirtualFolder struct {
	contents *media.VirtualFolderContents
	Folder
}

// NewVirtualFolder constructs a virtual folder from a .vf file path. A
// malformed or unreadable .vf is logged and treated as defining no
// constituents.
func NewVirtualFolder(fsys afero.Fs, path string, parent *Folder, info os.FileInfo) *VirtualFolder {
	contents, err := media.ReadVirtualFolder(fsys, path)
	if err != nil {
		log.Warn().Msgf("failed to read virtual folder definition %s: %v", path, err)
		contents = &media.VirtualFolderContents{}
	}

	v := &VirtualFolder{
		Folder:   Folder{entry: newEntry(fsys, path, parent, info, true)},
		contents: contents,
	}
	v.load = v.loadConstituents
	return v
}

// Name strips the .vf extension from the definition filename.
func (v *VirtualFolder) Name() string {
	base := filepath.Base(v.path)
	if ext := media.Extension(base); ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}

// Contents returns the parsed .vf definition.
func (v *VirtualFolder) Contents() *media.VirtualFolderContents {
	return v.contents
}

// Constituents returns the configured physical folder paths in order.
func (v *VirtualFolder) Constituents() []string {
	return v.contents.Folders
}

func (v *VirtualFolder) loadConstituents() ([]Location, []string) {
	var children []Location
	var unavailable []string

	for _, folder := range v.contents.Folders {
		if _, err := helpers.StatWithRetry(v.fsys, folder, helpers.DefaultRetryConfig()); err != nil {
			log.Warn().Msgf("virtual folder constituent unavailable: %s: %v", folder, err)
			unavailable = append(unavailable, strings.ToLower(folder))
			continue
		}
		children = append(children, enumerate(v.fsys, folder, &v.Folder)...)
	}

	return children, unavailable
}

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
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FolderMetadataFile is the sidecar filename placed inside a folder.
const FolderMetadataFile = "folder.xml"

// FolderMetadata holds the user-editable fields of a folder.xml sidecar.
// Absent elements unmarshal to empty strings rather than failing.
type FolderMetadata struct {
	XMLName      xml.Name `xml:"Title"`
	CustomRating string   `xml:"CustomRating,omitempty"`
	Description  string   `xml:"Description,omitempty"`
}

// FolderMetadataPath returns the sidecar path for a folder location. For a
// .vf virtual folder file the sidecar sits beside it as <name>.folder.xml.
func FolderMetadataPath(path string) string {
	if IsVirtualFolderFile(path) {
		base := path[:len(path)-len(Extension(path))]
		return base + ".folder.xml"
	}
	return filepath.Join(path, FolderMetadataFile)
}

// ReadFolderMetadata loads the sidecar for a folder or .vf location. A
// missing file is not an error and yields nil metadata; a malformed file is
// logged and likewise yields nil so the location proceeds without metadata.
func ReadFolderMetadata(fsys afero.Fs, path string) (*FolderMetadata, error) {
	sidecar := FolderMetadataPath(path)
	data, err := afero.ReadFile(fsys, sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read folder metadata: %w", err)
	}

	var meta FolderMetadata
	if err := xml.Unmarshal(data, &meta); err != nil {
		log.Warn().Msgf("malformed folder metadata in %s: %v", sidecar, err)
		return nil, nil
	}
	return &meta, nil
}

// WriteFolderMetadata saves the sidecar for a folder or .vf location.
func WriteFolderMetadata(fsys afero.Fs, path string, meta *FolderMetadata) error {
	data, err := xml.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal folder metadata: %w", err)
	}
	if err := afero.WriteFile(fsys, FolderMetadataPath(path), data, 0o644); err != nil {
		return fmt.Errorf("failed to write folder metadata: %w", err)
	}
	return nil
}

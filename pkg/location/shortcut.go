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
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/helpers"
)

// ResolveShortcut reads a .lnk shortcut file and returns its target path:
// the first non-empty line, trimmed. An empty file yields "". Whether the
// target exists is the caller's concern.
func ResolveShortcut(fsys afero.Fs, path string) (string, error) {
	f, err := helpers.OpenWithRetry(fsys, path, helpers.DefaultRetryConfig())
	if err != nil {
		return "", fmt.Errorf("failed to open shortcut: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read shortcut: %w", err)
	}
	return "", nil
}

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
	"strings"
)

// Attributes is a line-oriented "key: value" store used by virtual folder
// and vodcast definition files. Keys are case-sensitive and may repeat to
// hold multiple values; insertion order is preserved. Lines are separated
// by plain "\n" so the format stays portable across systems.
type Attributes struct {
	values map[string][]string
	keys   []string
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string][]string)}
}

// ParseAttributes reads attributed text. Lines without a colon, or whose
// trimmed value is empty, are ignored.
func ParseAttributes(text string) *Attributes {
	a := NewAttributes()
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		a.Add(key, value)
	}
	return a
}

// Add appends a value under key, preserving insertion order.
func (a *Attributes) Add(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = append(a.values[key], value)
}

// Get returns the first value stored under key, or "".
func (a *Attributes) Get(key string) string {
	vals := a.values[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// GetAll returns every value stored under key, in insertion order.
func (a *Attributes) GetAll(key string) []string {
	return a.values[key]
}

// Encode serializes the attributes back to text, one "key: value" line per
// stored value. Parsing the result yields an equal attribute set.
func (a *Attributes) Encode() string {
	var b strings.Builder
	for _, key := range a.keys {
		for _, value := range a.values[key] {
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\n")
		}
	}
	return b.String()
}

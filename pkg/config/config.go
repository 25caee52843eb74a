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

// Package config holds the engine's persisted settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/helpers/syncutil"
)

const (
	// SchemaVersion tracks the config file layout.
	SchemaVersion = 1
	// CfgEnv overrides the config file path.
	CfgEnv = "MEDIAGROVE_CFG"
	// CfgFile is the default config filename.
	CfgFile = "config.toml"
)

// Values is the persisted configuration.
type Values struct {
	Resolver     Resolver `toml:"resolver,omitempty"`
	Watcher      Watcher  `toml:"watcher,omitempty"`
	ConfigSchema int      `toml:"config_schema"`
	DebugLogging bool     `toml:"debug_logging"`
}

// Resolver carries the classification tunables.
type Resolver struct {
	TrailersFolder             string `toml:"trailers_folder,omitempty"`
	MaxVideosPerMovie          int    `toml:"max_videos_per_movie"`
	SearchForVideosRecursively bool   `toml:"search_for_videos_recursively"`
	EnableTrailerSupport       bool   `toml:"enable_trailer_support"`
}

// Watcher carries the change-detection tunables. Delays are duration
// strings ("30s", "2m").
type Watcher struct {
	InitialDelay       string   `toml:"initial_delay,omitempty"`
	QuietDelay         string   `toml:"quiet_delay,omitempty"`
	ColdThreshold      string   `toml:"cold_threshold,omitempty"`
	IgnoreExtensions   []string `toml:"ignore_extensions,omitempty,multiline"`
	Workers            int      `toml:"workers"`
	WatchModifications bool     `toml:"watch_modifications"`
}

// BaseDefaults is the stock configuration.
var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Resolver: Resolver{
		MaxVideosPerMovie:    3,
		EnableTrailerSupport: true,
		TrailersFolder:       "trailers",
	},
	Watcher: Watcher{
		InitialDelay:     "30s",
		QuietDelay:       "120s",
		ColdThreshold:    "120s",
		Workers:          2,
		IgnoreExtensions: []string{".jpg", ".json", ".data", ".png", ".xml"},
	},
}

// Instance is a live, lockable view of the configuration.
type Instance struct {
	fsys     afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads or creates the config file under configDir.
//
//nolint:gocritic // defaults struct copied for immutability
func NewConfig(fsys afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fsys:     fsys,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := fsys.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
		return &cfg, nil
	}

	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config file from disk, replacing in-memory values.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return fmt.Errorf("config path not set")
	}

	data, err := afero.ReadFile(c.fsys, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	vals := c.defaults
	if err := toml.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	c.vals = vals

	log.Info().Msgf("loaded config: %s", c.cfgPath)
	return nil
}

// Save writes the current values to disk.
func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfgPath == "" {
		return fmt.Errorf("config path not set")
	}

	data, err := toml.Marshal(c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := c.fsys.MkdirAll(filepath.Dir(c.cfgPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(c.fsys, c.cfgPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

// DebugLogging reports whether debug logging is on.
func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

// SetDebugLogging toggles debug logging.
func (c *Instance) SetDebugLogging(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = on
}

// MaxVideosPerMovie returns the multi-part collection cap, at least 1.
func (c *Instance) MaxVideosPerMovie() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Resolver.MaxVideosPerMovie < 1 {
		return c.defaults.Resolver.MaxVideosPerMovie
	}
	return c.vals.Resolver.MaxVideosPerMovie
}

// SearchForVideosRecursively reports whether the movie resolver descends
// into subfolders.
func (c *Instance) SearchForVideosRecursively() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Resolver.SearchForVideosRecursively
}

// EnableTrailerSupport reports whether trailer subfolders are reserved.
func (c *Instance) EnableTrailerSupport() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Resolver.EnableTrailerSupport
}

// TrailersFolder returns the reserved trailer subfolder name.
func (c *Instance) TrailersFolder() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Resolver.TrailersFolder == "" {
		return c.defaults.Resolver.TrailersFolder
	}
	return c.vals.Resolver.TrailersFolder
}

// WatcherWorkers returns the refresh pool size, at least 1.
func (c *Instance) WatcherWorkers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Watcher.Workers < 1 {
		return c.defaults.Watcher.Workers
	}
	return c.vals.Watcher.Workers
}

// WatchModifications reports whether write events count as changes.
func (c *Instance) WatchModifications() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Watcher.WatchModifications
}

// IgnoreExtensions returns the extensions filtered out of the event
// stream.
func (c *Instance) IgnoreExtensions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	exts := make([]string, len(c.vals.Watcher.IgnoreExtensions))
	copy(exts, c.vals.Watcher.IgnoreExtensions)
	return exts
}

// InitialDelay returns the cold-start debounce delay.
func (c *Instance) InitialDelay() time.Duration {
	return c.duration(func(v Values) string { return v.Watcher.InitialDelay })
}

// QuietDelay returns the quiet-period debounce delay.
func (c *Instance) QuietDelay() time.Duration {
	return c.duration(func(v Values) string { return v.Watcher.QuietDelay })
}

// ColdThreshold returns how long since the last refresh counts as cold.
func (c *Instance) ColdThreshold() time.Duration {
	return c.duration(func(v Values) string { return v.Watcher.ColdThreshold })
}

// duration parses a delay field, falling back to the default on bad input.
func (c *Instance) duration(get func(Values) string) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw := get(c.vals)
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if raw != "" {
		log.Warn().Msgf("invalid duration in config: %s", raw)
	}
	d, err := time.ParseDuration(get(c.defaults))
	if err != nil {
		return 0
	}
	return d
}

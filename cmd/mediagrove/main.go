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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/mediagrove/mediagrove/pkg/config"
	"github.com/mediagrove/mediagrove/pkg/helpers"
	"github.com/mediagrove/mediagrove/pkg/location"
	"github.com/mediagrove/mediagrove/pkg/resolver"
	"github.com/mediagrove/mediagrove/pkg/watcher"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String(
		"config",
		defaultConfigDir(),
		"directory for config and log files",
	)
	watchMode := flag.Bool(
		"watch",
		false,
		"keep running and re-scan roots on filesystem changes",
	)
	debugMode := flag.Bool(
		"debug",
		false,
		"enable debug logging",
	)
	flag.Parse()

	roots := flag.Args()
	if len(roots) == 0 {
		return fmt.Errorf("no media folders given")
	}

	err := helpers.InitLogging(*configDir, []io.Writer{zerolog.ConsoleWriter{
		Out: os.Stderr,
	}})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	fsys := afero.NewOsFs()
	cfg, err := config.NewConfig(fsys, *configDir, config.BaseDefaults)
	if err != nil {
		return err
	}
	if *debugMode || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	for i, root := range roots {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			return fmt.Errorf("failed to resolve path %s: %w", root, absErr)
		}
		roots[i] = abs
	}

	chain := resolver.NewChain(fsys, resolver.Options{
		MaxVideosPerMovie:    cfg.MaxVideosPerMovie(),
		SearchRecursively:    cfg.SearchForVideosRecursively(),
		EnableTrailerSupport: cfg.EnableTrailerSupport(),
		TrailersFolder:       cfg.TrailersFolder(),
	})

	scan := func() error {
		for _, root := range roots {
			loc, newErr := location.New(fsys, root)
			if newErr != nil {
				return fmt.Errorf("failed to open %s: %w", root, newErr)
			}
			walk(chain, loc, 0)
		}
		return nil
	}

	if err := scan(); err != nil {
		return err
	}
	if !*watchMode {
		return nil
	}

	target := &rescanTarget{scan: scan}
	fw := watcher.New(target, roots, watcher.Options{
		Delays: watcher.Delays{
			Initial:       cfg.InitialDelay(),
			Quiet:         cfg.QuietDelay(),
			ColdThreshold: cfg.ColdThreshold(),
		},
		Pool:               watcher.NewPool("refresh", int64(cfg.WatcherWorkers())),
		IgnoredExtensions:  cfg.IgnoreExtensions(),
		WatchModifications: cfg.WatchModifications(),
	})
	fw.Start()
	defer fw.Stop()

	log.Info().Msgf("watching %d folder(s), ctrl-c to exit", len(roots))
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutting down")
	return nil
}

// rescanTarget re-runs the full scan when the watcher settles.
type rescanTarget struct {
	scan func() error
}

func (t *rescanTarget) ValidateChildren() error {
	return t.scan()
}

func (t *rescanTarget) RefreshMetadata(path string) error {
	log.Debug().Msgf("metadata refresh requested: %s", path)
	return nil
}

func (t *rescanTarget) ReCacheImages(path string) error {
	log.Debug().Msgf("image re-cache requested: %s", path)
	return nil
}

func (t *rescanTarget) NotifyDisplay() {
	log.Debug().Msg("display notified of refresh")
}

// walk prints the resolved kind of every folder in the tree.
func walk(chain *resolver.Chain, loc location.Location, depth int) {
	res := chain.Resolve(loc)
	if res != nil {
		indent := ""
		for i := 0; i < depth; i++ {
			indent += "  "
		}
		fmt.Printf("%s%s [%s]\n", indent, loc.Name(), res.Kind)
	}

	folder := location.AsFolder(loc)
	if folder == nil {
		return
	}
	// Resolved movies, seasons and discs own their contents.
	if res != nil && res.Kind != resolver.KindFolder &&
		res.Kind != resolver.KindSeries && res.Kind != resolver.KindBoxSet {
		return
	}
	for _, child := range folder.Children() {
		walk(chain, child, depth+1)
	}
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "mediagrove")
}

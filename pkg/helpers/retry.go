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

// Package helpers provides shared filesystem, logging and retry utilities.
package helpers

import (
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// RetryConfig configures retry behavior for filesystem operations. Failures
// on locked files and flaky network shares usually clear within a few tens
// of milliseconds, so the backoff is fixed rather than exponential.
type RetryConfig struct {
	Clock       clockwork.Clock
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryConfig returns the retry settings used by the location tree.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Backoff:     50 * time.Millisecond,
		Clock:       clockwork.NewRealClock(),
	}
}

func (c RetryConfig) clock() clockwork.Clock {
	if c.Clock == nil {
		return clockwork.NewRealClock()
	}
	return c.Clock
}

// isTransient reports whether an error is worth retrying: sharing violations,
// interrupted calls and stale NFS handles. Anything else propagates to the
// caller of the failed operation only.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EAGAIN, syscall.EBUSY, syscall.EINTR,
			syscall.ESTALE, syscall.ETIMEDOUT:
			return true
		}
	}

	return errors.Is(err, os.ErrDeadlineExceeded)
}

func withRetry[T any](op, path string, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		v, err := fn()
		if err == nil {
			if attempt > 0 {
				log.Info().Msgf("%s succeeded on retry %d: %s", op, attempt, path)
			}
			return v, nil
		}

		lastErr = err

		if !isTransient(err) {
			return zero, err
		}

		if attempt < cfg.MaxAttempts-1 {
			log.Debug().Msgf("%s transient error for %s, retrying in %v (attempt %d/%d): %v",
				op, path, cfg.Backoff, attempt+1, cfg.MaxAttempts, err)
			cfg.clock().Sleep(cfg.Backoff)
		}
	}

	log.Warn().Msgf("%s failed after %d attempts: %s: %v", op, cfg.MaxAttempts, path, lastErr)
	return zero, lastErr
}

// StatWithRetry performs Stat with bounded retries for transient errors.
func StatWithRetry(fsys afero.Fs, path string, cfg RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, cfg, func() (os.FileInfo, error) {
		return fsys.Stat(path)
	})
}

// OpenWithRetry performs Open with bounded retries for transient errors.
func OpenWithRetry(fsys afero.Fs, path string, cfg RetryConfig) (afero.File, error) {
	return withRetry("open", path, cfg, func() (afero.File, error) {
		return fsys.Open(path)
	})
}

// ReadDirWithRetry enumerates a directory with bounded retries for transient
// errors. Entries come back in the order the filesystem reports them.
func ReadDirWithRetry(fsys afero.Fs, path string, cfg RetryConfig) ([]os.FileInfo, error) {
	return withRetry("readdir", path, cfg, func() ([]os.FileInfo, error) {
		return afero.ReadDir(fsys, path)
	})
}

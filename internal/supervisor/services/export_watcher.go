// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/steamlens/internal/logging"
)

// CacheInvalidator drops cached reads. *store.Store satisfies it.
type CacheInvalidator interface {
	InvalidateCache()
}

// ExportWatcherService watches the SQLite export with fsnotify and clears the
// read cache once a rewrite has settled, so the dashboard picks up a new ETL
// run without a restart.
//
// The parent directory is watched rather than the file, so the watch
// survives the file being deleted and recreated.
type ExportWatcherService struct {
	path   string
	target CacheInvalidator
	settle time.Duration
	// retry is how often a missing export directory is checked for.
	retry time.Duration
	log   zerolog.Logger
}

// NewExportWatcherService watches path. Events are coalesced until the file
// has been quiet for settle; a non-positive settle becomes 500ms.
func NewExportWatcherService(path string, target CacheInvalidator, settle time.Duration) *ExportWatcherService {
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	return &ExportWatcherService{
		path:   filepath.Clean(path),
		target: target,
		settle: settle,
		retry:  5 * time.Second,
		log:    logging.WithComponent("export-watcher"),
	}
}

// Serve implements suture.Service.
func (w *ExportWatcherService) Serve(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.waitForDir(ctx, dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info().Str("path", w.path).Dur("settle", w.settle).Msg("Watching export file")

	var (
		pending *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(w.settle)
			} else {
				pending.Reset(w.settle)
			}
			fire = pending.C

		case <-fire:
			fire = nil
			w.invalidate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			// Dropped events may have hidden a rewrite.
			w.log.Warn().Err(err).Str("path", w.path).Msg("File watcher error, clearing read cache")
			w.target.InvalidateCache()
		}
	}
}

// invalidate clears the cache and logs whether the export still exists.
func (w *ExportWatcherService) invalidate() {
	w.target.InvalidateCache()

	info, err := os.Stat(w.path)
	if err != nil {
		w.log.Warn().Str("path", w.path).Msg("Export file removed, read cache cleared")
		return
	}
	w.log.Info().
		Str("path", w.path).
		Int64("size", info.Size()).
		Time("mod_time", info.ModTime()).
		Msg("Export file changed, read cache cleared")
}

// waitForDir blocks until dir exists. fsnotify cannot watch a directory that
// has not been created yet.
func (w *ExportWatcherService) waitForDir(ctx context.Context, dir string) error {
	ticker := time.NewTicker(w.retry)
	defer ticker.Stop()

	logged := false
	for {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return nil
		case err == nil:
			return fmt.Errorf("export directory %s is not a directory", dir)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("stat %s: %w", dir, err)
		}
		if !logged {
			w.log.Warn().Str("dir", dir).Msg("Export directory does not exist yet, waiting")
			logged = true
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// String names the service in supervisor events.
func (w *ExportWatcherService) String() string {
	return "export-watcher"
}

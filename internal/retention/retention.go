// Package retention deletes backup run directories whose age exceeds the
// configured retention window.
package retention

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raoulx24/dotfile-archiver/internal/fs"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
	"github.com/raoulx24/dotfile-archiver/internal/run"
)

var ErrNegativeWindow = errors.New("retention window must be non-negative")

type Engine struct {
	days int
	fs   fs.FS
	log  logging.Logger
}

// Report summarizes one sweep.
type Report struct {
	Examined int
	Removed  int
	Kept     int
}

// New builds an engine with a retention window of days. A negative window
// is a configuration error, never coerced.
func New(days int, filesystem fs.FS, log logging.Logger) (*Engine, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeWindow, days)
	}
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{days: days, fs: filesystem, log: log}, nil
}

// Sweep removes every immediate subdirectory of backupRoot older than the
// retention window, measured against now. Age comes from the directory
// name's run timestamp; a name that does not parse falls back to the
// directory's modification time; a directory with no determinable age is
// kept. Deletion is strict less-than: a directory exactly at the cutoff
// survives. Per-directory failures are logged and do not stop the sweep.
//
// With dryRun set, eligible directories are counted as removed but left
// in place.
func (e *Engine) Sweep(ctx context.Context, backupRoot string, now time.Time, dryRun bool) (Report, error) {
	var rep Report

	entries, err := e.fs.ReadDir(backupRoot)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Debug("backup root does not exist, nothing to sweep", "root", backupRoot)
			return rep, nil
		}
		return rep, fmt.Errorf("reading backup root: %w", err)
	}

	cutoff := now.Add(-time.Duration(e.days) * 24 * time.Hour)

	for _, ent := range entries {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		if !ent.IsDir {
			continue
		}

		rep.Examined++
		path := filepath.Join(backupRoot, ent.Name)

		ts, known := e.ageOf(ent)
		if !known {
			e.log.Warning("keeping backup with unknown age", "dir", ent.Name)
			rep.Kept++
			continue
		}

		if !ts.Before(cutoff) {
			rep.Kept++
			continue
		}

		if dryRun {
			e.log.Info("would remove backup", "dir", ent.Name, "age", now.Sub(ts).Round(time.Second))
			rep.Removed++
			continue
		}

		if err := e.fs.RemoveAll(path); err != nil {
			e.log.Error("removing backup failed", "dir", ent.Name, "error", err)
			rep.Kept++
			continue
		}

		e.log.Info("removed backup", "dir", ent.Name)
		rep.Removed++
	}

	return rep, nil
}

// ageOf determines when a backup run directory was created: strict name
// parse first, modification time second. Reports false when neither works.
func (e *Engine) ageOf(ent fs.DirEntry) (time.Time, bool) {
	if t, err := run.ParseTimestamp(ent.Name); err == nil {
		return t, true
	}
	if !ent.MTime.IsZero() {
		return ent.MTime, true
	}
	return time.Time{}, false
}

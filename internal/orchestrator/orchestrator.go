// Package orchestrator runs the configured generation units in order under
// one shared run identity, fail-fast, then triggers the retention sweep as
// a best-effort post-step.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raoulx24/dotfile-archiver/internal/backup"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
	"github.com/raoulx24/dotfile-archiver/internal/manifest"
	"github.com/raoulx24/dotfile-archiver/internal/paths"
	"github.com/raoulx24/dotfile-archiver/internal/registry"
	"github.com/raoulx24/dotfile-archiver/internal/retention"
	"github.com/raoulx24/dotfile-archiver/internal/run"
)

// State of one orchestrated run.
type State int

const (
	NotStarted State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports the outcome of one run.
type Result struct {
	Timestamp   run.Timestamp
	State       State
	UnitsRun    int
	FailedUnit  string // empty unless State is Failed
	FailedIndex int    // -1 unless State is Failed
	Err         error
	Retention   *retention.Report // nil when the sweep did not run
}

// Options selects the run mode.
type Options struct {
	BackupEnabled bool
	Timestamp     run.Timestamp // empty means generate one
	Now           func() time.Time
}

type Orchestrator struct {
	reg      *registry.Registry
	capturer *backup.Capturer
	ret      *retention.Engine
	paths    paths.Paths
	log      logging.Logger
	version  string
	invoke   unitInvoker
}

// unitInvoker runs one unit's executable to completion. Swapped in tests.
type unitInvoker func(u registry.Unit, backupEnabled bool, ts run.Timestamp, logDir string) error

func New(reg *registry.Registry, capturer *backup.Capturer, ret *retention.Engine, p paths.Paths, log logging.Logger, version string) *Orchestrator {
	return &Orchestrator{
		reg:      reg,
		capturer: capturer,
		ret:      ret,
		paths:    p,
		log:      log,
		version:  version,
		invoke:   invokeUnit,
	}
}

// Run executes the named units in the given order. Every unit is validated
// up front; an invalid unit fails the run before anything executes. Units
// run strictly sequentially and the first non-zero exit stops the run.
// Retention is invoked once, only after all units succeed, and its failure
// never changes the run's outcome.
func (o *Orchestrator) Run(ctx context.Context, names []string, opts Options) Result {
	res := Result{State: NotStarted, FailedIndex: -1}

	if len(names) == 0 {
		res.State = Failed
		res.Err = fmt.Errorf("no generation units to run")
		return res
	}

	if err := o.reg.Validate(names); err != nil {
		res.State = Failed
		res.Err = fmt.Errorf("unit validation: %w", err)
		return res
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ts := opts.Timestamp
	if ts == "" {
		ts = run.NewTimestamp(now())
	}
	res.Timestamp = ts

	rc := run.NewContext(ts, opts.BackupEnabled, o.paths)

	if err := o.paths.EnsureDirectories(o.capturer.FS()); err != nil {
		res.State = Failed
		res.Err = err
		return res
	}

	o.log.Info("starting run", "timestamp", ts.String(), "units", len(names), "backups", opts.BackupEnabled)
	res.State = Running

	m := manifest.New(ts.String(), o.version)
	captured := 0

	for i, name := range names {
		unit, err := o.reg.Lookup(name)
		if err != nil {
			// Unreachable after Validate, kept for safety.
			return o.fail(res, i, name, err)
		}

		o.log.Step("running unit", "unit", unit.DisplayName, "index", i+1, "total", len(names))

		artifactPath := filepath.Join(o.paths.LatestDir, unit.Artifact)
		did, err := o.capturer.Capture(ctx, artifactPath, unit.Artifact, rc)
		if err != nil {
			return o.fail(res, i, name, fmt.Errorf("backup capture: %w", err))
		}
		if did {
			captured++
			if err := m.AddFile(unit.Artifact, filepath.Join(rc.BackupDir(), unit.Artifact)); err != nil {
				o.log.Warning("manifest checksum failed", "artifact", unit.Artifact, "error", err)
			}
		}

		if err := o.invoke(unit, opts.BackupEnabled, ts, o.paths.LogDir); err != nil {
			return o.fail(res, i, name, err)
		}

		res.UnitsRun++
		o.log.Success("unit completed", "unit", unit.DisplayName)
	}

	if captured > 0 {
		if err := m.Write(rc.BackupDir()); err != nil {
			o.log.Warning("writing run manifest failed", "error", err)
		}
	}

	res.State = Succeeded
	o.log.Success("run completed", "timestamp", ts.String(), "units", res.UnitsRun)

	// Best-effort cleanup of aged backups. A sweep failure is a warning,
	// never a run failure.
	rep, err := o.ret.Sweep(ctx, o.paths.BackupRoot, now(), false)
	if err != nil {
		o.log.Warning("retention sweep failed", "error", err)
	} else {
		res.Retention = &rep
		o.log.Info("retention sweep", "examined", rep.Examined, "removed", rep.Removed, "kept", rep.Kept)
	}

	return res
}

func (o *Orchestrator) fail(res Result, index int, name string, err error) Result {
	res.State = Failed
	res.FailedIndex = index
	res.FailedUnit = name
	res.Err = err
	o.log.Error("run failed", "unit", name, "index", index, "error", err)
	return res
}

// Package daemon runs orchestrated snapshots on a cron schedule, with
// optional hot-reload of the config file.
package daemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/dotfile-archiver/internal/config"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
)

// RunFunc executes one orchestrated run with the given config. The daemon
// never interrupts an in-flight run; ctx only stops the scheduling loop.
type RunFunc func(ctx context.Context, cfg *config.Config) error

type Daemon struct {
	configPath string
	log        logging.Logger
	runFn      RunFunc
	mb         *Mailbox[struct{}]

	mu    sync.RWMutex
	cfg   *config.Config
	cr    *cron.Cron
	entry cron.EntryID
}

func New(configPath string, cfg *config.Config, log logging.Logger, runFn RunFunc) *Daemon {
	return &Daemon{
		configPath: configPath,
		log:        log,
		runFn:      runFn,
		cfg:        cfg,
		mb:         NewMailbox[struct{}](),
	}
}

// Start schedules runs per the config's cron expression and blocks until
// ctx is done. Runs execute one at a time; a tick during a run coalesces
// into at most one pending run.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.RLock()
	sched := d.cfg.Schedule
	reload := d.cfg.ConfigReload
	d.mu.RUnlock()

	if !sched.Enabled {
		return fmt.Errorf("daemon mode requires schedule.enabled")
	}

	d.cr = cron.New()
	id, err := d.cr.AddFunc(sched.Cron, func() { d.mb.Put(struct{}{}) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", sched.Cron, err)
	}
	d.entry = id
	d.cr.Start()
	defer d.cr.Stop()

	d.log.Info("daemon started", "cron", sched.Cron)

	if reload.Enabled {
		go d.watchConfig(ctx, reload.DebounceWindow)
	}

	for {
		_, ok := d.mb.Take(ctx)
		if !ok {
			d.log.Info("daemon stopping")
			return nil
		}

		d.mu.RLock()
		cfg := d.cfg
		d.mu.RUnlock()

		if err := d.runFn(ctx, cfg); err != nil {
			d.log.Error("scheduled run failed", "error", err)
		}
	}
}

// apply swaps in a reloaded config and reschedules the cron entry if the
// expression changed.
func (d *Daemon) apply(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.cfg.Schedule.Cron
	d.cfg = cfg

	if cfg.Schedule.Cron == old || !cfg.Schedule.Enabled {
		return
	}

	id, err := d.cr.AddFunc(cfg.Schedule.Cron, func() { d.mb.Put(struct{}{}) })
	if err != nil {
		d.log.Error("reloaded cron expression invalid, keeping previous", "cron", cfg.Schedule.Cron, "error", err)
		return
	}
	d.cr.Remove(d.entry)
	d.entry = id
	d.log.Info("schedule updated", "cron", cfg.Schedule.Cron)
}

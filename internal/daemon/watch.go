package daemon

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raoulx24/dotfile-archiver/internal/config"
)

// watchConfig reloads the config file when it changes on disk. Events are
// debounced: editors often produce a burst of writes and renames for one
// save. A reload that fails validation keeps the previous config.
func (d *Daemon) watchConfig(ctx context.Context, debounce time.Duration) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.log.Warning("config reload unavailable", "error", err)
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: renames replace the inode.
	dir := filepath.Dir(d.configPath)
	if err := watcher.Add(dir); err != nil {
		d.log.Warning("cannot watch config directory", "dir", dir, "error", err)
		return
	}

	base := filepath.Base(d.configPath)

	var timer *time.Timer
	resetCh := make(chan struct{}, 1)

	go func() {
		for range resetCh {
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, d.reload)
		}
	}()
	defer close(resetCh)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			select {
			case resetCh <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.log.Warning("config watch error", "error", err)
		}
	}
}

func (d *Daemon) reload() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		d.log.Error("config reload failed, keeping previous", "error", err)
		return
	}
	d.apply(cfg)
	d.log.Info("config reloaded", "path", d.configPath)
}

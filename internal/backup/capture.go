// Package backup preserves the previous version of an artifact before a
// generation unit overwrites it.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raoulx24/dotfile-archiver/internal/fs"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
	"github.com/raoulx24/dotfile-archiver/internal/run"
)

type Capturer struct {
	fs  fs.FS
	log logging.Logger
}

func NewCapturer(filesystem fs.FS, log logging.Logger) *Capturer {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Capturer{fs: filesystem, log: log}
}

// FS exposes the underlying filesystem, shared with directory creation.
func (c *Capturer) FS() fs.FS { return c.fs }

// Capture copies the artifact at srcPath into this run's backup directory
// under artifactName, reporting whether a copy was made. No-op when
// backups are disabled for the run or when the artifact does not exist
// yet. A copy failure must abort the unit: an overwrite is about to
// follow.
//
// Captures of different artifacts within one run share the run directory,
// which is created on the first capture. Capturing the same name twice in
// one run overwrites the earlier copy.
func (c *Capturer) Capture(ctx context.Context, srcPath, artifactName string, rc run.Context) (bool, error) {
	if !rc.BackupEnabled {
		c.log.Debug("backup disabled, skipping capture", "artifact", artifactName)
		return false, nil
	}

	if _, err := c.fs.Stat(srcPath); err != nil {
		if os.IsNotExist(err) {
			c.log.Debug("nothing to back up", "artifact", artifactName)
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", srcPath, err)
	}

	dir := rc.BackupDir()
	if err := c.fs.MkdirAll(dir); err != nil {
		return false, fmt.Errorf("creating backup directory %s: %w", dir, err)
	}

	dst := filepath.Join(dir, artifactName)
	if err := c.fs.CopyFile(ctx, srcPath, dst); err != nil {
		return false, fmt.Errorf("backing up %s: %w", artifactName, err)
	}

	c.log.Info("captured backup", "artifact", artifactName, "run", rc.Timestamp.String())
	return true, nil
}

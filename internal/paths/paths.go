// Package paths derives every directory the archiver writes to from the
// configuration and the current machine's identifier. Resolution is pure;
// directory creation is a separate, explicit step.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raoulx24/dotfile-archiver/internal/config"
	"github.com/raoulx24/dotfile-archiver/internal/fs"
)

// Paths is the fixed set of resolved absolute directories.
type Paths struct {
	SnapshotRoot string
	MachineRoot  string // equal to SnapshotRoot when machine namespacing is off
	LatestDir    string
	BackupRoot   string
	LogDir       string
}

const (
	latestSubdir = "latest"
	backupSubdir = "backups"
)

// MachineID returns the identifier used to namespace this machine's
// snapshots. Hostname, lowercased for stable directory names.
func MachineID() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("resolving machine identifier: %w", err)
	}
	return strings.ToLower(host), nil
}

// Resolve computes all directories. Relative configured paths are resolved
// against baseDir (the directory holding the config file); absolute paths
// and ~-prefixed paths are used as given.
func Resolve(cfg *config.Config, machineID, baseDir string) (Paths, error) {
	snapshotRoot, err := resolveOne(cfg.TargetDirectory, baseDir)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving target directory: %w", err)
	}

	logDir, err := resolveOne(cfg.LogDirectory, baseDir)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving log directory: %w", err)
	}

	machineRoot := snapshotRoot
	if cfg.MachineDirectories() {
		machineRoot = filepath.Join(snapshotRoot, machineID)
	}

	return Paths{
		SnapshotRoot: snapshotRoot,
		MachineRoot:  machineRoot,
		LatestDir:    filepath.Join(machineRoot, latestSubdir),
		BackupRoot:   filepath.Join(machineRoot, backupSubdir),
		LogDir:       logDir,
	}, nil
}

func resolveOne(p, baseDir string) (string, error) {
	expanded, err := expandHome(p)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(baseDir, expanded), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding ~: %w", err)
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}

// EnsureDirectories creates every resolved directory. Idempotent: existing
// directories are not an error.
func (p Paths) EnsureDirectories(filesystem fs.FS) error {
	for _, dir := range []string{p.SnapshotRoot, p.MachineRoot, p.LatestDir, p.BackupRoot, p.LogDir} {
		if err := filesystem.MkdirAll(dir); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

package run

import (
	"path/filepath"

	"github.com/raoulx24/dotfile-archiver/internal/paths"
)

// Context pairs the shared run timestamp with the backup gate and the
// resolved directories. Read-only once created.
type Context struct {
	Timestamp     Timestamp
	BackupEnabled bool
	Paths         paths.Paths
}

// NewContext builds the context for one run. An empty ts means the caller
// has no externally supplied timestamp and one must be generated first.
func NewContext(ts Timestamp, backupEnabled bool, p paths.Paths) Context {
	return Context{
		Timestamp:     ts,
		BackupEnabled: backupEnabled,
		Paths:         p,
	}
}

// BackupDir returns this run's backup directory, {backupRoot}/{timestamp}.
// The directory is created lazily by the first capture, never here.
func (c Context) BackupDir() string {
	return filepath.Join(c.Paths.BackupRoot, string(c.Timestamp))
}

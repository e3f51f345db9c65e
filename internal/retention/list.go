package retention

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/raoulx24/dotfile-archiver/internal/manifest"
)

// Snapshot describes one backup run directory for listing.
type Snapshot struct {
	Name      string
	Path      string
	CreatedAt time.Time
	KnownAge  bool
	SizeBytes int64
	Artifacts int
}

// List returns all backup run directories under backupRoot, newest first.
// A missing backup root yields an empty list.
func (e *Engine) List(backupRoot string) ([]Snapshot, error) {
	entries, err := e.fs.ReadDir(backupRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup root: %w", err)
	}

	var snaps []Snapshot
	for _, ent := range entries {
		if !ent.IsDir {
			continue
		}

		path := filepath.Join(backupRoot, ent.Name)
		ts, known := e.ageOf(ent)

		snap := Snapshot{
			Name:      ent.Name,
			Path:      path,
			CreatedAt: ts,
			KnownAge:  known,
			SizeBytes: directorySize(path),
		}

		if m, err := manifest.Load(path); err == nil {
			snap.Artifacts = m.ArtifactCount()
		}

		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})

	return snaps, nil
}

// RemoveByName deletes one named backup run directory. Returns false when
// no such directory exists.
func (e *Engine) RemoveByName(backupRoot, name string) (bool, error) {
	path := filepath.Join(backupRoot, name)

	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", name, err)
	}
	if !st.IsDir() {
		return false, fmt.Errorf("%s is not a directory", name)
	}

	if err := e.fs.RemoveAll(path); err != nil {
		return false, fmt.Errorf("removing %s: %w", name, err)
	}
	return true, nil
}

func directorySize(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// FormatSize renders a byte count for humans.
func FormatSize(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	idx := 0

	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}

	if idx == 0 {
		return fmt.Sprintf("%d %s", bytes, units[idx])
	}
	return fmt.Sprintf("%.1f %s", size, units[idx])
}

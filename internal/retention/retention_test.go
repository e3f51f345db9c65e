package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/dotfile-archiver/internal/fs"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
	"github.com/raoulx24/dotfile-archiver/internal/run"
)

// stubFS lets tests exercise paths the real filesystem cannot produce,
// such as directories with no determinable age.
type stubFS struct {
	entries   []fs.DirEntry
	readErr   error
	removeErr map[string]error
	removed   []string
}

func (s *stubFS) Stat(path string) (fs.FileInfo, error) { return fs.FileInfo{}, os.ErrNotExist }
func (s *stubFS) MkdirAll(path string) error            { return nil }
func (s *stubFS) CopyFile(ctx context.Context, src, dst string) error {
	return nil
}

func (s *stubFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.entries, nil
}

func (s *stubFS) RemoveAll(path string) error {
	name := filepath.Base(path)
	if err := s.removeErr[name]; err != nil {
		return err
	}
	s.removed = append(s.removed, name)
	return nil
}

func newEngine(t *testing.T, days int, filesystem fs.FS) *Engine {
	t.Helper()
	e, err := New(days, filesystem, logging.Nop{})
	require.NoError(t, err)
	return e
}

func mkBackupDir(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "artifact.txt"), []byte("x"), 0o644))
	return dir
}

func TestNewRejectsNegativeWindow(t *testing.T) {
	_, err := New(-1, nil, logging.Nop{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeWindow)
}

func TestSweepMissingRootIsNotAnError(t *testing.T) {
	e := newEngine(t, 30, fs.New())

	rep, err := e.Sweep(context.Background(), filepath.Join(t.TempDir(), "absent"), time.Now(), false)
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
}

func TestSweepCutoffBoundary(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.Local)
	cutoff := now.Add(-24 * time.Hour)

	atCutoff := run.NewTimestamp(cutoff).String()
	justPast := run.NewTimestamp(cutoff.Add(-time.Second)).String()

	atDir := mkBackupDir(t, root, atCutoff)
	pastDir := mkBackupDir(t, root, justPast)

	e := newEngine(t, 1, fs.New())
	rep, err := e.Sweep(context.Background(), root, now, false)
	require.NoError(t, err)

	// Strict less-than: exactly at the cutoff survives, one second older
	// does not.
	assert.Equal(t, Report{Examined: 2, Removed: 1, Kept: 1}, rep)
	assert.DirExists(t, atDir)
	assert.NoDirExists(t, pastDir)
}

func TestSweepMalformedNameFallsBackToModTime(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	dir := mkBackupDir(t, root, "migrated-backup")
	old := now.Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(dir, old, old))

	e := newEngine(t, 30, fs.New())
	rep, err := e.Sweep(context.Background(), root, now, false)
	require.NoError(t, err)

	assert.Equal(t, Report{Examined: 1, Removed: 1, Kept: 0}, rep)
	assert.NoDirExists(t, dir)
}

func TestSweepUnknownAgeIsNeverDeleted(t *testing.T) {
	stub := &stubFS{
		entries: []fs.DirEntry{
			{Name: "not-a-timestamp", IsDir: true}, // zero MTime: no usable age
		},
	}

	e := newEngine(t, 0, stub)
	rep, err := e.Sweep(context.Background(), "/backups", time.Now(), false)
	require.NoError(t, err)

	assert.Equal(t, Report{Examined: 1, Removed: 0, Kept: 1}, rep)
	assert.Empty(t, stub.removed)
}

func TestSweepScenarioMixedAges(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.Local)

	oldA := mkBackupDir(t, root, "20240401_120000")
	oldB := mkBackupDir(t, root, "20240601_120000")
	recentA := mkBackupDir(t, root, run.NewTimestamp(now.Add(-time.Hour)).String())
	recentB := mkBackupDir(t, root, run.NewTimestamp(now.Add(-time.Hour-time.Minute)).String())

	e := newEngine(t, 30, fs.New())
	rep, err := e.Sweep(context.Background(), root, now, false)
	require.NoError(t, err)

	assert.Equal(t, Report{Examined: 4, Removed: 2, Kept: 2}, rep)
	assert.NoDirExists(t, oldA)
	assert.NoDirExists(t, oldB)
	assert.DirExists(t, recentA)
	assert.DirExists(t, recentB)
}

func TestSweepZeroDayWindow(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	past := mkBackupDir(t, root, run.NewTimestamp(now.Add(-time.Minute)).String())

	e := newEngine(t, 0, fs.New())
	rep, err := e.Sweep(context.Background(), root, now, false)
	require.NoError(t, err)

	assert.Equal(t, Report{Examined: 1, Removed: 1, Kept: 0}, rep)
	assert.NoDirExists(t, past)
}

func TestSweepIgnoresPlainFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	e := newEngine(t, 0, fs.New())
	rep, err := e.Sweep(context.Background(), root, time.Now(), false)
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
}

func TestSweepContinuesPastFailedDeletion(t *testing.T) {
	old := time.Now().Add(-60 * 24 * time.Hour)
	nameA := run.NewTimestamp(old).String()
	nameB := run.NewTimestamp(old.Add(time.Hour)).String()

	stub := &stubFS{
		entries: []fs.DirEntry{
			{Name: nameA, IsDir: true, MTime: old},
			{Name: nameB, IsDir: true, MTime: old},
		},
		removeErr: map[string]error{nameA: errors.New("permission denied")},
	}

	e := newEngine(t, 30, stub)
	rep, err := e.Sweep(context.Background(), "/backups", time.Now(), false)
	require.NoError(t, err)

	// The failed deletion counts as kept and does not stop the sweep.
	assert.Equal(t, Report{Examined: 2, Removed: 1, Kept: 1}, rep)
	assert.Equal(t, []string{nameB}, stub.removed)
}

func TestSweepDryRunDeletesNothing(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	old := mkBackupDir(t, root, run.NewTimestamp(now.Add(-60*24*time.Hour)).String())

	e := newEngine(t, 30, fs.New())
	rep, err := e.Sweep(context.Background(), root, now, true)
	require.NoError(t, err)

	assert.Equal(t, Report{Examined: 1, Removed: 1, Kept: 0}, rep)
	assert.DirExists(t, old)
}

func TestSweepUnreadableRootPropagates(t *testing.T) {
	stub := &stubFS{readErr: errors.New("backup root unreadable")}

	e := newEngine(t, 30, stub)
	_, err := e.Sweep(context.Background(), "/backups", time.Now(), false)
	assert.Error(t, err)
}

package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	f := New()
	require.NoError(t, f.CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	// No temp residue.
	_, err = os.Stat(dst + ".partial")
	assert.True(t, os.IsNotExist(err))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	f := New()

	err := f.CopyFile(context.Background(), filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	assert.Error(t, err)
}

func TestSourceChanged(t *testing.T) {
	base := FileInfo{Size: 10, MTime: time.Unix(1000, 0), Inode: 42}

	cases := []struct {
		name string
		now  FileInfo
		want bool
	}{
		{"unchanged", FileInfo{Size: 10, MTime: time.Unix(1000, 0), Inode: 42}, false},
		{"size changed", FileInfo{Size: 11, MTime: time.Unix(1000, 0), Inode: 42}, true},
		{"mtime advanced", FileInfo{Size: 10, MTime: time.Unix(1001, 0), Inode: 42}, true},
		{"inode changed", FileInfo{Size: 10, MTime: time.Unix(1000, 0), Inode: 43}, true},
		{"inode unknown", FileInfo{Size: 10, MTime: time.Unix(1000, 0), Inode: 0}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sourceChanged(base, tc.now))
		})
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))

	f := New()
	entries, err := f.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]DirEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.True(t, byName["sub"].IsDir)
	assert.False(t, byName["file.txt"].IsDir)
	assert.False(t, byName["file.txt"].MTime.IsZero())
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	f := New()
	info, err := f.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.MTime.IsZero())
}

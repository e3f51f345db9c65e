package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type OSFS struct{}

// the concrete implementation of FS backed by the local OS filesystem.
// Platform-specific details (such as inode extraction) are handled in build-tagged files.

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		MTime: st.ModTime(),
		Inode: inodeOf(st),
	}, nil
}

// ReadDir lists the immediate children of path with their modification
// times. The retention sweep needs mtimes for directories whose names do
// not parse as run timestamps.
func (o *OSFS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	out := make([]DirEntry, 0, len(entries))
	for _, ent := range entries {
		de := DirEntry{Name: ent.Name(), IsDir: ent.IsDir()}
		if info, err := ent.Info(); err == nil {
			de.MTime = info.ModTime()
		}
		out = append(out, de)
	}
	return out, nil
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// CopyFile copies src to dst through a temporary sibling so that dst is
// never observable in a half-written state. The copy retries on transient
// errors and aborts if src changes underneath it.
func (o *OSFS) CopyFile(ctx context.Context, src, dst string) error {
	if err := copyWithRetry(ctx, o, src, dst); err != nil {
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	return nil
}

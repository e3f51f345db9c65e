// Package fs defines the filesystem abstraction used by the archiver.
// It provides the FS interface and the FileInfo/DirEntry types shared by
// backup capture and the retention sweep.
package fs

import (
	"context"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	Inode uint64
}

// DirEntry describes one immediate child of a scanned directory.
type DirEntry struct {
	Name  string
	IsDir bool
	MTime time.Time
}

type FS interface {
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]DirEntry, error)
	CopyFile(ctx context.Context, src, dst string) error
	MkdirAll(path string) error
	RemoveAll(path string) error
}

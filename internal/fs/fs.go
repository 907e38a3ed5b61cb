package fs

import (
	"io"
	"os"
)

// File is an open file addressed only by explicit offsets. It has no cursor
// of its own; callers track positions.
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
	Truncate(size int64) error
	Stat() (os.FileInfo, error)
}

var _ File = (*os.File)(nil)

// FileSystem opens, stats and removes files.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
}

// LocalFS is the operating system's file system.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm) //nolint:gosec // G304: caller supplies the path
	if err != nil {
		// Avoid returning a typed nil *os.File inside the interface.
		return nil, err
	}
	return f, nil
}

func (LocalFS) Remove(name string) error              { return os.Remove(name) }
func (LocalFS) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// Default is the file system used when none is given.
var Default FileSystem = LocalFS{}

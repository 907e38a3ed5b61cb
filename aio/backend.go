package aio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/hupe1980/aiofile/internal/fs"
	"github.com/hupe1980/aiofile/loop"
)

// Backend implements Submitter and Opener over an fs.FileSystem. Descriptors
// index a table of open fs.File values.
type Backend struct {
	*dispatcher

	fsys fs.FileSystem

	mu    sync.Mutex
	files map[Descriptor]fs.File
	next  Descriptor
}

var (
	_ Submitter = (*Backend)(nil)
	_ Opener    = (*Backend)(nil)
)

// NewBackend creates a Backend delivering completions on l.
// If fsys is nil, fs.Default is used.
func NewBackend(l *loop.Loop, fsys fs.FileSystem, optFns ...func(o *Options)) *Backend {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if fsys == nil {
		fsys = fs.Default
	}
	return &Backend{
		dispatcher: newDispatcher(l, opts),
		fsys:       fsys,
		files:      make(map[Descriptor]fs.File),
		next:       3,
	}
}

// Open opens path and returns its descriptor and current size.
func (b *Backend) Open(path string, flag int, perm os.FileMode) (Descriptor, int64, error) {
	f, err := b.fsys.OpenFile(path, flag, perm)
	if err != nil {
		return 0, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return 0, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	b.mu.Lock()
	fd := b.next
	b.next++
	b.files[fd] = f
	b.mu.Unlock()

	return fd, info.Size(), nil
}

// OpenCount returns the number of open descriptors.
func (b *Backend) OpenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.files)
}

func (b *Backend) lookup(fd Descriptor) (fs.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.files[fd]
	if !ok {
		return nil, fmt.Errorf("descriptor %d: %w", fd, ErrBadDescriptor)
	}
	return f, nil
}

func (b *Backend) SubmitRead(fd Descriptor, offset int64, length int, cb func([]byte, error)) {
	f, err := b.lookup(fd)
	if err != nil {
		b.fail(func() { cb(nil, err) })
		return
	}
	b.dispatch(length, func() func() {
		buf := make([]byte, length)
		n, err := f.ReadAt(buf, offset)
		if errors.Is(err, io.EOF) {
			err = nil
		}
		err = classify(err)
		return func() { cb(buf[:n], err) }
	})
}

func (b *Backend) SubmitWrite(fd Descriptor, p []byte, offset int64, cb func(int, error)) {
	f, err := b.lookup(fd)
	if err != nil {
		b.fail(func() { cb(0, err) })
		return
	}
	b.dispatch(len(p), func() func() {
		n, err := f.WriteAt(p, offset)
		err = classify(err)
		return func() { cb(n, err) }
	})
}

func (b *Backend) SubmitTruncate(fd Descriptor, size int64, cb func(error)) {
	f, err := b.lookup(fd)
	if err != nil {
		b.fail(func() { cb(err) })
		return
	}
	b.dispatch(0, func() func() {
		err := classify(f.Truncate(size))
		return func() { cb(err) }
	})
}

func (b *Backend) SubmitClose(fd Descriptor, cb func(error)) {
	b.mu.Lock()
	f, ok := b.files[fd]
	delete(b.files, fd)
	b.mu.Unlock()

	if !ok {
		err := fmt.Errorf("descriptor %d: %w", fd, ErrBadDescriptor)
		b.fail(func() { cb(err) })
		return
	}
	b.dispatch(0, func() func() {
		err := classify(f.Close())
		return func() { cb(err) }
	})
}

// classify marks errors caused by a closed or wrong-access descriptor.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EBADF) {
		return fmt.Errorf("%w: %w", ErrBadDescriptor, err)
	}
	return err
}

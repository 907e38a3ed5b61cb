//go:build unix

package aio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/hupe1980/aiofile/loop"
)

// Native implements Submitter and Opener on raw unix file descriptors.
type Native struct {
	*dispatcher
}

var (
	_ Submitter = (*Native)(nil)
	_ Opener    = (*Native)(nil)
)

// NewNative creates a Native backend delivering completions on l.
func NewNative(l *loop.Loop, optFns ...func(o *Options)) *Native {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Native{dispatcher: newDispatcher(l, opts)}
}

// Open opens path with open(2) and probes its size with fstat(2).
func (n *Native) Open(path string, flag int, perm os.FileMode) (Descriptor, int64, error) {
	fd, err := openRetry(path, flag|unix.O_CLOEXEC, uint32(perm.Perm()))
	if err != nil {
		return 0, 0, &os.PathError{Op: "open", Path: path, Err: err}
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return 0, 0, &os.PathError{Op: "fstat", Path: path, Err: err}
	}
	return Descriptor(fd), st.Size, nil
}

func (n *Native) SubmitRead(fd Descriptor, offset int64, length int, cb func([]byte, error)) {
	n.dispatch(length, func() func() {
		buf := make([]byte, length)
		var (
			r   int
			err error
		)
		for {
			r, err = unix.Pread(int(fd), buf, offset)
			if !errors.Is(err, unix.EINTR) {
				break
			}
		}
		if r < 0 {
			r = 0
		}
		err = classifyErrno("pread", err)
		return func() { cb(buf[:r], err) }
	})
}

func (n *Native) SubmitWrite(fd Descriptor, p []byte, offset int64, cb func(int, error)) {
	n.dispatch(len(p), func() func() {
		var (
			written int
			err     error
		)
		for written < len(p) {
			var w int
			w, err = unix.Pwrite(int(fd), p[written:], offset+int64(written))
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if err != nil {
				break
			}
			if w == 0 {
				err = unix.EIO
				break
			}
			written += w
		}
		err = classifyErrno("pwrite", err)
		return func() { cb(written, err) }
	})
}

func (n *Native) SubmitTruncate(fd Descriptor, size int64, cb func(error)) {
	n.dispatch(0, func() func() {
		err := classifyErrno("ftruncate", unix.Ftruncate(int(fd), size))
		return func() { cb(err) }
	})
}

func (n *Native) SubmitClose(fd Descriptor, cb func(error)) {
	n.dispatch(0, func() func() {
		// close(2) must not be retried on EINTR: the descriptor is gone either way.
		err := classifyErrno("close", unix.Close(int(fd)))
		return func() { cb(err) }
	})
}

func openRetry(path string, flag int, perm uint32) (int, error) {
	for {
		fd, err := unix.Open(path, flag, perm)
		if !errors.Is(err, unix.EINTR) {
			return fd, err
		}
	}
}

func classifyErrno(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EBADF) {
		return fmt.Errorf("%w: %s: %w", ErrBadDescriptor, op, err)
	}
	return os.NewSyscallError(op, err)
}

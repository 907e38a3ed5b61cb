package aiofile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/aiofile/aio"
	"github.com/hupe1980/aiofile/loop"
)

var (
	_ io.Seeker = (*File)(nil)
	_ io.Closer = (*File)(nil)
)

// File is a sequential handle over one open native descriptor.
//
// Writes and truncates are applied strictly in the order they were issued:
// each queued operation waits for its predecessor before it reaches the
// backend, so at most one mutating request is ever in flight. At most one
// read may be outstanding at a time; reads are not ordered against queued
// writes and read from the position current at issue time.
//
// Every outstanding operation pins the loop until its completion arrives.
//
// The handle owns the descriptor and releases it exactly once, on Close or
// End.
type File struct {
	loop   *loop.Loop
	sub    aio.Submitter
	fd     aio.Descriptor
	path   string
	mode   string
	opts   options
	logger *Logger

	mu         sync.Mutex
	position   int64
	size       int64
	queue      []*Completion // outstanding writes/truncates, oldest first
	readActive bool
	writable   bool
	closing    *Completion // non-nil once close is initiated
	closed     bool        // native close completed
	onClose    []func()
}

type readResult struct {
	data []byte
	err  error
}

type readOp struct {
	settled bool // guarded by File.mu
	result  chan readResult
}

// New wraps an already opened descriptor. size is the file length probed at
// open time; append modes ("a", "a+") start positioned at size.
func New(l *loop.Loop, sub aio.Submitter, fd aio.Descriptor, path, mode string, size int64, optFns ...Option) *File {
	return newFile(l, sub, fd, path, mode, size, applyOptions(optFns))
}

func newFile(l *loop.Loop, sub aio.Submitter, fd aio.Descriptor, path, mode string, size int64, opts options) *File {
	size = max(size, 0)

	f := &File{
		loop:     l,
		sub:      sub,
		fd:       fd,
		path:     path,
		mode:     mode,
		opts:     opts,
		logger:   opts.logger.WithPath(path),
		size:     size,
		writable: modeWritable(mode),
	}
	if modeAppend(mode) {
		f.position = size
	}
	return f
}

// Read reads up to length bytes at the current position and advances the
// position by the number of bytes read. A non-positive length reads
// DefaultReadLength bytes (or the WithReadLength setting). At end of file
// Read returns io.EOF.
//
// If ctx is done before the read completes, Read returns the cancellation
// cause immediately and a new read may be issued at once. The abandoned
// native read still runs; its result is discarded and does not move the
// position.
func (f *File) Read(ctx context.Context, length int) ([]byte, error) {
	if length <= 0 {
		length = f.opts.readLength
	}
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	f.mu.Lock()
	if f.readActive {
		f.mu.Unlock()
		return nil, ErrConcurrentOperation
	}
	if f.closing != nil {
		f.mu.Unlock()
		return nil, f.closedError("read")
	}
	f.readActive = true
	offset := f.position
	f.mu.Unlock()

	pin := f.loop.Pin()
	start := time.Now()
	op := &readOp{result: make(chan readResult, 1)}

	f.sub.SubmitRead(f.fd, offset, length, func(data []byte, err error) {
		f.mu.Lock()
		if op.settled {
			// Cancelled: the caller is gone and the handle has moved on.
			f.mu.Unlock()
			return
		}
		op.settled = true
		f.readActive = false
		if err == nil {
			f.position += int64(len(data))
		}
		f.mu.Unlock()

		pin.Release()
		op.result <- readResult{data: data, err: err}
	})

	select {
	case res := <-op.result:
		return f.finishRead(ctx, offset, start, res)
	case <-ctx.Done():
	}

	f.mu.Lock()
	if op.settled {
		// The completion won the race.
		f.mu.Unlock()
		return f.finishRead(ctx, offset, start, <-op.result)
	}
	op.settled = true
	f.readActive = false
	f.mu.Unlock()
	pin.Release()

	err := context.Cause(ctx)
	f.logger.LogRead(ctx, offset, 0, err)
	f.opts.metricsCollector.RecordRead(0, time.Since(start), err)
	return nil, err
}

func (f *File) finishRead(ctx context.Context, offset int64, start time.Time, res readResult) ([]byte, error) {
	err := translateError("read", f.path, res.err)
	f.logger.LogRead(ctx, offset, len(res.data), err)
	f.opts.metricsCollector.RecordRead(len(res.data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if len(res.data) == 0 {
		return nil, io.EOF
	}
	return res.data, nil
}

// Write queues p to be written at the position current when the write
// reaches the backend, and returns its Completion. p is copied; the caller
// may reuse it immediately.
//
// Writes issued while earlier writes or truncates are outstanding wait for
// them, so byte ranges land in issue order. A write whose predecessor failed
// fails with a *PipelineError and is not submitted.
func (f *File) Write(p []byte) (*Completion, error) {
	data := bytes.Clone(p)
	return f.enqueue("write", func(c *Completion) { f.submitWrite(data, c) })
}

// End writes p, stops accepting writes and closes the handle. The handle is
// closed even if the write fails; the write's error is returned.
func (f *File) End(p []byte) error {
	c, err := f.Write(p)
	if err != nil {
		_ = f.Close()
		return err
	}

	f.mu.Lock()
	f.writable = false
	f.mu.Unlock()

	_, werr := c.Wait(context.Background())
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// Truncate queues a resize to size and waits for it to take effect.
// The position is not changed.
func (f *File) Truncate(size int64) error {
	if size < 0 {
		return &InvalidArgumentError{Name: "size", Value: size}
	}
	c, err := f.enqueue("truncate", func(c *Completion) { f.submitTruncate(size, c) })
	if err != nil {
		return err
	}
	_, err = c.Wait(context.Background())
	return err
}

// enqueue admits a mutating operation and appends it to the pipeline. submit
// runs right away when the pipeline is empty, otherwise once the current tail
// has completed.
func (f *File) enqueue(op string, submit func(*Completion)) (*Completion, error) {
	f.mu.Lock()
	if f.readActive && len(f.queue) == 0 {
		f.mu.Unlock()
		return nil, ErrConcurrentOperation
	}
	if !f.writable {
		f.mu.Unlock()
		return nil, f.closedError(op)
	}

	c := newCompletion()
	var prev *Completion
	if n := len(f.queue); n > 0 {
		prev = f.queue[n-1]
	}
	f.queue = append(f.queue, c)
	f.mu.Unlock()

	if prev == nil {
		submit(c)
		return c, nil
	}

	go func() {
		if err := prev.Err(); err != nil {
			f.settle(c, 0, &PipelineError{Op: op, cause: err})
			return
		}
		submit(c)
	}()
	return c, nil
}

func (f *File) submitWrite(data []byte, c *Completion) {
	if len(data) == 0 {
		f.settle(c, 0, nil)
		return
	}

	f.mu.Lock()
	if f.closing != nil {
		f.mu.Unlock()
		f.settle(c, 0, f.closedError("write"))
		return
	}
	offset := f.position
	f.mu.Unlock()

	pin := f.loop.Pin()
	start := time.Now()
	f.sub.SubmitWrite(f.fd, data, offset, func(n int, err error) {
		defer pin.Release()

		if err == nil {
			f.mu.Lock()
			f.position += int64(n)
			f.size = max(f.size, f.position)
			f.mu.Unlock()
		}

		err = translateError("write", f.path, err)
		f.logger.LogWrite(offset, n, err)
		f.opts.metricsCollector.RecordWrite(n, time.Since(start), err)
		f.settle(c, n, err)
	})
}

func (f *File) submitTruncate(size int64, c *Completion) {
	f.mu.Lock()
	if f.closing != nil {
		f.mu.Unlock()
		f.settle(c, 0, f.closedError("truncate"))
		return
	}
	f.mu.Unlock()

	pin := f.loop.Pin()
	start := time.Now()
	f.sub.SubmitTruncate(f.fd, size, func(err error) {
		defer pin.Release()

		if err == nil {
			f.mu.Lock()
			f.size = size
			f.mu.Unlock()
		}

		err = translateError("truncate", f.path, err)
		f.logger.LogTruncate(size, err)
		f.opts.metricsCollector.RecordTruncate(time.Since(start), err)
		f.settle(c, 0, err)
	})
}

// settle removes c from the pipeline and resolves it.
func (f *File) settle(c *Completion, n int, err error) {
	f.mu.Lock()
	if i := slices.Index(f.queue, c); i >= 0 {
		f.queue = slices.Delete(f.queue, i, i+1)
	}
	f.mu.Unlock()
	c.resolve(n, err)
}

// Seek sets the position for the next read or write. whence is one of
// io.SeekStart, io.SeekCurrent or io.SeekEnd (relative to the known size).
// The result is not clamped; out-of-range positions surface as errors from
// the next read or write.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readActive {
		return 0, ErrConcurrentOperation
	}

	switch whence {
	case io.SeekStart:
		f.position = offset
	case io.SeekCurrent:
		f.position += offset
	case io.SeekEnd:
		f.position = f.size + offset
	default:
		return 0, &InvalidArgumentError{Name: "whence", Value: whence}
	}
	return f.position, nil
}

// Tell returns the current position.
func (f *File) Tell() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

// Size returns the best known file size. It reflects completed writes and
// truncates issued through this handle, not changes made by others.
func (f *File) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// AtEnd reports whether no write or truncate is outstanding and the position
// is at or past the known size. It does not query the backend.
func (f *File) AtEnd() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0 && f.position >= f.size
}

// Path returns the path the handle was opened with.
func (f *File) Path() string { return f.path }

// Mode returns the mode the handle was opened with.
func (f *File) Mode() string { return f.mode }

// IsWritable reports whether writes and truncates are still admitted.
func (f *File) IsWritable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writable
}

// Close releases the descriptor. Only the first call submits the native
// close; every call waits for and returns the same outcome. Errors reported
// by the backend on close are logged and dropped, since the descriptor is
// unusable afterwards either way.
func (f *File) Close() error {
	f.mu.Lock()
	if c := f.closing; c != nil {
		f.mu.Unlock()
		_, err := c.Wait(context.Background())
		return err
	}
	c := newCompletion()
	f.closing = c
	f.writable = false
	f.mu.Unlock()

	pin := f.loop.Pin()
	start := time.Now()
	f.sub.SubmitClose(f.fd, func(err error) {
		defer pin.Release()

		f.logger.LogClose(err)
		f.opts.metricsCollector.RecordClose(time.Since(start))

		f.mu.Lock()
		f.closed = true
		callbacks := f.onClose
		f.onClose = nil
		f.mu.Unlock()

		for _, fn := range callbacks {
			fn()
		}
		c.resolve(0, nil)
	})

	_, err := c.Wait(context.Background())
	return err
}

// IsClosed reports whether Close (or End) has been initiated.
func (f *File) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closing != nil
}

// OnClose registers fn to run once the descriptor has been released.
// Callbacks registered before that run on the loop goroutine and must not
// block; if the handle is already closed, fn runs immediately on the caller.
func (f *File) OnClose(fn func()) {
	f.mu.Lock()
	if !f.closed {
		f.onClose = append(f.onClose, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn()
}

func (f *File) closedError(op string) error {
	return fmt.Errorf("%w: %s %s", ErrClosedHandle, op, f.path)
}

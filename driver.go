package aiofile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/hupe1980/aiofile/aio"
	"github.com/hupe1980/aiofile/internal/fs"
	"github.com/hupe1980/aiofile/loop"
)

// Driver opens files on one loop and submitter.
type Driver struct {
	loop   *loop.Loop
	sub    aio.Submitter
	opener aio.Opener
	opts   options
}

// NewDriver creates a Driver from an existing loop and submitter. The
// submitter must also implement aio.Opener.
func NewDriver(l *loop.Loop, sub aio.Submitter, optFns ...Option) (*Driver, error) {
	opener, ok := sub.(aio.Opener)
	if !ok {
		return nil, fmt.Errorf("submitter %T cannot open files", sub)
	}
	return &Driver{
		loop:   l,
		sub:    sub,
		opener: opener,
		opts:   applyOptions(optFns),
	}, nil
}

// NewLocalDriver creates a Driver over the local file system using the
// portable backend.
func NewLocalDriver(optFns ...Option) (*Driver, error) {
	return newFSDriver(fs.Default, optFns...)
}

func newFSDriver(fsys fs.FileSystem, optFns ...Option) (*Driver, error) {
	opts := applyOptions(optFns)
	l := newLoop(opts.logger)
	b := aio.NewBackend(l, fsys, func(o *aio.Options) {
		o.Resources = opts.resources
		o.Logger = opts.logger.Logger
	})
	return NewDriver(l, b, optFns...)
}

func newLoop(logger *Logger) *loop.Loop {
	return loop.New(func(o *loop.Options) {
		o.Logger = logger.Logger.With(slog.String("component", "loop"))
	})
}

// Open opens path with an fopen-style mode ("r", "r+", "w", "w+", "a", "a+",
// "x", "x+", "c", "c+") and returns a handle positioned at the start, or at
// the end for append modes.
func (d *Driver) Open(path, mode string) (*File, error) {
	flag, err := parseMode(mode)
	if err != nil {
		return nil, err
	}

	fd, size, err := d.opener.Open(path, flag, os.FileMode(d.opts.perm))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	d.opts.logger.Debug("file opened",
		"path", path,
		"mode", mode,
		"size", size,
	)
	return newFile(d.loop, d.sub, fd, path, mode, size, d.opts), nil
}

// Loop returns the driver's event loop.
func (d *Driver) Loop() *loop.Loop { return d.loop }

// Close waits for all outstanding operations to complete and shuts the loop
// down. Open handles are not closed.
func (d *Driver) Close(ctx context.Context) error {
	return d.loop.Shutdown(ctx)
}

// NewAferoDriver creates a Driver that opens files through afs, for example
// afero.NewBasePathFs to confine paths to a directory or afero.NewMemMapFs
// for tests.
func NewAferoDriver(afs afero.Fs, optFns ...Option) (*Driver, error) {
	return newFSDriver(fs.NewAferoFS(afs), optFns...)
}

// Package aio issues native file requests and delivers their completions on
// an event loop.
//
// Each Submit call performs exactly one native request and invokes its
// callback exactly once, on the loop goroutine. Submit calls never invoke the
// callback synchronously.
//
// Two backends are provided:
//
//   - [Backend]: a descriptor table over an fs.FileSystem (portable, used with
//     in-memory and fault-injecting file systems in tests)
//   - [Native]: raw descriptors through golang.org/x/sys/unix (unix only)
//
// Both run requests on goroutines admitted by a resource.Controller, so the
// number of concurrent native requests and their throughput can be bounded.
package aio

import (
	"errors"
	"os"
)

// ErrBadDescriptor reports a request against a descriptor that is not open
// (or not open for the requested access).
var ErrBadDescriptor = errors.New("bad file descriptor")

// Descriptor is an opaque native file handle.
type Descriptor int64

// Submitter issues native requests against open descriptors.
type Submitter interface {
	// SubmitRead reads up to length bytes at offset. A zero-length result
	// with a nil error means end of file.
	SubmitRead(fd Descriptor, offset int64, length int, cb func(data []byte, err error))
	// SubmitWrite writes p at offset. The submitter must not retain p after
	// the callback has run.
	SubmitWrite(fd Descriptor, p []byte, offset int64, cb func(n int, err error))
	// SubmitTruncate sets the file length to size.
	SubmitTruncate(fd Descriptor, size int64, cb func(err error))
	// SubmitClose releases the descriptor.
	SubmitClose(fd Descriptor, cb func(err error))
}

// Opener opens files and probes their size. Opening is synchronous.
type Opener interface {
	Open(path string, flag int, perm os.FileMode) (fd Descriptor, size int64, err error)
}

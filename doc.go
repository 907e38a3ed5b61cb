// Package aiofile provides asynchronous, sequential access to a single open
// file descriptor.
//
// A File tracks a position and a best known size and turns each operation
// into a positional request against an I/O backend. Completions are delivered
// on an event loop (package loop) that is kept alive only while requests are
// outstanding.
//
// # Quick Start
//
//	d, _ := aiofile.NewLocalDriver()
//	f, _ := d.Open("events.log", "a")
//
//	c1, _ := f.Write([]byte("first\n"))   // not awaited
//	c2, _ := f.Write([]byte("second\n"))  // lands after first
//	_, err := c2.Wait(ctx)
//
//	_ = f.End([]byte("done\n"))           // write, then close
//
// # Ordering
//
// Writes and truncates form a pipeline: each one waits for its predecessor
// before it reaches the backend, so writes issued without awaiting still land
// contiguously in issue order. If an operation fails, every operation queued
// behind it fails with a *PipelineError and is never submitted.
//
// Reads are not part of the pipeline. At most one read may be outstanding; a
// second read, a Seek, or a write issued while the pipeline is empty returns
// ErrConcurrentOperation. A read whose context is cancelled returns at once;
// its late completion is discarded.
//
// # Errors
//
// Operations on a released descriptor fail with ErrClosedHandle. Other
// backend failures are reported as *StreamError. Rejected arguments return
// *InvalidArgumentError, which matches ErrInvalidArgument.
//
// # Backends
//
// NewLocalDriver runs requests through the portable file system backend;
// NewNativeDriver (unix only) issues pread/pwrite/ftruncate on raw
// descriptors. Both can be bounded with WithResources.
package aiofile

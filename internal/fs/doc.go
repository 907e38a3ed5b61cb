// Package fs is the file system layer under the aio backend.
//
// A [File] is addressed only through ReadAt, WriteAt and Truncate; it keeps no
// cursor. A [FileSystem] opens, stats and removes files.
//
// # Implementations
//
//   - [LocalFS]: the operating system, via package os ([Default])
//   - [MemFS]: in memory, with os.File-like errors for closed and wrong-access handles
//   - [AferoFS]: any afero.Fs (base-path sandboxes, copy-on-write layers)
//   - [FaultyFS]: wraps another FileSystem and injects failures by file name
//
// Fault injection in tests:
//
//	ffs := fs.NewFaultyFS(fs.NewMemFS())
//	ffs.AddRule("data.bin", fs.Fault{FailAfterBytes: 1024}) // writes past 1KB fail
//	b := aio.NewBackend(loop.New(), ffs)
//
// Injected failures match [ErrInjected].
//
// Files must not be opened with O_APPEND. Append positioning belongs to the
// caller, and os.File rejects WriteAt on append-mode files.
package fs

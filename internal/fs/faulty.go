package fs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrInjected is matched by every error FaultyFS injects.
var ErrInjected = errors.New("injected fault")

// Fault describes the failures injected into files whose name matches a rule.
type Fault struct {
	// FailAfterBytes fails any write that would take the bytes written
	// through one handle past this limit. -1 disables the limit.
	FailAfterBytes int64
	FailOnRead     bool
	FailOnTruncate bool
	FailOnClose    bool

	// Err is the cause reported by injected failures.
	// If nil, FaultyFS.Err is used.
	Err error
}

// InjectedError is returned by FaultyFS files for injected failures.
type InjectedError struct {
	Op   string
	Name string
	Err  error
}

func (e *InjectedError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *InjectedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInjected.
func (e *InjectedError) Is(target error) bool { return target == ErrInjected }

type faultRule struct {
	pattern string
	fault   Fault
}

// FaultyFS wraps a FileSystem and injects failures into files by name.
// Rules are matched by substring; when several match, the one added last
// wins.
type FaultyFS struct {
	FS FileSystem

	// Default applies to files no rule matches.
	Default Fault

	// Err is the fallback cause for injected failures.
	Err error

	mu      sync.Mutex
	rules   []faultRule
	written int64
}

// NewFaultyFS wraps fsys (or Default if nil). Until rules are added it
// injects nothing.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:      fsys,
		Default: Fault{FailAfterBytes: -1},
		Err:     ErrInjected,
	}
}

// AddRule injects fault into files opened after the call whose name
// contains pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, faultRule{pattern: pattern, fault: fault})
}

// GetWritten returns the bytes written through all files so far.
func (f *FaultyFS) GetWritten() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	fault := f.Default
	for i := len(f.rules) - 1; i >= 0; i-- {
		if strings.Contains(name, f.rules[i].pattern) {
			fault = f.rules[i].fault
			break
		}
	}
	if fault.Err == nil {
		fault.Err = f.Err
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, name: name, fs: f, fault: f.match(name)}, nil
}

func (f *FaultyFS) Remove(name string) error              { return f.FS.Remove(name) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }

type faultyFile struct {
	File
	name  string
	fs    *FaultyFS
	fault Fault

	mu      sync.Mutex
	written int64
}

func (ff *faultyFile) fail(op string) error {
	return &InjectedError{Op: op, Name: ff.name, Err: ff.fault.Err}
}

func (ff *faultyFile) WriteAt(p []byte, off int64) (int, error) {
	ff.mu.Lock()
	limit := ff.fault.FailAfterBytes
	over := limit >= 0 && ff.written+int64(len(p)) > limit
	ff.mu.Unlock()
	if over {
		return 0, ff.fail("write")
	}

	n, err := ff.File.WriteAt(p, off)
	if n > 0 {
		ff.mu.Lock()
		ff.written += int64(n)
		ff.mu.Unlock()

		ff.fs.mu.Lock()
		ff.fs.written += int64(n)
		ff.fs.mu.Unlock()
	}
	return n, err
}

func (ff *faultyFile) ReadAt(p []byte, off int64) (int, error) {
	if ff.fault.FailOnRead {
		return 0, ff.fail("read")
	}
	return ff.File.ReadAt(p, off)
}

func (ff *faultyFile) Truncate(size int64) error {
	if ff.fault.FailOnTruncate {
		return ff.fail("truncate")
	}
	return ff.File.Truncate(size)
}

// Close releases the underlying file even when a close failure is injected.
func (ff *faultyFile) Close() error {
	err := ff.File.Close()
	if ff.fault.FailOnClose {
		return ff.fail("close")
	}
	return err
}

package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// Op names an [FS] method for fault injection.
type Op string

// Operations [Faulty] can fail.
const (
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefileatomic"
	OpReadDir         Op = "readdir"
	OpMkdirAll        Op = "mkdirall"
	OpStat            Op = "stat"
	OpExists          Op = "exists"
	OpRemove          Op = "remove"
	OpRemoveAll       Op = "removeall"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps a *fs.PathError carrying a syscall.Errno, so errors.Is against
// the errno and sentinels like os.ErrPermission keep working.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails configured operations with a fixed errno.
//
// Unlike a random fault injector, a fault stays armed until [Faulty.Heal], so
// a test can assert exactly which call observed it. Operations without a
// fault pass through to the wrapped [FS].
type Faulty struct {
	fs FS

	mu     sync.RWMutex
	faults map[Op]syscall.Errno

	injected atomic.Int64
}

// NewFaulty creates a Faulty filesystem wrapping fs. Panics if fs is nil.
func NewFaulty(fs FS) *Faulty {
	if fs == nil {
		panic("fs is nil")
	}

	return &Faulty{fs: fs, faults: make(map[Op]syscall.Errno)}
}

// Fail arms a fault: every later call to op fails with errno.
func (f *Faulty) Fail(op Op, errno syscall.Errno) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[op] = errno
}

// Heal disarms the fault for op.
func (f *Faulty) Heal(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.faults, op)
}

// Injected returns how many calls have failed with an injected fault.
func (f *Faulty) Injected() int64 {
	return f.injected.Load()
}

func (f *Faulty) fault(op Op, path string) error {
	f.mu.RLock()
	errno, ok := f.faults[op]
	f.mu.RUnlock()

	if !ok {
		return nil
	}

	f.injected.Add(1)

	return &InjectedError{Err: &iofs.PathError{Op: string(op), Path: path, Err: errno}}
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.fault(OpReadFile, path); err != nil {
		return nil, err
	}

	return f.fs.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.fault(OpWriteFileAtomic, path); err != nil {
		return err
	}

	return f.fs.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.fault(OpReadDir, path); err != nil {
		return nil, err
	}

	return f.fs.ReadDir(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.fault(OpMkdirAll, path); err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.fault(OpStat, path); err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.fault(OpExists, path); err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

func (f *Faulty) Remove(path string) error {
	if err := f.fault(OpRemove, path); err != nil {
		return err
	}

	return f.fs.Remove(path)
}

func (f *Faulty) RemoveAll(path string) error {
	if err := f.fault(OpRemoveAll, path); err != nil {
		return err
	}

	return f.fs.RemoveAll(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)

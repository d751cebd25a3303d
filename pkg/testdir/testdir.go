// Package testdir manages per-test scratch directories on disk.
//
// Each [Dir] is a uniquely named subdirectory of a root, so parallel tests
// never share files. The directory is removed when the test finishes unless
// [Dir.SetDeleteOnTerminate] turned that off. Every filesystem failure aborts
// the test.
//
//	dir := testdir.New(t, "decoder")
//	path := dir.CreateFile("in.bin", payload)
package testdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calvinalkan/testkit/internal/failfast"
	"github.com/calvinalkan/testkit/internal/fs"
	"github.com/calvinalkan/testkit/pkg/fixture"
)

// DefaultRoot is the root [New] creates directories under, relative to the
// working directory of the test binary.
const DefaultRoot = "test_dir.tmp"

// ErrInvalidPath reports a root or file name a [Dir] refuses to use.
var ErrInvalidPath = errors.New("invalid path")

// TB is the test handle directories report failures to.
type TB = failfast.TB

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Dir is a scratch directory owned by one test.
type Dir struct {
	tb   TB
	fs   fs.FS
	root string
	path string

	// ownsRoot is set when root did not exist before this Dir created it.
	ownsRoot bool

	deleteOnTerminate atomic.Bool
}

// New creates a fresh directory for name under [DefaultRoot].
func New(tb TB, name string) *Dir {
	tb.Helper()

	return newDir(tb, fs.NewReal(), DefaultRoot, name)
}

// WithRoot creates a fresh directory for name under root. The root itself
// is created if missing. A filesystem root or an empty root is refused.
func WithRoot(tb TB, root, name string) *Dir {
	tb.Helper()

	return newDir(tb, fs.NewReal(), root, name)
}

func newDir(tb TB, fsys fs.FS, root, name string) *Dir {
	tb.Helper()

	if root == "" {
		failfast.Failf(tb, ErrInvalidPath, "empty root")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		failfast.Fail(tb, fmt.Errorf("testdir: resolve root %q: %w", root, err))
	}

	if isFilesystemRoot(abs) {
		failfast.Failf(tb, ErrInvalidPath, "refusing filesystem root %q", root)
	}

	if name == "" || !filepath.IsLocal(name) || filepath.Base(name) != name {
		failfast.Failf(tb, ErrInvalidPath, "directory name %q must be a single path element", name)
	}

	d := &Dir{
		tb:   tb,
		fs:   fsys,
		root: abs,
		path: filepath.Join(abs, name+"-"+uuid.NewString()),
	}
	d.deleteOnTerminate.Store(true)

	d.create()
	tb.Cleanup(d.terminate)

	return d
}

func isFilesystemRoot(abs string) bool {
	return filepath.Dir(abs) == abs
}

func (d *Dir) create() {
	d.tb.Helper()

	rootExists, err := d.fs.Exists(d.root)
	if err != nil {
		d.fail("stat", d.root, err)
	}

	d.ownsRoot = !rootExists

	info, err := d.fs.Stat(d.path)

	switch {
	case err == nil && !info.IsDir():
		if rmErr := d.fs.Remove(d.path); rmErr != nil {
			d.fail("remove file in the way", d.path, rmErr)
		}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		d.fail("stat", d.path, err)
	}

	if err := d.fs.MkdirAll(d.path, dirPerms); err != nil {
		d.fail("create", d.path, err)
	}
}

func (d *Dir) terminate() {
	if !d.deleteOnTerminate.Load() {
		logger := zerolog.New(zerolog.NewTestWriter(d.tb))
		logger.Info().Str("path", d.path).Msg("keeping test directory")

		return
	}

	if err := d.fs.RemoveAll(d.path); err != nil {
		d.fail("remove", d.path, err)
	}

	// Fails while other tests still have directories under the root.
	if d.ownsRoot {
		_ = d.fs.Remove(d.root)
	}
}

func (d *Dir) fail(op, path string, err error) {
	d.tb.Helper()
	failfast.Fail(d.tb, fmt.Errorf("testdir: %s %s: %w", op, path, err))
}

// Path returns the absolute path of the directory.
func (d *Dir) Path() string {
	return d.path
}

// DeleteOnTerminate reports whether the directory is removed at test cleanup.
func (d *Dir) DeleteOnTerminate() bool {
	return d.deleteOnTerminate.Load()
}

// SetDeleteOnTerminate controls whether the directory is removed at test
// cleanup. Kept directories are logged so they can be inspected.
func (d *Dir) SetDeleteOnTerminate(del bool) {
	d.deleteOnTerminate.Store(del)
}

// FilePath returns the path of name inside the directory. name must be a
// local relative path.
func (d *Dir) FilePath(name string) string {
	d.tb.Helper()

	if !filepath.IsLocal(name) {
		failfast.Failf(d.tb, ErrInvalidPath, "file name %q escapes the test directory", name)
	}

	return filepath.Join(d.path, name)
}

// Reset removes everything inside the directory and keeps the directory.
func (d *Dir) Reset() {
	d.tb.Helper()

	entries, err := d.fs.ReadDir(d.path)
	if err != nil {
		d.fail("list", d.path, err)
	}

	for _, entry := range entries {
		p := filepath.Join(d.path, entry.Name())
		if err := d.fs.RemoveAll(p); err != nil {
			d.fail("remove", p, err)
		}
	}
}

// CreateFile writes contents to name, replacing any existing file, and
// returns its path. Parent directories are created as needed.
func (d *Dir) CreateFile(name string, contents []byte) string {
	d.tb.Helper()

	p := d.FilePath(name)

	if dir := filepath.Dir(p); dir != d.path {
		if err := d.fs.MkdirAll(dir, dirPerms); err != nil {
			d.fail("create", dir, err)
		}
	}

	if err := d.fs.WriteFileAtomic(p, contents, filePerms); err != nil {
		d.fail("write", p, err)
	}

	return p
}

// CreateRandomFile writes between minLen and maxLen random bytes from gen
// to name and returns the bytes written.
func (d *Dir) CreateRandomFile(name string, gen *fixture.Generator, minLen, maxLen int) []byte {
	d.tb.Helper()

	data := gen.Bytes(minLen, maxLen)
	d.CreateFile(name, data)

	return data
}

// TouchFile leaves name as an empty file, truncating any existing
// contents, and returns its path.
func (d *Dir) TouchFile(name string) string {
	d.tb.Helper()

	return d.CreateFile(name, nil)
}

// ReadFile returns the contents of name. A missing file fails the test.
func (d *Dir) ReadFile(name string) []byte {
	d.tb.Helper()

	p := d.FilePath(name)

	data, err := d.fs.ReadFile(p)
	if err != nil {
		d.fail("read", p, err)
	}

	return data
}

// DeleteFile removes name. Deleting a missing file is a no-op.
func (d *Dir) DeleteFile(name string) {
	d.tb.Helper()

	p := d.FilePath(name)

	err := d.fs.Remove(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		d.fail("delete", p, err)
	}
}

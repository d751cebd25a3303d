package testdir

import "github.com/calvinalkan/testkit/internal/fs"

// NewWithFS builds a Dir on fsys so tests can inject filesystem faults.
func NewWithFS(tb TB, fsys fs.FS, root, name string) *Dir {
	tb.Helper()

	return newDir(tb, fsys, root, name)
}

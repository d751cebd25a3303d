// Package failfast holds the failure taxonomy shared by the testkit packages
// and the TB interface they report failures through.
//
// Nothing in testkit returns a recoverable error to test code. Every detected
// problem is wrapped around one of the sentinels below and handed to
// [TB.Fatal], which stops the calling test.
package failfast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBounds reports a misuse of a generator: min > max, a negative
	// length or an empty charset.
	ErrInvalidBounds = errors.New("invalid bounds")

	// ErrSizeCeilingExceeded reports a requested size above the generator's
	// safety ceiling.
	ErrSizeCeilingExceeded = errors.New("size ceiling exceeded")

	// ErrStructuralMismatch reports two compared values that differ.
	ErrStructuralMismatch = errors.New("structural mismatch")
)

// TB is the subset of [testing.TB] testkit needs.
//
// *testing.T, *testing.B and *testing.F satisfy it. Fatal must not return:
// the testing package stops the goroutine with runtime.Goexit.
type TB interface {
	Helper()
	Fatal(args ...any)
	Log(args ...any)
	Logf(format string, args ...any)
	Cleanup(fn func())
	Failed() bool
}

// Fail aborts the test with err.
func Fail(tb TB, err error) {
	tb.Helper()
	tb.Fatal(err)
}

// Failf wraps sentinel with a formatted message and aborts the test.
func Failf(tb TB, sentinel error, format string, args ...any) {
	tb.Helper()
	tb.Fatal(fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}

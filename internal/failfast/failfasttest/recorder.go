// Package failfasttest provides a [failfast.TB] that captures fatal failures
// so tests can assert on them without failing themselves.
package failfasttest

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/calvinalkan/testkit/internal/failfast"
)

// Recorder implements [failfast.TB].
//
// Fatal records the failure and stops the calling goroutine with
// runtime.Goexit, like testing.T.FailNow. Use [Run] so the body runs on a
// goroutine that is allowed to exit.
type Recorder struct {
	mu       sync.Mutex
	failed   bool
	fatal    string
	err      error
	logs     []string
	cleanups []func()
}

var _ failfast.TB = (*Recorder)(nil)

// Run executes fn on a fresh goroutine with a new Recorder, waits for it to
// finish or abort, then runs registered cleanups in LIFO order.
func Run(fn func(tb failfast.TB)) *Recorder {
	rec := &Recorder{}

	failfast.RunIsolated(func() { fn(rec) }, rec.popCleanup)

	return rec
}

func (r *Recorder) popCleanup() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.cleanups)
	if n == 0 {
		return nil
	}

	cleanup := r.cleanups[n-1]
	r.cleanups = r.cleanups[:n-1]

	return cleanup
}

// Helper is a no-op.
func (r *Recorder) Helper() {}

// Fatal records args and stops the calling goroutine.
func (r *Recorder) Fatal(args ...any) {
	r.mu.Lock()

	if !r.failed {
		r.fatal = fmt.Sprint(args...)

		for _, arg := range args {
			if err, ok := arg.(error); ok {
				r.err = err

				break
			}
		}
	}

	r.failed = true
	r.mu.Unlock()

	runtime.Goexit()
}

// Log records a log line.
func (r *Recorder) Log(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// Logf records a formatted log line.
func (r *Recorder) Logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

// Cleanup registers fn to run after the body passed to [Run] returns.
func (r *Recorder) Cleanup(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanups = append(r.cleanups, fn)
}

// Failed reports whether Fatal was called.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.failed
}

// Message returns the text of the first Fatal call, or "".
func (r *Recorder) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fatal
}

// Err returns the first error passed to Fatal, or nil.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

// Logs returns a copy of the recorded log lines.
func (r *Recorder) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.logs...)
}

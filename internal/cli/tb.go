package cli

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/testkit/internal/failfast"
)

// runTB adapts a CLI invocation to [failfast.TB]. Fatal turns the first
// failure into the error [runTB.run] returns; logs go to the zerolog logger.
type runTB struct {
	logger   zerolog.Logger
	err      error
	cleanups []func()
}

var _ failfast.TB = (*runTB)(nil)

func newRunTB(logger zerolog.Logger) *runTB {
	return &runTB{logger: logger}
}

// run executes fn on its own goroutine so Fatal can stop it, then runs
// cleanups in LIFO order. It returns the first failure.
func (r *runTB) run(fn func(tb failfast.TB)) error {
	failfast.RunIsolated(func() { fn(r) }, r.popCleanup)

	return r.err
}

func (r *runTB) popCleanup() func() {
	n := len(r.cleanups)
	if n == 0 {
		return nil
	}

	cleanup := r.cleanups[n-1]
	r.cleanups = r.cleanups[:n-1]

	return cleanup
}

func (r *runTB) Helper() {}

func (r *runTB) Fatal(args ...any) {
	if r.err == nil {
		r.err = fatalError(args)
	}

	runtime.Goexit()
}

func fatalError(args []any) error {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return err
		}
	}

	return errors.New(fmt.Sprint(args...))
}

func (r *runTB) Log(args ...any) {
	r.logger.Debug().Msg(fmt.Sprint(args...))
}

func (r *runTB) Logf(format string, args ...any) {
	r.logger.Debug().Msgf(format, args...)
}

func (r *runTB) Cleanup(fn func()) {
	r.cleanups = append(r.cleanups, fn)
}

func (r *runTB) Failed() bool {
	return r.err != nil
}

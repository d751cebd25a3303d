package failfast_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/testkit/internal/failfast"
)

func Test_RunIsolated_Runs_Cleanups_In_Order_When_Body_Exits_Early(t *testing.T) {
	t.Parallel()

	var (
		order   []string
		pending []func()
	)

	next := func() func() {
		if len(pending) == 0 {
			return nil
		}

		fn := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		return fn
	}

	failfast.RunIsolated(func() {
		pending = append(pending, func() { order = append(order, "first") })
		pending = append(pending, func() {
			order = append(order, "second")
			runtime.Goexit()
		})

		order = append(order, "body")
		runtime.Goexit()
	}, next)

	assert.Equal(t, []string{"body", "second", "first"}, order)
}

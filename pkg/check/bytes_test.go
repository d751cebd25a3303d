package check_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/testkit/internal/failfast"
	"github.com/calvinalkan/testkit/internal/failfast/failfasttest"
	"github.com/calvinalkan/testkit/pkg/check"
	"github.com/calvinalkan/testkit/pkg/fixture"
)

func Test_Equal_Succeeds_When_Buffers_Match(t *testing.T) {
	t.Parallel()

	rec := failfasttest.Run(func(tb failfast.TB) {
		check.Equal(tb, []byte{1, 2, 3}, []byte{1, 2, 3})
	})

	assert.False(t, rec.Failed(), rec.Message())
	assert.Empty(t, rec.Logs())
}

func Test_Equal_Reports_First_Differing_Byte_When_Buffers_Differ(t *testing.T) {
	t.Parallel()

	reached := false

	rec := failfasttest.Run(func(tb failfast.TB) {
		check.Equal(tb, []byte{1, 2, 3}, []byte{1, 9, 3})

		reached = true
	})

	require.True(t, rec.Failed())
	assert.False(t, reached, "Equal must abort the caller")
	require.ErrorIs(t, rec.Err(), check.ErrStructuralMismatch)

	var m *check.Mismatch
	require.True(t, errors.As(rec.Err(), &m))
	assert.Equal(t, check.ReasonByte, m.Reason)
	assert.Equal(t, 1, m.Position)
	assert.Equal(t, byte(2), m.Expected)
	assert.Equal(t, byte(9), m.Actual)
	assert.Contains(t, rec.Message(), "byte at offset 1: expected 0x02, actual 0x09")
}

func Test_Bytes_Reports_Lengths_When_Lengths_Differ(t *testing.T) {
	t.Parallel()

	m := check.Bytes([]byte{1, 2, 3, 4}, []byte{1, 2})

	require.NotNil(t, m)
	assert.Equal(t, check.ReasonLength, m.Reason)
	assert.Equal(t, 4, m.Expected)
	assert.Equal(t, 2, m.Actual)
	assert.Equal(t, 2, m.Position, "divergence starts where the shorter buffer ends")
	assert.Equal(t, "01 02 03 04", m.ExpectedContext)
	assert.Equal(t, "01 02", m.ActualContext)
}

func Test_Bytes_Reports_Earlier_Divergence_When_Lengths_And_Bytes_Differ(t *testing.T) {
	t.Parallel()

	m := check.Bytes([]byte{1, 2, 3}, []byte{7})

	require.NotNil(t, m)
	assert.Equal(t, check.ReasonLength, m.Reason)
	assert.Equal(t, 0, m.Position)
}

func Test_Bytes_Treats_Nil_And_Empty_As_Equal_When_Compared(t *testing.T) {
	t.Parallel()

	assert.Nil(t, check.Bytes(nil, []byte{}))
	assert.Nil(t, check.Bytes(nil, nil))
}

func Test_Bytes_Limits_Context_Window_When_Buffers_Are_Large(t *testing.T) {
	t.Parallel()

	expected := bytes.Repeat([]byte{0xaa}, 100)
	actual := bytes.Clone(expected)
	actual[50] = 0xbb

	m := check.Bytes(expected, actual)

	require.NotNil(t, m)
	assert.Equal(t, 50, m.Position)
	assert.Equal(t, 50-check.ContextWindow, m.ContextStart)

	// 16 before, the byte itself, 16 after.
	assert.Len(t, strings.Fields(m.ExpectedContext), 2*check.ContextWindow+1)
	assert.Contains(t, m.ActualContext, "bb")
	assert.NotContains(t, m.ExpectedContext, "bb")
}

func Test_Bytes_Clamps_Context_Window_When_Mismatch_Near_Edges(t *testing.T) {
	t.Parallel()

	m := check.Bytes([]byte{0, 1, 2}, []byte{9, 1, 2})

	require.NotNil(t, m)
	assert.Equal(t, 0, m.ContextStart)
	assert.Equal(t, "00 01 02", m.ExpectedContext)
	assert.Equal(t, "09 01 02", m.ActualContext)
}

func Test_Equal_Is_Idempotent_When_Called_Repeatedly(t *testing.T) {
	t.Parallel()

	expected := []byte{5, 6, 7}
	actual := []byte{5, 6, 7}

	rec := failfasttest.Run(func(tb failfast.TB) {
		check.Equal(tb, expected, actual)
		check.Equal(tb, expected, actual)
		check.Equal(tb, expected, actual)
	})

	require.False(t, rec.Failed())
	assert.Equal(t, []byte{5, 6, 7}, expected)
	assert.Equal(t, []byte{5, 6, 7}, actual)
}

func Test_Bytes_Finds_Flipped_Byte_When_Buffers_Are_Random(t *testing.T) {
	t.Parallel()

	gen := fixture.New(t, fixture.WithSeed(31))

	for range 200 {
		expected := gen.Bytes(1, 512)
		actual := bytes.Clone(expected)
		pos := gen.Int(0, len(actual)-1)
		actual[pos] ^= 0x01

		m := check.Bytes(expected, actual)
		require.NotNil(t, m)
		require.Equal(t, check.ReasonByte, m.Reason)
		require.Equal(t, pos, m.Position)
	}
}

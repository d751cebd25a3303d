package check

import (
	"bytes"
	"fmt"
)

// Bytes compares two buffers. Lengths are compared first, then bytes in
// order. It returns nil when they are equal.
func Bytes(expected, actual []byte) *Mismatch {
	if bytes.Equal(expected, actual) {
		return nil
	}

	common := min(len(expected), len(actual))
	diffAt := firstDiff(expected[:common], actual[:common])

	if len(expected) != len(actual) {
		pos := common
		if diffAt >= 0 {
			pos = diffAt
		}

		m := &Mismatch{
			Reason:   ReasonLength,
			Position: pos,
			Expected: len(expected),
			Actual:   len(actual),
		}
		m.setContext(expected, actual)

		return m
	}

	m := &Mismatch{
		Reason:   ReasonByte,
		Position: diffAt,
		Expected: expected[diffAt],
		Actual:   actual[diffAt],
	}
	m.setContext(expected, actual)

	return m
}

func firstDiff(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}

	return -1
}

func (m *Mismatch) setContext(expected, actual []byte) {
	m.ContextStart = max(0, m.Position-ContextWindow)
	m.ExpectedContext = window(expected, m.ContextStart, m.Position)
	m.ActualContext = window(actual, m.ContextStart, m.Position)
}

func window(b []byte, start, pos int) string {
	if start >= len(b) {
		return "(end)"
	}

	end := min(len(b), pos+ContextWindow+1)

	return fmt.Sprintf("% x", b[start:end])
}

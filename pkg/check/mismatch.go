package check

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/testkit/internal/failfast"
)

// ErrStructuralMismatch is wrapped by every [Mismatch].
var ErrStructuralMismatch = failfast.ErrStructuralMismatch

// ContextWindow is how many bytes on each side of a differing byte are shown.
const ContextWindow = 16

// Reason names what differed.
type Reason string

// Mismatch reasons.
const (
	ReasonLength     Reason = "length"
	ReasonByte       Reason = "byte"
	ReasonFieldCount Reason = "field count"
	ReasonFieldName  Reason = "field name"
	ReasonField      Reason = "field"
	ReasonValue      Reason = "value"
)

// Mismatch is the first point where two compared values diverge.
//
// For ReasonLength, Expected and Actual are the two lengths and Position is
// the offset where the buffers stop agreeing. For ReasonByte, Position is the
// offset of the first differing byte and Expected/Actual are the two bytes.
// For field reasons, Position is the field index and Field its name.
type Mismatch struct {
	Reason   Reason
	Position int
	Field    string
	Expected any
	Actual   any

	// ContextStart is the offset of the first byte in ExpectedContext and
	// ActualContext, hex windows around Position.
	ContextStart    int
	ExpectedContext string
	ActualContext   string

	// Diff is a go-cmp diff (-expected +actual) when one is available.
	Diff string

	// Cause is the byte-level mismatch inside a byte slice or byte array field.
	Cause *Mismatch
}

func (m *Mismatch) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrStructuralMismatch.Error())
	sb.WriteString(": ")
	m.describe(&sb)

	return sb.String()
}

// Unwrap returns [ErrStructuralMismatch].
func (m *Mismatch) Unwrap() error {
	return ErrStructuralMismatch
}

func (m *Mismatch) describe(sb *strings.Builder) {
	switch m.Reason {
	case ReasonLength:
		fmt.Fprintf(sb, "length: expected %v, actual %v (first divergence at offset %d)",
			m.Expected, m.Actual, m.Position)
	case ReasonByte:
		fmt.Fprintf(sb, "byte at offset %d: expected %#02x, actual %#02x", m.Position, m.Expected, m.Actual)
	case ReasonFieldCount:
		fmt.Fprintf(sb, "field count: expected %v, actual %v (first unmatched field #%d %q)",
			m.Expected, m.Actual, m.Position, m.Field)
	case ReasonFieldName:
		fmt.Fprintf(sb, "field name at #%d: expected %q, actual %q", m.Position, m.Expected, m.Actual)
	case ReasonField:
		fmt.Fprintf(sb, "field %q (#%d): ", m.Field, m.Position)

		if m.Cause != nil {
			m.Cause.describe(sb)

			return
		}

		if m.Diff == "" {
			fmt.Fprintf(sb, "expected %#v, actual %#v", m.Expected, m.Actual)
		} else {
			sb.WriteString("differs")
		}
	default:
		if m.Diff == "" {
			fmt.Fprintf(sb, "expected %#v, actual %#v", m.Expected, m.Actual)
		} else {
			sb.WriteString("values differ")
		}
	}

	if m.ExpectedContext != "" || m.ActualContext != "" {
		fmt.Fprintf(sb, "\n  expected @%d: %s\n  actual   @%d: %s",
			m.ContextStart, m.ExpectedContext, m.ContextStart, m.ActualContext)
	}

	if m.Diff != "" {
		fmt.Fprintf(sb, "\n(-expected +actual):\n%s", m.Diff)
	}
}

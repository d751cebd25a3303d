package fixture

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/calvinalkan/testkit/internal/failfast"
)

// Kind tags the variant held by a [Value].
type Kind uint8

// Value kinds.
const (
	KindBytes Kind = iota + 1
	KindString
	KindInt
	KindBool
)

var errUnknownKind = errors.New("unknown kind")

var kindNames = map[Kind]string{
	KindBytes:  "bytes",
	KindString: "string",
	KindInt:    "int",
	KindBool:   "bool",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return name
}

// ParseKind maps "bytes", "string", "int" or "bool" to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errUnknownKind, s)
}

// Bounds are the inclusive limits a value was drawn within. For bytes and
// strings they bound the length.
type Bounds struct {
	Min int64
	Max int64
}

// ValueSpec describes a value to generate.
type ValueSpec struct {
	Kind   Kind
	Bounds Bounds
}

// Value is a generated fixture together with the bounds used to produce it.
//
// Accessors for a kind other than the one held return the zero value.
type Value struct {
	kind   Kind
	bounds Bounds
	bytes  []byte
	str    string
	num    int64
	flag   bool
}

// Kind returns the variant held.
func (v Value) Kind() Kind { return v.kind }

// Bounds returns the bounds the value was drawn within.
func (v Value) Bounds() Bounds { return v.bounds }

// Bytes returns a copy of the buffer held by a KindBytes value.
func (v Value) Bytes() []byte {
	if v.kind != KindBytes {
		return nil
	}

	return append([]byte{}, v.bytes...)
}

// Text returns the string held by a KindString value.
func (v Value) Text() string { return v.str }

// Int returns the integer held by a KindInt value.
func (v Value) Int() int64 { return v.num }

// Bool returns the boolean held by a KindBool value.
func (v Value) Bool() bool { return v.flag }

// String formats the value for diagnostics; bytes are hex-encoded.
func (v Value) String() string {
	switch v.kind {
	case KindBytes:
		return hex.EncodeToString(v.bytes)
	case KindString:
		return strconv.Quote(v.str)
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return "<invalid>"
	}
}

// Generate produces a value for spec. Bounds are ignored for KindBool.
func (g *Generator) Generate(spec ValueSpec) Value {
	g.tb.Helper()

	v := Value{kind: spec.Kind, bounds: spec.Bounds}

	switch spec.Kind {
	case KindBytes:
		lo, hi := g.lengthBounds(spec.Bounds)
		v.bytes = g.Bytes(lo, hi)
	case KindString:
		lo, hi := g.lengthBounds(spec.Bounds)
		v.str = g.String(lo, hi)
	case KindInt:
		v.num = g.Int64(spec.Bounds.Min, spec.Bounds.Max)
	case KindBool:
		v.bounds = Bounds{Min: 0, Max: 1}
		v.flag = g.Bool()
	default:
		failfast.Failf(g.tb, ErrInvalidBounds, "%v %s", errUnknownKind, spec.Kind)
	}

	return v
}

// lengthBounds narrows int64 bounds to int lengths. Anything that does not
// fit an int is necessarily above the ceiling.
func (g *Generator) lengthBounds(b Bounds) (int, int) {
	g.tb.Helper()

	if b.Max > math.MaxInt {
		failfast.Failf(g.tb, ErrSizeCeilingExceeded, "max length %d above ceiling %d", b.Max, g.maxLen)
	}

	if b.Min < 0 || b.Min > b.Max {
		failfast.Failf(g.tb, ErrInvalidBounds, "length bounds [%d, %d]", b.Min, b.Max)
	}

	return int(b.Min), int(b.Max)
}

// Generate is [Generator.Generate] on a generator built for this call only.
func Generate(tb TB, spec ValueSpec, opts ...Option) Value {
	tb.Helper()

	return newGenerator(tb, buildOptions(opts)).Generate(spec)
}

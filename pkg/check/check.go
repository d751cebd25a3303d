// Package check asserts structural equality of test artifacts.
//
// Byte buffers are compared length first, then byte by byte, and the first
// differing offset is reported with a hex window around it. Records and
// structs are compared field by field in declaration order; the first
// differing field is reported and the remaining fields are not visited.
// Everything else is compared with go-cmp.
//
// [Equal] and [RoundTrip] abort the calling test on the first mismatch.
// [Compare], [Bytes] and [Records] are the side-effect-free comparators
// underneath.
package check

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/testkit/internal/failfast"
)

// TB is the test handle assertions report failures to.
type TB = failfast.TB

// Compare returns the first point where expected and actual diverge, or nil
// when they are structurally equal.
func Compare[T any](expected, actual T) *Mismatch {
	return compare(expected, actual)
}

// Equal aborts the test unless expected and actual are structurally equal.
func Equal[T any](tb TB, expected, actual T) {
	tb.Helper()

	m := Compare(expected, actual)
	if m != nil {
		failfast.Fail(tb, m)
	}
}

// RoundTrip encodes value, decodes the result and asserts the decoded value
// equals value. Encode and decode errors abort the test as well.
//
//	check.RoundTrip(t, hdr, Header.MarshalBinary, ParseHeader)
func RoundTrip[T, E any](tb TB, value T, encode func(T) (E, error), decode func(E) (T, error)) {
	tb.Helper()

	encoded, err := encode(value)
	if err != nil {
		failfast.Fail(tb, fmt.Errorf("round trip: encode: %w", err))
	}

	decoded, err := decode(encoded)
	if err != nil {
		failfast.Fail(tb, fmt.Errorf("round trip: decode: %w", err))
	}

	m := Compare(value, decoded)
	if m != nil {
		failfast.Fail(tb, fmt.Errorf("round trip: %w", m))
	}
}

func compare(expected, actual any) *Mismatch {
	er, eok := expected.(Record)
	ar, aok := actual.(Record)

	if eok && aok {
		return Records(er, ar)
	}

	ev, av := reflect.ValueOf(expected), reflect.ValueOf(actual)
	if !ev.IsValid() || !av.IsValid() || ev.Type() != av.Type() {
		return values(expected, actual)
	}

	if isByteBuffer(ev.Type()) {
		return Bytes(bufferBytes(ev), bufferBytes(av))
	}

	if ev.Kind() == reflect.Pointer && ev.Type().Elem().Kind() == reflect.Struct {
		if ev.IsNil() || av.IsNil() {
			return values(expected, actual)
		}

		ev, av = ev.Elem(), av.Elem()
	}

	if ev.Kind() == reflect.Struct && !hasEqualMethod(ev.Type()) {
		return structs(ev, av)
	}

	return values(ev.Interface(), av.Interface())
}

func values(expected, actual any) *Mismatch {
	if cmp.Equal(expected, actual, compareOptions...) {
		return nil
	}

	return &Mismatch{
		Reason:   ReasonValue,
		Expected: expected,
		Actual:   actual,
		Diff:     cmp.Diff(expected, actual, compareOptions...),
	}
}

// hasEqualMethod mirrors go-cmp: a type with Equal(T) bool is compared as a
// whole through that method. This takes precedence over the byte comparator,
// so net.IP and similar named byte slices keep their own equality.
func hasEqualMethod(t reflect.Type) bool {
	for _, typ := range []reflect.Type{t, reflect.PointerTo(t)} {
		m, ok := typ.MethodByName("Equal")
		if ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 1 && m.Type.Out(0).Kind() == reflect.Bool {
			return true
		}
	}

	return false
}

package check

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Field is one named value of a [Record].
type Field struct {
	Name  string
	Value any
}

// Record is an ordered field list.
type Record []Field

// Records compares two records. Field counts are compared first, then
// fields in order; comparison stops at the first mismatching field.
func Records(expected, actual Record) *Mismatch {
	if len(expected) != len(actual) {
		pos := min(len(expected), len(actual))

		extra := expected
		if len(actual) > len(expected) {
			extra = actual
		}

		return &Mismatch{
			Reason:   ReasonFieldCount,
			Position: pos,
			Field:    extra[pos].Name,
			Expected: len(expected),
			Actual:   len(actual),
		}
	}

	for i := range expected {
		e, a := expected[i], actual[i]

		if e.Name != a.Name {
			return &Mismatch{
				Reason:   ReasonFieldName,
				Position: i,
				Field:    e.Name,
				Expected: e.Name,
				Actual:   a.Name,
			}
		}

		m := compareField(i, e.Name, e.Value, a.Value)
		if m != nil {
			return m
		}
	}

	return nil
}

// compareOptions is what "structurally equal" means below the top level:
// unexported fields are compared and nil equals empty for slices and maps.
var compareOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
}

func compareField(index int, name string, expected, actual any) *Mismatch {
	ev, av := reflect.ValueOf(expected), reflect.ValueOf(actual)

	if ev.IsValid() && av.IsValid() && ev.Type() == av.Type() && isByteBuffer(ev.Type()) {
		cause := Bytes(bufferBytes(ev), bufferBytes(av))
		if cause == nil {
			return nil
		}

		return &Mismatch{
			Reason:   ReasonField,
			Position: index,
			Field:    name,
			Expected: expected,
			Actual:   actual,
			Cause:    cause,
		}
	}

	if cmp.Equal(expected, actual, compareOptions...) {
		return nil
	}

	return &Mismatch{
		Reason:   ReasonField,
		Position: index,
		Field:    name,
		Expected: expected,
		Actual:   actual,
		Diff:     cmp.Diff(expected, actual, compareOptions...),
	}
}

// structs compares two values of the same struct type field by field in
// declaration order, unexported fields included.
func structs(expected, actual reflect.Value) *Mismatch {
	typ := expected.Type()
	ei, ai := expected.Interface(), actual.Interface()

	for i := range typ.NumField() {
		name := typ.Field(i).Name
		ef, af := expected.Field(i), actual.Field(i)

		if isByteBuffer(ef.Type()) {
			cause := Bytes(bufferBytes(ef), bufferBytes(af))
			if cause == nil {
				continue
			}

			return &Mismatch{
				Reason:   ReasonField,
				Position: i,
				Field:    name,
				Expected: fieldValue(ef),
				Actual:   fieldValue(af),
				Cause:    cause,
			}
		}

		only := append([]cmp.Option{onlyField(i)}, compareOptions...)
		if cmp.Equal(ei, ai, only...) {
			continue
		}

		return &Mismatch{
			Reason:   ReasonField,
			Position: i,
			Field:    name,
			Expected: fieldValue(ef),
			Actual:   fieldValue(af),
			Diff:     cmp.Diff(ei, ai, only...),
		}
	}

	return nil
}

// onlyField ignores every top-level struct field except index.
func onlyField(index int) cmp.Option {
	return cmp.FilterPath(func(p cmp.Path) bool {
		if len(p) < 2 {
			return false
		}

		sf, ok := p[1].(cmp.StructField)

		return ok && sf.Index() != index
	}, cmp.Ignore())
}

// isByteBuffer reports whether t is a byte slice or a fixed-size byte array
// without its own Equal method.
func isByteBuffer(t reflect.Type) bool {
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return false
	}

	return t.Elem().Kind() == reflect.Uint8 && !hasEqualMethod(t)
}

// bufferBytes returns the contents of a byte buffer. Arrays are copied
// element by element: they are often unaddressable and may sit behind
// unexported fields, where reflect.Copy panics.
func bufferBytes(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}

	buf := make([]byte, v.Len())
	for i := range buf {
		buf[i] = byte(v.Index(i).Uint())
	}

	return buf
}

// fieldValue returns v as an interface, or its formatted form when v was
// reached through an unexported field.
func fieldValue(v reflect.Value) any {
	if v.CanInterface() {
		return v.Interface()
	}

	return fmt.Sprint(v)
}

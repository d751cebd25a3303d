package fixture

import "golang.org/x/exp/constraints"

// Number is any integer or float type.
type Number interface {
	constraints.Integer | constraints.Float
}

// FillWithValue sets every element of dst to v.
func FillWithValue[T any](dst []T, v T) {
	for i := range dst {
		dst[i] = v
	}
}

// FillWithSeq fills dst with initial, initial+inc, initial+2*inc, ...
func FillWithSeq[T Number](dst []T, initial, inc T) {
	curr := initial
	for i := range dst {
		dst[i] = curr
		curr += inc
	}
}

// FillWithSeqGen fills dst with initial followed by successive applications
// of next to the previous element.
//
//	// Collatz sequence starting at 5.
//	v := make([]uint32, 6)
//	fixture.FillWithSeqGen(v, 5, func(n uint32) uint32 {
//		if n%2 == 0 {
//			return n / 2
//		}
//		return 3*n + 1
//	})
//	// v == [5 16 8 4 2 1]
func FillWithSeqGen[T any](dst []T, initial T, next func(T) T) {
	curr := initial
	for i := range dst {
		dst[i] = curr
		curr = next(curr)
	}
}

// FillWithGenerator fills dst with values pulled from gen by next. next may
// mutate gen; it is called once per element, in order.
func FillWithGenerator[T, G any](dst []T, gen G, next func(G) T) {
	for i := range dst {
		dst[i] = next(gen)
	}
}

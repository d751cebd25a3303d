package fixture

import "math/bits"

// ByteStream is a [Source] that reads bytes sequentially from a slice.
//
// When the stream is exhausted all reads return zero bytes, so the same
// input always produces the same sequence of values. Used to let a fuzzer's
// input drive a [Generator].
type ByteStream struct {
	bytes []byte
	pos   int
}

var _ Source = (*ByteStream)(nil)

// NewByteStream creates a stream over b. b is not copied.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// Read fills p, padding with zeros once exhausted. It never fails.
func (s *ByteStream) Read(p []byte) (int, error) {
	n := copy(p, s.bytes[min(s.pos, len(s.bytes)):])
	s.pos += n

	clear(p[n:])

	return len(p), nil
}

// Uint64n reads just enough bytes to cover n and reduces them modulo n.
//
// The result is slightly biased for n that are not powers of two; fuzzing
// cares about determinism, not uniformity.
func (s *ByteStream) Uint64n(n uint64) uint64 {
	if n <= 1 {
		return 0
	}

	width := (bits.Len64(n-1) + 7) / 8

	var v uint64
	for i := range width {
		v |= uint64(s.NextByte()) << (8 * i)
	}

	return v % n
}

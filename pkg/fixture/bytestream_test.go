package fixture_test

import (
	"testing"

	"github.com/calvinalkan/testkit/pkg/fixture"
)

func Test_ByteStream_Pads_With_Zeros_When_Exhausted(t *testing.T) {
	t.Parallel()

	s := fixture.NewByteStream([]byte{1, 2})

	buf := []byte{9, 9, 9, 9}

	n, err := s.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("Read=(%d, %v), want (4, nil)", n, err)
	}

	if buf[0] != 1 || buf[1] != 2 || buf[2] != 0 || buf[3] != 0 {
		t.Errorf("buf=%v, want [1 2 0 0]", buf)
	}

	if s.HasMore() {
		t.Error("HasMore=true after exhausting stream")
	}

	if s.NextByte() != 0 {
		t.Error("NextByte after exhaustion should be 0")
	}
}

func Test_ByteStream_Reads_Only_Needed_Width_When_Drawing_Uint64n(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		n        uint64
		want     uint64
		consumed int
	}{
		{name: "One", n: 1, want: 0, consumed: 0},
		{name: "Zero", n: 0, want: 0, consumed: 0},
		{name: "Byte", n: 256, want: 0x01, consumed: 1},
		{name: "ByteModulo", n: 7, want: 0x01 % 7, consumed: 1},
		{name: "TwoBytes", n: 257, want: 0x0201 % 257, consumed: 2},
		{name: "FourBytes", n: 1 << 32, want: 0x04030201, consumed: 4},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			s := fixture.NewByteStream([]byte{1, 2, 3, 4, 5, 6, 7, 8})

			got := s.Uint64n(testCase.n)
			if got != testCase.want {
				t.Errorf("Uint64n(%d)=%d, want %d", testCase.n, got, testCase.want)
			}

			// Stream bytes are 1..8, so the next byte tells how many were read.
			if next := int(s.NextByte()); next != testCase.consumed+1 {
				t.Errorf("consumed %d bytes, want %d", next-1, testCase.consumed)
			}
		})
	}
}

func FuzzFromBytes_Stays_In_Bounds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add([]byte("seed corpus"))

	f.Fuzz(func(t *testing.T, data []byte) {
		gen := fixture.FromBytes(t, data)

		// Every round draws at least one byte while input remains.
		for round := 0; round <= len(data); round++ {
			if n := len(gen.Bytes(2, 9)); n < 2 || n > 9 {
				t.Fatalf("len=%d outside [2, 9]", n)
			}

			if v := gen.Int64(-50, 50); v < -50 || v > 50 {
				t.Fatalf("v=%d outside [-50, 50]", v)
			}

			if n := len(gen.String(0, 4)); n > 4 {
				t.Fatalf("len=%d above 4", n)
			}

			if gen.Exhausted() {
				return
			}
		}

		t.Fatalf("input of %d bytes not exhausted after %d rounds", len(data), len(data)+1)
	})
}

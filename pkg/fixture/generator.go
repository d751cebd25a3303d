package fixture

import (
	"encoding/binary"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/calvinalkan/testkit/internal/failfast"
)

// TB is the test handle generators report failures to.
type TB = failfast.TB

// Failure classes. Match with errors.Is on the error passed to TB.Fatal.
var (
	ErrInvalidBounds       = failfast.ErrInvalidBounds
	ErrSizeCeilingExceeded = failfast.ErrSizeCeilingExceeded
)

// Generator produces values from one entropy stream.
//
// Successive calls advance the stream, so a seeded Generator reproduces the
// same sequence of values in call order. A Generator is not safe for
// concurrent use.
type Generator struct {
	tb      TB
	src     Source
	seed    Seed
	maxLen  int
	charset []rune
	// charsetOK is false for an empty or invalid charset; String fails then.
	charsetOK bool
	charsetIn string
	// runeWidth is the widest UTF-8 encoding in charset.
	runeWidth int
}

// New returns a generator session bound to tb.
//
// Without [WithSeed] or [WithSource] a fresh seed is drawn. When the test
// fails, the seed is logged so the session can be replayed.
func New(tb TB, opts ...Option) *Generator {
	tb.Helper()

	o := buildOptions(opts)
	g := newGenerator(tb, o)

	if o.source == nil {
		g.reportSeedOnFailure(o)
	}

	return g
}

// FromBytes returns a generator that reads its entropy sequentially from
// data. Once data is exhausted every draw sees zero bytes. Intended for fuzz
// targets, where the fuzzer's input should drive the generated values.
func FromBytes(tb TB, data []byte, opts ...Option) *Generator {
	tb.Helper()

	o := buildOptions(opts)
	o.source = NewByteStream(data)

	return newGenerator(tb, o)
}

func newGenerator(tb TB, o options) *Generator {
	tb.Helper()

	if o.maxLen < 0 {
		failfast.Failf(tb, ErrInvalidBounds, "negative max length ceiling %d", o.maxLen)
	}

	g := &Generator{
		tb:        tb,
		maxLen:    o.maxLen,
		charsetIn: o.charset,
	}

	switch {
	case o.source != nil:
		g.src = o.source
		g.seed = o.seed
	case o.hasSeed:
		g.src = NewSource(o.seed)
		g.seed = o.seed
	default:
		g.seed = drawSeed()
		g.src = NewSource(g.seed)
	}

	if o.charset != "" && utf8.ValidString(o.charset) {
		g.charset = []rune(o.charset)
		g.charsetOK = true

		for _, r := range g.charset {
			g.runeWidth = max(g.runeWidth, utf8.RuneLen(r))
		}
	}

	return g
}

func (g *Generator) reportSeedOnFailure(o options) {
	tb := g.tb
	explicit := o.hasSeed

	tb.Cleanup(func() {
		if !tb.Failed() {
			return
		}

		logger := zerolog.New(zerolog.NewTestWriter(tb))
		if o.logger != nil {
			logger = *o.logger
		}

		logger.Warn().
			Int64("seed", int64(g.seed)).
			Bool("explicit", explicit).
			Msg("test failed; replay fixtures with fixture.WithSeed")
	})
}

// Seed returns the seed in effect. It is zero for generators built on a
// caller-supplied [Source] without [WithSeed].
func (g *Generator) Seed() Seed {
	return g.seed
}

// Exhausted reports whether a [FromBytes] generator has consumed all of its
// input. Fuzz targets loop until it returns true. It is always false for
// other sources.
func (g *Generator) Exhausted() bool {
	s, ok := g.src.(*ByteStream)

	return ok && !s.HasMore()
}

// Bytes returns a buffer of uniformly random bytes whose length is uniform in
// [minLen, maxLen].
func (g *Generator) Bytes(minLen, maxLen int) []byte {
	g.tb.Helper()

	n := g.length(minLen, maxLen, 1)
	out := make([]byte, n)
	g.fill(out)

	return out
}

// String returns a string of [minLen, maxLen] characters drawn uniformly from
// the generator's charset. The size ceiling applies to the encoded size, so
// maxLen times the widest character in the charset must fit under it.
func (g *Generator) String(minLen, maxLen int) string {
	g.tb.Helper()

	if !g.charsetOK {
		failfast.Failf(g.tb, ErrInvalidBounds, "charset %q must be non-empty valid UTF-8", g.charsetIn)
	}

	n := g.length(minLen, maxLen, g.runeWidth)

	var sb strings.Builder

	sb.Grow(n)

	for range n {
		sb.WriteRune(g.charset[g.src.Uint64n(uint64(len(g.charset)))])
	}

	return sb.String()
}

// Int64 returns a value uniform in [minVal, maxVal].
func (g *Generator) Int64(minVal, maxVal int64) int64 {
	g.tb.Helper()

	if minVal > maxVal {
		failfast.Failf(g.tb, ErrInvalidBounds, "min %d > max %d", minVal, maxVal)
	}

	span := uint64(maxVal) - uint64(minVal)
	if span == math.MaxUint64 {
		return int64(g.rawUint64())
	}

	return minVal + int64(g.src.Uint64n(span+1))
}

// Int returns a value uniform in [minVal, maxVal].
func (g *Generator) Int(minVal, maxVal int) int {
	g.tb.Helper()

	return int(g.Int64(int64(minVal), int64(maxVal)))
}

// Bool returns a fair coin flip.
func (g *Generator) Bool() bool {
	return g.src.Uint64n(2) == 1
}

// Read fills p from the generator stream. It never fails.
func (g *Generator) Read(p []byte) (int, error) {
	g.tb.Helper()
	g.fill(p)

	return len(p), nil
}

// length draws from [minLen, maxLen] after checking that maxLen units of
// width bytes each fit under the ceiling.
func (g *Generator) length(minLen, maxLen, width int) int {
	g.tb.Helper()

	if minLen < 0 {
		failfast.Failf(g.tb, ErrInvalidBounds, "negative min length %d", minLen)
	}

	if minLen > maxLen {
		failfast.Failf(g.tb, ErrInvalidBounds, "min length %d > max length %d", minLen, maxLen)
	}

	if maxLen > g.maxLen/width {
		failfast.Failf(g.tb, ErrSizeCeilingExceeded, "max length %d (%s) above ceiling %d (%s)",
			maxLen, humanize.IBytes(uint64(maxLen)*uint64(width)), g.maxLen, humanize.IBytes(uint64(g.maxLen)))
	}

	return minLen + int(g.src.Uint64n(uint64(maxLen-minLen)+1))
}

func (g *Generator) rawUint64() uint64 {
	var raw [8]byte
	g.fill(raw[:])

	return binary.LittleEndian.Uint64(raw[:])
}

func (g *Generator) fill(p []byte) {
	g.tb.Helper()

	_, err := io.ReadFull(g.src, p)
	if err != nil {
		failfast.Fail(g.tb, err)
	}
}

// Bytes is [Generator.Bytes] on a generator built for this call only.
func Bytes(tb TB, minLen, maxLen int, opts ...Option) []byte {
	tb.Helper()

	return newGenerator(tb, buildOptions(opts)).Bytes(minLen, maxLen)
}

// String is [Generator.String] on a generator built for this call only.
func String(tb TB, minLen, maxLen int, opts ...Option) string {
	tb.Helper()

	return newGenerator(tb, buildOptions(opts)).String(minLen, maxLen)
}

// Int64 is [Generator.Int64] on a generator built for this call only.
func Int64(tb TB, minVal, maxVal int64, opts ...Option) int64 {
	tb.Helper()

	return newGenerator(tb, buildOptions(opts)).Int64(minVal, maxVal)
}

// Int is [Generator.Int] on a generator built for this call only.
func Int(tb TB, minVal, maxVal int, opts ...Option) int {
	tb.Helper()

	return newGenerator(tb, buildOptions(opts)).Int(minVal, maxVal)
}

// Bool is [Generator.Bool] on a generator built for this call only.
func Bool(tb TB, opts ...Option) bool {
	tb.Helper()

	return newGenerator(tb, buildOptions(opts)).Bool()
}

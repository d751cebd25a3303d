package fixture

import "github.com/rs/zerolog"

// DefaultMaxLen is the largest length a generator produces unless
// [WithMaxLen] says otherwise (64 MiB).
const DefaultMaxLen = 64 << 20

// Option configures a [Generator].
type Option func(*options)

type options struct {
	seed    Seed
	hasSeed bool
	source  Source
	charset string
	maxLen  int
	logger  *zerolog.Logger
}

func defaultOptions() options {
	return options{
		charset: PrintableASCII,
		maxLen:  DefaultMaxLen,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithSeed makes the generator deterministic.
func WithSeed(seed Seed) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithSource draws entropy from src instead of a seeded ChaCha stream.
// It takes precedence over [WithSeed].
func WithSource(src Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithCharset sets the characters [Generator.String] draws from.
// The charset must be non-empty valid UTF-8.
func WithCharset(charset string) Option {
	return func(o *options) {
		o.charset = charset
	}
}

// WithMaxLen sets the safety ceiling, in bytes, for generated buffers and
// strings. A string of n characters counts as n times the widest character
// of the charset.
func WithMaxLen(n int) Option {
	return func(o *options) {
		o.maxLen = n
	}
}

// WithLogger sets where the seed of a failed test is reported.
// Defaults to a zerolog logger writing to the test log.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

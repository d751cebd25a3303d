package cli

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/testkit/internal/failfast"
	"github.com/calvinalkan/testkit/pkg/fixture"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130

	defaultMaxLength = 32
)

type globalFlags struct {
	workDir     string
	configPath  string
	overrides   Config
	verbose     bool
	printConfig bool
	help        bool
	remaining   []string
}

// Run is the main entry point. Returns exit code.
//
// A value on sigCh stops generation before the next value is produced.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, sigCh <-chan os.Signal) int {
	flags, err := parseGlobalFlags(args[min(1, len(args)):])
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return exitError
	}

	if flags.help {
		printUsage(out)

		return exitOK
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return exitError
		}
	}

	cfg, sources, err := LoadConfig(workDir, flags.configPath, flags.overrides)
	if err != nil {
		fprintln(errOut, "error:", err)

		return exitError
	}

	logger := newLogger(errOut, flags.verbose)
	logger.Debug().
		Str("project", sources.Project).
		Str("explicit", sources.Explicit).
		Msg("config loaded")

	if flags.printConfig {
		formatted, formatErr := FormatConfig(cfg)
		if formatErr != nil {
			fprintln(errOut, "error:", formatErr)

			return exitError
		}

		fprintln(out, formatted)

		return exitOK
	}

	spec, err := parseValueSpec(flags.remaining)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return exitError
	}

	w := bufio.NewWriter(out)

	genErr := generate(w, logger, cfg, spec, sigCh)

	flushErr := w.Flush()
	if genErr == nil {
		genErr = flushErr
	}

	if genErr != nil {
		fprintln(errOut, "error:", genErr)

		if errors.Is(genErr, ErrInterrupted) {
			return exitInterrupted
		}

		return exitError
	}

	return exitOK
}

func newLogger(errOut io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:          errOut,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}

	return zerolog.New(console).Level(level)
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	flagSet := flag.NewFlagSet("fixgen", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	// Everything after the kind is positional, so negative bounds parse.
	flagSet.SetInterspersed(false)

	seed := flagSet.Int64("seed", 0, "Seed for a reproducible sequence")
	flagSet.IntVarP(&flags.overrides.Count, "count", "n", 0, "Number of values to generate")
	flagSet.StringVar(&flags.overrides.Charset, "charset", "", "Charset name (printable, lowercase, digits, alphanumeric, hex) or literal characters")
	flagSet.StringVar(&flags.overrides.MaxLen, "max-len", "", "Length ceiling, e.g. 64MiB")
	flagSet.StringVar(&flags.overrides.Encoding, "encoding", "", "Byte encoding: hex or base64")
	flagSet.StringVarP(&flags.configPath, "config", "c", "", "Config file (JSONC)")
	flagSet.StringVarP(&flags.workDir, "dir", "C", "", "Run as if started in `dir`")
	flagSet.BoolVarP(&flags.verbose, "verbose", "v", false, "Log the seed and a summary to stderr")
	flagSet.BoolVar(&flags.printConfig, "print-config", false, "Print the resolved config and exit")
	flagSet.BoolVarP(&flags.help, "help", "h", false, "Show help")

	err := flagSet.Parse(args)
	if err != nil {
		return globalFlags{}, err
	}

	if flagSet.Changed("seed") {
		flags.overrides.Seed = seed
	}

	if flagSet.Changed("charset") && flags.overrides.Charset == "" {
		return globalFlags{}, ErrEmptyCharset
	}

	if flagSet.Changed("count") && flags.overrides.Count <= 0 {
		return globalFlags{}, fmt.Errorf("%w: %d", ErrBadCount, flags.overrides.Count)
	}

	flags.remaining = flagSet.Args()

	return flags, nil
}

// parseValueSpec parses "<kind> [MIN MAX]".
func parseValueSpec(args []string) (fixture.ValueSpec, error) {
	if len(args) == 0 {
		return fixture.ValueSpec{}, ErrKindRequired
	}

	kind, err := fixture.ParseKind(args[0])
	if err != nil {
		return fixture.ValueSpec{}, err
	}

	spec := fixture.ValueSpec{Kind: kind, Bounds: defaultBounds(kind)}

	switch len(args) {
	case 1:
		return spec, nil
	case 3:
		if kind == fixture.KindBool {
			return fixture.ValueSpec{}, fmt.Errorf("%w: bool takes no bounds", ErrBadBounds)
		}

		lo, loErr := strconv.ParseInt(args[1], 10, 64)
		hi, hiErr := strconv.ParseInt(args[2], 10, 64)

		if loErr != nil || hiErr != nil {
			return fixture.ValueSpec{}, fmt.Errorf("%w: %w", ErrBadBounds, errors.Join(loErr, hiErr))
		}

		spec.Bounds = fixture.Bounds{Min: lo, Max: hi}

		return spec, nil
	default:
		return fixture.ValueSpec{}, fmt.Errorf("%w: got %d arguments", ErrBadBounds, len(args)-1)
	}
}

func defaultBounds(kind fixture.Kind) fixture.Bounds {
	switch kind {
	case fixture.KindInt:
		return fixture.Bounds{Min: math.MinInt64, Max: math.MaxInt64}
	case fixture.KindBool:
		return fixture.Bounds{Min: 0, Max: 1}
	default:
		return fixture.Bounds{Min: 0, Max: defaultMaxLength}
	}
}

func generate(w io.Writer, logger zerolog.Logger, cfg Config, spec fixture.ValueSpec, sigCh <-chan os.Signal) error {
	maxLen, err := cfg.maxLenBytes()
	if err != nil {
		return err
	}

	opts := []fixture.Option{
		fixture.WithCharset(cfg.charset()),
		fixture.WithMaxLen(maxLen),
		fixture.WithLogger(logger),
	}

	if cfg.Seed != nil {
		opts = append(opts, fixture.WithSeed(fixture.Seed(*cfg.Seed)))
	}

	tb := newRunTB(logger)

	return tb.run(func(tb failfast.TB) {
		gen := fixture.New(tb, opts...)

		logger.Debug().Int64("seed", int64(gen.Seed())).Msg("session started")

		var total uint64

		for i := range cfg.Count {
			select {
			case <-sigCh:
				failfast.Fail(tb, fmt.Errorf("%w after %d of %d values", ErrInterrupted, i, cfg.Count))
			default:
			}

			value := gen.Generate(spec)
			line := formatValue(value, cfg.Encoding)
			total += uint64(len(line))

			if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
				failfast.Fail(tb, fmt.Errorf("write output: %w", writeErr))
			}
		}

		logger.Info().
			Int64("seed", int64(gen.Seed())).
			Str("kind", spec.Kind.String()).
			Int("count", cfg.Count).
			Str("output", humanize.IBytes(total)).
			Msg("generated")
	})
}

func formatValue(v fixture.Value, encoding string) string {
	switch v.Kind() {
	case fixture.KindBytes:
		if encoding == encodingBase64 {
			return base64.StdEncoding.EncodeToString(v.Bytes())
		}

		return hex.EncodeToString(v.Bytes())
	case fixture.KindString:
		return v.Text()
	case fixture.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case fixture.KindBool:
		return strconv.FormatBool(v.Bool())
	default:
		return v.String()
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `Usage: fixgen [flags] <bytes|string|int|bool> [MIN MAX]

Print random test fixtures, one per line. For bytes and string, MIN and MAX
bound the length (default 0..32); for int they bound the value (default:
full int64 range). Pass --seed to reproduce a sequence.

Flags:
      --seed int          Seed for a reproducible sequence
  -n, --count int         Number of values to generate (default 1)
      --charset string    printable, lowercase, digits, alphanumeric, hex, or literal characters
      --max-len string    Length ceiling, e.g. 64MiB (default 64 MiB)
      --encoding string   Byte encoding: hex or base64 (default hex)
  -c, --config string     Config file (JSONC)
  -C, --dir dir           Run as if started in dir
  -v, --verbose           Log the seed and a summary to stderr
      --print-config      Print the resolved config and exit
  -h, --help              Show help

Config files (.fixgen.json in the working directory, then --config) accept
the keys seed, charset, max_len, count and encoding.`)
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/testkit/pkg/fixture"
)

// Config holds all configuration options.
type Config struct {
	Seed     *int64 `json:"seed,omitempty"`
	Charset  string `json:"charset,omitempty"`
	MaxLen   string `json:"max_len,omitempty"` //nolint:tagliatelle // snake_case for config file
	Count    int    `json:"count,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Project  string // Path to .fixgen.json if loaded, empty otherwise
	Explicit string // Path given via --config, empty otherwise
}

// ConfigFileName is the default config file name.
const ConfigFileName = ".fixgen.json"

const (
	encodingHex    = "hex"
	encodingBase64 = "base64"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Charset:  "printable",
		MaxLen:   humanize.IBytes(fixture.DefaultMaxLen),
		Count:    1,
		Encoding: encodingHex,
	}
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Project config file in workDir (.fixgen.json, if exists)
// 3. Explicit config file via configPath (if non-empty)
// 4. CLI overrides.
func LoadConfig(workDir, configPath string, overrides Config) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	projectPath := filepath.Join(workDir, ConfigFileName)

	projectCfg, loaded, err := loadConfigFile(projectPath, false)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	if loaded {
		sources.Project = projectPath
		cfg = mergeConfig(cfg, projectCfg)
	}

	if configPath != "" {
		explicitPath := configPath
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(workDir, explicitPath)
		}

		explicitCfg, _, err := loadConfigFile(explicitPath, true)
		if err != nil {
			return Config{}, ConfigSources{}, err
		}

		sources.Explicit = explicitPath
		cfg = mergeConfig(cfg, explicitCfg)
	}

	cfg = mergeConfig(cfg, overrides)

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, ConfigSources{}, validateErr
	}

	return cfg, sources, nil
}

// loadConfigFile loads a config file. If mustExist is false, a missing file
// returns a zero config and loaded=false.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}

			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var raw map[string]json.RawMessage

	unmarshalErr := json.Unmarshal(standardized, &raw)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	if v, ok := raw["charset"]; ok && string(v) == `""` {
		return Config{}, ErrEmptyCharset
	}

	var cfg Config

	unmarshalErr = json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Seed != nil {
		seed := *overlay.Seed
		base.Seed = &seed
	}

	if overlay.Charset != "" {
		base.Charset = overlay.Charset
	}

	if overlay.MaxLen != "" {
		base.MaxLen = overlay.MaxLen
	}

	if overlay.Count != 0 {
		base.Count = overlay.Count
	}

	if overlay.Encoding != "" {
		base.Encoding = overlay.Encoding
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrBadCount, cfg.Count)
	}

	if cfg.Encoding != encodingHex && cfg.Encoding != encodingBase64 {
		return fmt.Errorf("%w: %q", ErrBadEncoding, cfg.Encoding)
	}

	if _, err := cfg.maxLenBytes(); err != nil {
		return err
	}

	return nil
}

// maxLenBytes parses MaxLen as a human-readable size ("64MiB", "4096").
func (c Config) maxLenBytes() (int, error) {
	n, err := humanize.ParseBytes(c.MaxLen)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrBadMaxLen, c.MaxLen, err)
	}

	if n > uint64(maxInt) {
		return 0, fmt.Errorf("%w %q: too large", ErrBadMaxLen, c.MaxLen)
	}

	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)

// charsetNames maps the names accepted for charset to fixture charsets.
// Anything else is used as a literal set of characters.
var charsetNames = map[string]string{
	"printable":    fixture.PrintableASCII,
	"lowercase":    fixture.Lowercase,
	"digits":       fixture.Digits,
	"alphanumeric": fixture.Alphanumeric,
	"hex":          fixture.Hex,
}

func (c Config) charset() string {
	if named, ok := charsetNames[c.Charset]; ok {
		return named
	}

	return c.Charset
}

// FormatConfig returns the config as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}

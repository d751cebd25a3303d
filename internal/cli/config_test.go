package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Test helpers.

func runFixgen(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()

	var out, errOut bytes.Buffer

	fullArgs := append([]string{"fixgen", "-C", dir}, args...)
	exitCode := Run(nil, &out, &errOut, fullArgs, nil)

	return out.String(), errOut.String(), exitCode
}

func assertExitCode(t *testing.T, got, want int, stderr string) {
	t.Helper()

	if got != want {
		t.Errorf("exit code = %d, want %d\nstderr: %s", got, want, stderr)
	}
}

func assertStdoutEmpty(t *testing.T, stdout string) {
	t.Helper()

	if stdout != "" {
		t.Errorf("stdout should be empty, got: %q", stdout)
	}
}

func assertStderrEmpty(t *testing.T, stderr string) {
	t.Helper()

	if stderr != "" {
		t.Errorf("stderr should be empty, got: %q", stderr)
	}
}

func assertStdoutContains(t *testing.T, stdout, substr string) {
	t.Helper()

	if !strings.Contains(stdout, substr) {
		t.Errorf("stdout should contain %q, got: %q", substr, stdout)
	}
}

func assertStderrContains(t *testing.T, stderr, substr string) {
	t.Helper()

	if !strings.Contains(stderr, substr) {
		t.Errorf("stderr should contain %q, got: %q", substr, stderr)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Tests for --print-config.

func TestPrintConfig_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	stdout, stderr, code := runFixgen(t, dir, "--print-config")

	assertExitCode(t, code, 0, stderr)
	assertStderrEmpty(t, stderr)
	assertStdoutContains(t, stdout, `"charset": "printable"`)
	assertStdoutContains(t, stdout, `"max_len": "64 MiB"`)
	assertStdoutContains(t, stdout, `"count": 1`)
	assertStdoutContains(t, stdout, `"encoding": "hex"`)

	if strings.Contains(stdout, `"seed"`) {
		t.Errorf("unset seed should be omitted, got: %q", stdout)
	}
}

func TestPrintConfig_FromConfigFileWithComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{
		// replay of a failing run
		"seed": 42,
		"encoding": "base64",
	}`)

	stdout, stderr, code := runFixgen(t, dir, "--print-config")

	assertExitCode(t, code, 0, stderr)
	assertStdoutContains(t, stdout, `"seed": 42`)
	assertStdoutContains(t, stdout, `"encoding": "base64"`)
}

func TestPrintConfig_ExplicitConfigOverridesProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"count": 3, "charset": "digits"}`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"count": 5}`)

	stdout, stderr, code := runFixgen(t, dir, "-c", "custom.json", "--print-config")

	assertExitCode(t, code, 0, stderr)
	assertStdoutContains(t, stdout, `"count": 5`)
	assertStdoutContains(t, stdout, `"charset": "digits"`)
}

func TestPrintConfig_FlagsOverrideConfigFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"count": 3, "seed": 1}`)

	stdout, stderr, code := runFixgen(t, dir, "--count", "7", "--seed", "0", "--print-config")

	assertExitCode(t, code, 0, stderr)
	assertStdoutContains(t, stdout, `"count": 7`)
	assertStdoutContains(t, stdout, `"seed": 0`)
}

func TestConfig_ExplicitConfigNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	stdout, stderr, code := runFixgen(t, dir, "-c", "nonexistent.json", "bytes")

	assertExitCode(t, code, 1, stderr)
	assertStdoutEmpty(t, stdout)
	assertStderrContains(t, stderr, "config file not found")
}

func TestConfig_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "InvalidJSON", content: `{invalid json}`, want: "invalid config file"},
		{name: "EmptyCharset", content: `{"charset": ""}`, want: "charset cannot be empty"},
		{name: "BadEncoding", content: `{"encoding": "base32"}`, want: "encoding must be hex or base64"},
		{name: "BadMaxLen", content: `{"max_len": "lots"}`, want: "invalid max-len"},
		{name: "NegativeCount", content: `{"count": -2}`, want: "count must be positive"},
		{name: "WrongType", content: `{"seed": "abc"}`, want: "invalid JSON"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ConfigFileName), testCase.content)

			stdout, stderr, code := runFixgen(t, dir, "bytes")

			assertExitCode(t, code, 1, stderr)
			assertStdoutEmpty(t, stdout)
			assertStderrContains(t, stderr, testCase.want)
		})
	}
}

func TestLoadConfig_ReportsSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"max_len": "1KiB"}`)
	writeFile(t, filepath.Join(dir, "x.json"), `{}`)

	cfg, sources, err := LoadConfig(dir, "x.json", Config{})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got, want := sources.Project, filepath.Join(dir, ConfigFileName); got != want {
		t.Errorf("Project = %q, want %q", got, want)
	}

	if got, want := sources.Explicit, filepath.Join(dir, "x.json"); got != want {
		t.Errorf("Explicit = %q, want %q", got, want)
	}

	n, err := cfg.maxLenBytes()
	if err != nil || n != 1024 {
		t.Errorf("maxLenBytes = %d, %v, want 1024", n, err)
	}
}

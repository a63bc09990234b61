package main

import (
	"bytes"
	"errors"
	"github.com/Leantar/holdon/agent"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const mainArgsEnv = "HOLDON_TEST_MAIN_ARGS"

// TestMain runs the real main instead of the tests when the binary is re-executed by
// runMain. Arguments are passed newline separated.
func TestMain(m *testing.M) {
	if args, ok := os.LookupEnv(mainArgsEnv); ok {
		os.Args = []string{"holdon"}
		if args != "" {
			os.Args = append(os.Args, strings.Split(args, "\n")...)
		}
		main()
		os.Exit(0)
	}

	os.Exit(m.Run())
}

func runMain(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), mainArgsEnv+"="+strings.Join(args, "\n"))

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("run main: %v", err)
	}

	return code, out.String(), errOut.String()
}

func TestMainWithoutArgumentsPrintsUsage(t *testing.T) {
	code, stdout, stderr := runMain(t)

	if code != 1 {
		t.Fatalf("expected exit status 1, got %d", code)
	}
	if !strings.HasPrefix(stderr, "usage:\n    holdon <file1>") {
		t.Fatalf("expected usage on stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

func TestMainNothingToWatch(t *testing.T) {
	dir := t.TempDir()
	code, stdout, stderr := runMain(t, filepath.Join(dir, "missing"), dir)

	if code != 0 {
		t.Fatalf("expected exit status 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(stderr, "nothing to watch on...") {
		t.Fatalf("expected nothing-to-watch diagnostic, got %q", stderr)
	}
	if strings.Contains(stderr, "\x1b[") {
		t.Fatalf("expected uncolored output on a pipe, got %q", stderr)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

func TestMainNothingToWatchWithQuietConfig(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(conf, []byte("log_level: warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	code, _, stderr := runMain(t, "-config", conf, filepath.Join(dir, "missing"))
	if code != 0 {
		t.Fatalf("expected exit status 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(stderr, "nothing to watch on...") || !strings.Contains(stderr, "missing") {
		t.Fatalf("expected warning and diagnostic, got %q", stderr)
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, "holdon")

	if !strings.HasPrefix(buf.String(), "usage:\n    holdon <file1> [<file2>.. <fileN>]\n") {
		t.Fatalf("unexpected usage %q", buf.String())
	}
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	conf := agent.DefaultConfig()
	conf.LogLevel = "warn"
	conf.LogFormat = "json"

	if err := setupLogging(conf, &buf); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", zerolog.GlobalLevel())
	}

	log.Info().Msg("hidden")
	log.Warn().Str("path", "a").Msg("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"path":"a"`) {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestSetupLoggingRejectsUnknownValues(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	conf := agent.DefaultConfig()
	conf.LogLevel = "loud"
	if err := setupLogging(conf, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown level to be rejected")
	}

	conf = agent.DefaultConfig()
	conf.LogLevel = "error"
	if err := setupLogging(conf, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected a level hiding warnings to be rejected")
	}

	conf = agent.DefaultConfig()
	conf.LogFormat = "xml"
	if err := setupLogging(conf, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown format to be rejected")
	}
}

func TestSetupLoggingConsoleWithoutColorOffTerminal(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	if err := setupLogging(agent.DefaultConfig(), &buf); err != nil {
		t.Fatalf("setup: %v", err)
	}

	log.Warn().Msg("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no color codes, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WRN") {
		t.Fatalf("expected console level marker, got %q", buf.String())
	}
}

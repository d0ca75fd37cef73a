package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/tymodoro-logs")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/tymodoro-logs" {
		t.Errorf("got %q, want /tmp/tymodoro-logs", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(wd, "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv(EnvLogPath, "/tmp/tymodoro-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/tymodoro-env-log" {
		t.Errorf("got %q, want /tmp/tymodoro-env-log", got)
	}
}

func TestResolveDirFlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvLogPath, "/tmp/from-env")
	got, err := ResolveDir("/tmp/from-flag")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/from-flag" {
		t.Errorf("got %q", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv(EnvLogPath, "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "tymodoro") {
		t.Errorf("default dir %q should be app specific", got)
	}
}

func TestInitWritesDiagnostics(t *testing.T) {
	tmp := setupLogDir(t)

	var console bytes.Buffer
	logger, err := Init(&console, false)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info().Str("kind", "work").Msg("session_complete")
	logger.Debug().Msg("hidden")

	data, err := os.ReadFile(filepath.Join(tmp, diagnosticsFile))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "session_complete") || !strings.Contains(line, "kind=work") {
		t.Errorf("diagnostics missing entry: %q", line)
	}
	if strings.Contains(line, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(console.String(), "session_complete") {
		t.Errorf("console missing entry: %q", console.String())
	}
}

func TestInitDebugLevel(t *testing.T) {
	tmp := setupLogDir(t)

	logger, err := Init(nil, true)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug().Msg("verbose")

	data, err := os.ReadFile(filepath.Join(tmp, diagnosticsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "verbose") {
		t.Errorf("debug entry missing: %q", data)
	}
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if _, err := Init(nil, false); err != nil {
		t.Fatal(err)
	}
	Close()
	Close()
}

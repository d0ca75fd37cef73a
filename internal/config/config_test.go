package config

import (
	"io"
	"testing"
	"time"
)

var envVars = []string{
	"TYMODORO_HTTP_ADDR", "TYMODORO_POLL_INTERVAL", "TYMODORO_BROADCAST_INTERVAL",
	"TYMODORO_SAMPLE_RATE", "TYMODORO_LOG_PATH", "TYMODORO_DEBUG", "TYMODORO_HOTKEYS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != "" {
		t.Errorf("HTTPAddr = %q, want bridge disabled", cfg.HTTPAddr)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.BroadcastInterval != DefaultBroadcastInterval {
		t.Errorf("BroadcastInterval = %v", cfg.BroadcastInterval)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if cfg.Debug || cfg.TUI || !cfg.Hotkeys {
		t.Errorf("flags = %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TYMODORO_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("TYMODORO_POLL_INTERVAL", "250ms")
	t.Setenv("TYMODORO_SAMPLE_RATE", "44100")
	t.Setenv("TYMODORO_DEBUG", "true")
	t.Setenv("TYMODORO_HOTKEYS", "false")

	cfg, err := Load(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if !cfg.Debug || cfg.Hotkeys {
		t.Errorf("Debug = %v, Hotkeys = %v", cfg.Debug, cfg.Hotkeys)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TYMODORO_SAMPLE_RATE", "fast")
	t.Setenv("TYMODORO_POLL_INTERVAL", "soon")

	cfg, err := Load(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleRate != DefaultSampleRate || cfg.PollInterval != DefaultPollInterval {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TYMODORO_HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := Load([]string{"-http", "localhost:7000", "-tui", "-rate", "22050"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != "localhost:7000" || !cfg.TUI || cfg.SampleRate != 22050 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestExportDefaultsOutput(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-export", "storm"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != "storm.flac" {
		t.Errorf("Output = %q, want storm.flac", cfg.Output)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"zero poll", []string{"-poll", "0s"}},
		{"slow poll", []string{"-poll", "2s"}},
		{"negative broadcast", []string{"-broadcast", "-1s"}},
		{"low rate", []string{"-rate", "100"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, io.Discard); err == nil {
				t.Errorf("Load(%v) should fail", tt.args)
			}
		})
	}
}

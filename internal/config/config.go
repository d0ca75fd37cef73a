package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Defaults for runtime options.
const (
	DefaultHTTPAddr          = "127.0.0.1:7421"
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultBroadcastInterval = time.Second
	DefaultSampleRate        = 48000
)

// Config holds process-level options. User preferences live in storage.
type Config struct {
	HTTPAddr          string // empty disables the bridge
	PollInterval      time.Duration
	BroadcastInterval time.Duration
	SampleRate        int
	LogPath           string
	Debug             bool
	TUI               bool
	Hotkeys           bool

	// Export renders one loop of the named generator to Output and exits.
	Export string
	Output string
}

// Load parses args on top of TYMODORO_* environment defaults.
// Flags always win over the environment.
func Load(args []string, stderr io.Writer) (Config, error) {
	cfg := Config{
		HTTPAddr:          envStr("TYMODORO_HTTP_ADDR", ""),
		PollInterval:      envDuration("TYMODORO_POLL_INTERVAL", DefaultPollInterval),
		BroadcastInterval: envDuration("TYMODORO_BROADCAST_INTERVAL", DefaultBroadcastInterval),
		SampleRate:        envInt("TYMODORO_SAMPLE_RATE", DefaultSampleRate),
		LogPath:           envStr("TYMODORO_LOG_PATH", ""),
		Debug:             envBool("TYMODORO_DEBUG", false),
		Hotkeys:           envBool("TYMODORO_HOTKEYS", true),
	}

	fs := flag.NewFlagSet("tymodoro", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "serve the loopback sync bridge on addr (e.g. "+DefaultHTTPAddr+")")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "timer poll interval")
	fs.DurationVar(&cfg.BroadcastInterval, "broadcast", cfg.BroadcastInterval, "periodic surface rebroadcast interval")
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "audio sample rate in Hz")
	fs.StringVar(&cfg.LogPath, "logpath", cfg.LogPath, "log directory path (default: OS-specific location)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.BoolVar(&cfg.TUI, "tui", false, "run the terminal surface instead of the desktop widget")
	fs.BoolVar(&cfg.Hotkeys, "hotkeys", cfg.Hotkeys, "register global toggle/skip shortcuts")
	fs.StringVar(&cfg.Export, "export", "", "render one loop of a generator to FLAC and exit")
	fs.StringVar(&cfg.Output, "o", "", "output file for -export (default <generator>.flac)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.Export != "" && cfg.Output == "" {
		cfg.Output = cfg.Export + ".flac"
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the runtime cannot work with.
func (cfg Config) Validate() error {
	if cfg.PollInterval <= 0 || cfg.PollInterval > time.Second {
		return fmt.Errorf("poll interval %s out of range (0, 1s]", cfg.PollInterval)
	}
	if cfg.BroadcastInterval <= 0 {
		return fmt.Errorf("broadcast interval %s must be positive", cfg.BroadcastInterval)
	}
	if cfg.SampleRate < 8000 || cfg.SampleRate > 192000 {
		return fmt.Errorf("sample rate %d out of range [8000, 192000]", cfg.SampleRate)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

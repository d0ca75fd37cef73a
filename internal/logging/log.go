package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// EnvLogPath overrides the default log directory.
const EnvLogPath = "TYMODORO_LOG_PATH"

const diagnosticsFile = "diagnostics_log.txt"

var (
	mu       sync.Mutex
	diagFile *os.File
	dir      string
)

// ResolveDir picks the log directory: the -logpath flag first, then the
// environment, then the per-OS default. Relative paths resolve against the
// working directory.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absolute(flagPath)
	}
	if envPath := os.Getenv(EnvLogPath); envPath != "" {
		return absolute(envPath)
	}
	return defaultDir()
}

func absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

func SetDir(d string) {
	mu.Lock()
	dir = d
	mu.Unlock()
}

func Dir() string {
	mu.Lock()
	defer mu.Unlock()
	return dir
}

// Init opens the diagnostics file and returns a logger writing to it and to
// console. console may be nil. Calling Init again reopens the file.
func Init(console io.Writer, debug bool) (zerolog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
	}
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}

	file, err := os.OpenFile(filepath.Join(dir, diagnosticsFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), err
	}
	diagFile = file

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}}
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"})
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Int("pid", os.Getpid()).
		Logger()
	return logger, nil
}

// Close releases the diagnostics file. It is safe to call more than once.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
}

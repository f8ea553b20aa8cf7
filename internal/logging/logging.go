// Package logging configures the zerolog loggers used across cheztheme.
// Warnings go to stderr. With debug enabled the level drops to debug and
// every record is also written to ~/.cheztheme/debug.log, truncated on each
// launch.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// LogDirName is the directory under the user's home holding the log file.
	LogDirName = ".cheztheme"
)

var (
	mu      sync.RWMutex
	base    = zerolog.Nop()
	logFile *os.File

	// getLogPath is a function variable to allow overriding in tests.
	getLogPath = defaultGetLogPath
)

// Options controls Init.
type Options struct {
	// Debug lowers the level to debug and enables the log file.
	Debug bool
	// Console receives human-readable records. Defaults to os.Stderr.
	Console io.Writer
	// NoColor disables ANSI colors in console output.
	NoColor bool
}

// Init configures the process-wide base logger. Loggers obtained from
// Component before Init keep writing to the previous base.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:          console,
		NoColor:      opts.NoColor,
		TimeFormat:   time.Kitchen,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}}

	level := zerolog.WarnLevel
	if opts.Debug {
		level = zerolog.DebugLevel

		logPath, err := getLogPath()
		if err != nil {
			return fmt.Errorf("determine log path: %w", err)
		}
		//nolint:gosec // G301: User config directory needs standard permissions
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		//nolint:gosec // G304: Log path is computed from user home, not user input
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		writers = append(writers, f)
	}

	base = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	if opts.Debug {
		base.Debug().Str("started", time.Now().Format(time.RFC3339)).Msg("cheztheme debug log")
	}
	return nil
}

// Close closes the debug log file if open and resets the base logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	base = zerolog.Nop()
}

func closeLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Component returns a logger tagged with the component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", name).Logger()
}

// defaultGetLogPath returns the path to the debug log file.
func defaultGetLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}

// GetLogPath returns the path to the debug log file.
func GetLogPath() (string, error) {
	return getLogPath()
}

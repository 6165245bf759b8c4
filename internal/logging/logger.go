// Package logging wraps the process-wide logger. The deterministic pipeline
// packages never log; collaborators (embedding clients, report store, CLI)
// log through here.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the process-wide logger. Defaults to stderr at warn level
	// so library use stays quiet until a CLI opts in via Init.
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.WarnLevel,
	})

	logFile *os.File
)

// Init switches logging to a dated file under ~/.intentprint/logs at debug
// level. Used by the CLI; library callers never need it.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("logging: home directory: %w", err)
	}

	dir := filepath.Join(home, ".intentprint", "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("logging: create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("intentprint-%s.log", time.Now().Format("2006-01-02")))
	logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("logging: open log file: %w", err)
	}

	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	})
	return nil
}

// Close flushes and closes the log file if Init opened one.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Debug logs a debug message with key-value pairs.
func Debug(msg string, keyvals ...any) { Logger.Debug(msg, keyvals...) }

// Info logs an info message with key-value pairs.
func Info(msg string, keyvals ...any) { Logger.Info(msg, keyvals...) }

// Warn logs a warning with key-value pairs.
func Warn(msg string, keyvals ...any) { Logger.Warn(msg, keyvals...) }

// Error logs an error with key-value pairs.
func Error(msg string, keyvals ...any) { Logger.Error(msg, keyvals...) }

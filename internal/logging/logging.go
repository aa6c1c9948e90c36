// Package logging builds the charm loggers used across tuidesk.
//
// The desktop owns the terminal while it runs, so interactive sessions log
// to a file; the SSH server and CLI log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
)

// New returns a logger writing to w with the given prefix.
func New(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// ParseLevel parses a level name, falling back to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// OpenFile opens the configured log file (or the XDG state default) for
// appending and returns a logger on it. The returned closer releases the
// file.
func OpenFile(cfg config.LoggingConfig, debug bool) (*log.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		p, err := config.GetLogPath()
		if err != nil {
			return nil, nil, fmt.Errorf("could not determine log path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := New(f, config.AppName)
	logger.SetLevel(ParseLevel(cfg.Level))
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	return logger, f, nil
}

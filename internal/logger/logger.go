// Package logger provides the structured slog loggers used by the server
// and the CLI. All file logs are written in JSON format.
//
// Log files are organized as:
//
//	<logDir>/system.log    application-level events, rotated by size
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for system.log.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

// NewSystemLogger creates a JSON slog.Logger that writes to <logDir>/system.log
// and, when tee is non-nil, to tee as well. The directory is created if it
// does not exist. The returned closer flushes and closes the log file.
func NewSystemLogger(logDir string, level slog.Level, tee io.Writer) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "system.log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var w io.Writer = file
	if tee != nil {
		w = io.MultiWriter(file, tee)
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), file, nil
}

// NewConsoleLogger creates a text slog.Logger for short-lived CLI commands.
func NewConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

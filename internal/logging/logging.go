// Package logging wraps charmbracelet/log for corbat-mcp.
//
// All output goes to stderr (or an explicit writer). Stdout is reserved
// for the MCP stdio transport and must never receive log lines.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// AppLogger is the application-wide structured logger.
type AppLogger struct {
	logger *log.Logger
	level  log.Level
}

// Options configures a new AppLogger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Writer defaults to os.Stderr.
	Writer io.Writer
	// ReportCaller adds file:line to each entry (useful in development).
	ReportCaller bool
}

var (
	defaultLogger *AppLogger
	mu            sync.RWMutex
)

// GetDefault returns the process-wide logger, creating an info-level
// stderr logger on first use.
func GetDefault() *AppLogger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Options{})
	}
	return defaultLogger
}

// SetDefault replaces the process-wide logger. Called once by the
// composition root after configuration is loaded.
func SetDefault(l *AppLogger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Package-level convenience functions for quick logging.
func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

// ParseLevel maps a config string to a log level. Unknown values are
// rejected so misconfiguration surfaces at startup.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New creates an AppLogger. An invalid level falls back to info.
func New(opts Options) *AppLogger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    opts.ReportCaller,
		TimeFormat:      time.RFC3339,
		Prefix:          "corbat",
	})
	logger.SetLevel(level)

	return &AppLogger{logger: logger, level: level}
}

// Level returns the configured level.
func (al *AppLogger) Level() log.Level {
	return al.level
}

func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	al.logger.Debug(msg, keyvals...)
}

// With returns a child logger carrying the given key/value pairs.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{logger: al.logger.With(keyvals...), level: al.level}
}

// LogPerformance records how long an operation took (debug only).
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	al.logger.Debug("Performance",
		"operation", operation,
		"duration", time.Since(start),
	)
}

// NewTestLogger creates a debug-level logger that writes to a buffer.
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{logger: logger, level: log.DebugLevel}, &buf
}

// Discard returns a logger that drops everything. Handy for components
// constructed without a logger.
func Discard() *AppLogger {
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return &AppLogger{logger: logger, level: log.FatalLevel}
}

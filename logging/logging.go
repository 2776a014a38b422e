// Package logging wraps charmbracelet/log for the linter, the service and
// the cli.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// field names
const (
	FieldError    = "error"
	FieldURL      = "url"
	FieldPath     = "path"
	FieldRun      = "run"
	FieldFindings = "findings"
	FieldDuration = "duration"
	FieldSchedule = "schedule"
	FieldTargets  = "targets"
	FieldAddr     = "addr"
)

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
	defaultLoggerLock sync.RWMutex
)

// New creates a logger writing to stderr, see SetLevel for the level names
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "seolint",
	})
	setLoggerLevel(logger, level)
	return logger
}

// ParseLevel maps debug, info, warn(ing) and error to a level, anything
// else is info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}

func setLoggerLevel(logger *log.Logger, level string) {
	logger.SetLevel(ParseLevel(level))
}

// Default returns the package level logger
func Default() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerLock.Lock()
		if defaultLogger == nil {
			defaultLogger = New("info")
		}
		defaultLoggerLock.Unlock()
	})
	defaultLoggerLock.RLock()
	defer defaultLoggerLock.RUnlock()
	return defaultLogger
}

// SetDefault replaces the package level logger
func SetDefault(logger *log.Logger) {
	Default()
	defaultLoggerLock.Lock()
	defaultLogger = logger
	defaultLoggerLock.Unlock()
}

// SetLevel changes the level of the package level logger
func SetLevel(level string) {
	setLoggerLevel(Default(), level)
}

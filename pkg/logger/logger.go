// Package logger provides the process-wide log used by drivers and the executor.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	globalLogger = zerolog.Nop()
	logFile      *os.File
	out          io.Writer = io.Discard
	console      io.Writer
	mu           sync.Mutex
	verbose      bool
)

// Init initializes the global logger with the specified log file path.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	out = f
	globalLogger = newLogger()
	return nil
}

// InitWriter points the global logger at w instead of a file.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	globalLogger = newLogger()
}

// SetConsole also writes every message to w in zerolog's human-readable console
// format. A nil w turns the copy off.
func SetConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
	globalLogger = newLogger()
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := out
	if console != nil {
		w = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: console, NoColor: true, TimeFormat: "15:04:05"})
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables debug level messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()

	verbose = v
	if v {
		globalLogger = globalLogger.Level(zerolog.DebugLevel)
	} else {
		globalLogger = globalLogger.Level(zerolog.InfoLevel)
	}
}

// Close closes the log file and discards further messages.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	out = io.Discard
	globalLogger = zerolog.Nop()
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Info().Msgf(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Debug().Msgf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Error().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Warn().Msgf(format, v...)
}

// Step logs a flow step outcome with structured fields.
func Step(flowName string, idx int, desc, status string, err error) {
	mu.Lock()
	defer mu.Unlock()

	evt := globalLogger.Info()
	if err != nil {
		evt = globalLogger.Warn().Err(err)
	}
	evt.Str("flow", flowName).Int("step", idx).Str("status", status).Msg(desc)
}

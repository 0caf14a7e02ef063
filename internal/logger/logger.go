package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Logger defines the common logging interface used throughout the application.
// It provides a standardized way to emit log messages at different levels of importance,
// with a clear separation between the append-only log file and user-facing messages.
type Logger interface {
	// Log file methods

	// Debug logs a diagnostic message. It is written only when debug logging is enabled.
	//
	// The format string follows fmt.Printf style formatting.
	Debug(format string, args ...interface{})

	// Info logs an informational message to the log file.
	//
	// The format string follows fmt.Printf style formatting.
	Info(format string, args ...interface{})

	// Warning logs a warning message to the log file.
	// It is also shown to the user when verbose mode is enabled.
	//
	// The format string follows fmt.Printf style formatting.
	Warning(format string, args ...interface{})

	// Error logs an error message to the log file and always shows it on stderr.
	//
	// The format string follows fmt.Printf style formatting.
	Error(format string, args ...interface{})

	// User-facing methods (log file and stdout)

	// InfoToUser logs an informational message and shows it to the user in verbose mode.
	InfoToUser(format string, args ...interface{})

	// WarningToUser logs a warning message and always shows it to the user.
	WarningToUser(format string, args ...interface{})

	// Success logs a success message and shows it to the user in verbose mode.
	Success(format string, args ...interface{})

	// StatusMessage prints a status message to stdout only (no logging).
	StatusMessage(format string, args ...interface{})

	// Close releases any resources held by the logger.
	Close() error
}

// DefaultLogger writes timestamped lines to an append-only log file through
// slog and echoes user-facing messages to stdout/stderr.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	logFile string
	debug   bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new Logger instance writing to logFile
func New(logFile string, debug bool, verbose bool) Logger {
	return NewWithOutput(logFile, debug, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers.
// An empty logFile sends log records to stderr instead.
func NewWithOutput(logFile string, debug bool, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var sink io.Writer = stderr
	if logFile != "" {
		if logDir := filepath.Dir(logFile); logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				_, _ = fmt.Fprintf(stderr, "⚠️ Failed to create log directory: %v\n", err)
			}
		}
		sink = &appendFile{path: logFile, stderr: stderr}
	}

	return &DefaultLogger{
		logger:  slog.New(newLineHandler(sink, level)),
		logFile: logFile,
		debug:   debug,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// LogFile returns the path log records are appended to.
func (l *DefaultLogger) LogFile() string {
	return l.logFile
}

// Debug logs a diagnostic message (file only, debug mode only)
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.debug {
		return
	}

	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info(fmt.Sprintf(format, args...))
}

// InfoToUser logs an informational message to both file and stdout
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Info(msg)

	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "ℹ️  %s\n", msg)
	}
}

// Success logs a success message to both file and stdout
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Info(msg)

	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "✅ %s\n", msg)
	}
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Warn(msg)

	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "⚠️  %s\n", msg)
	}
}

// WarningToUser logs a warning message to both file and stdout
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Warn(msg)

	_, _ = fmt.Fprintf(l.stdout, "⚠️  %s\n", msg)
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.logger.Error(msg)

	// Always show errors to the user regardless of verbosity
	_, _ = fmt.Fprintf(l.stderr, "❌ %s\n", msg)
}

// StatusMessage prints a status message to stdout only (no logging)
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintln(l.stdout, fmt.Sprintf(format, args...))
}

// Close is a no-op: the log file is opened and closed on every write.
func (l *DefaultLogger) Close() error {
	return nil
}

// appendFile opens its path in append mode for every write so the log
// survives external truncation or removal between events. The first failed
// write of an outage is reported on stderr; slog drops handler errors.
type appendFile struct {
	path    string
	stderr  io.Writer
	failing bool
}

func (f *appendFile) Write(p []byte) (int, error) {
	n, err := f.write(p)
	switch {
	case err != nil && !f.failing:
		f.failing = true
		_, _ = fmt.Fprintf(f.stderr, "⚠️ Failed to write log file %s: %v\n", f.path, err)
	case err == nil && f.failing:
		f.failing = false
	}
	return n, err
}

func (f *appendFile) write(p []byte) (int, error) {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}

	n, err := fh.Write(p)
	if closeErr := fh.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return n, err
}

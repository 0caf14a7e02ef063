// Package logger provides logging facilities for the dirtrack application.
//
// Every event of a check cycle is appended to a log file as a single
// timestamped line. The file is opened in append mode for each write and
// its parent directories are created on demand, so the log can be rotated
// or removed externally while a daemon is running.
//
// # Core Components
//
// - Logger: The interface injected into every component that logs
// - DefaultLogger: Standard implementation backed by log/slog
//
// # Line Format
//
//	[2026-10-18T09:30:00.123456+02:00] INFO No changes detected in /srv/notes
//	[2026-10-18T10:00:00.654321+02:00] WARN CMD: git push (exit 1)
//	    fatal: unable to access remote
//
// Continuation lines of multi-line messages (typically captured command
// output) are indented by four spaces.
//
// # Log Levels
//
// - Debug: Diagnostics, written only when debug logging is enabled
// - Info: Log file only
// - InfoToUser, Success: Log file, and stdout unless quiet
// - Warning: Log file, and stdout unless quiet
// - WarningToUser: Log file and stdout
// - Error: Log file and stderr
// - StatusMessage: stdout only
//
// # Thread Safety
//
// The DefaultLogger implementation is safe for concurrent use by multiple
// goroutines.
package logger

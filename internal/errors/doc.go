// Package errors provides error handling utilities for the dirtrack application.
//
// It defines the sentinel errors the CLI uses to decide exit behavior, and
// typed errors carrying the context of a failure: which external command
// failed and what it printed (CommandError), which lock file could not be
// taken (LockError), and which configuration parameter was rejected
// (ConfigError).
//
// # Usage
//
// Basic error wrapping:
//
//	if err != nil {
//	    return errors.Wrap(err, "failed to save state")
//	}
//
// Matching a sentinel through wrapping layers:
//
//	if errors.Is(err, errors.ErrWatchDirMissing) {
//	    // fatal at startup
//	}
//
// # Compatibility
//
// The package uses standard error wrapping conventions, so errors can be
// unwrapped and inspected with the standard library errors.Is and errors.As.
package errors

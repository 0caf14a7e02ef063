// Package lock keeps a second dirtrack instance away from a state file that
// is already in use.
//
// Two trackers writing the same state file would each overwrite the other's
// snapshot and report phantom changes, so the CLI takes an advisory lock
// before running any cycle.
//
// # Lock Files
//
// Lock files live in the system temporary directory, named after a hash of
// the state file's absolute path:
//
//	/tmp/dirtrack-<hash>.lock
//
// The file holds the owner's PID and an exclusive flock(2). A lock whose
// owner has exited (no flock, or a flock naming a dead PID) is taken over.
//
// # Usage
//
//	locker, err := lock.New("/var/lib/dirtrack/notes.json")
//	if err != nil {
//	    // unsupported platform
//	}
//	if err := locker.Acquire(); err != nil {
//	    // errors.Is(err, errors.ErrAlreadyRunning) means another instance is live
//	}
//	defer locker.Release()
//
// # System Requirements
//
// Unix-like systems only; the package relies on flock(2) and signal 0 for
// process liveness checks.
package lock

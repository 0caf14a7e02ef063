package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/bashhack/dirtrack/internal/errors"
)

// Locker prevents two dirtrack instances from sharing a state file
type Locker struct {
	lockFile string
	lockFd   *os.File
	pid      int
}

// New creates a Locker for the given state file. The lock lives in the
// system temporary directory under a name derived from the state file's
// absolute path.
func New(statePath string) (*Locker, error) {
	return newInDir(statePath, os.TempDir())
}

func newInDir(statePath string, dir string) (*Locker, error) {
	if runtime.GOOS == "windows" {
		return nil, errors.NewLockError("", 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure,
				"dirtrack only supports Unix-like operating systems (Linux, macOS, BSD)"))
	}

	absPath, err := filepath.Abs(statePath)
	if err != nil {
		return nil, errors.NewLockError("", 0,
			errors.Wrapf(errors.ErrLockAcquisitionFailure, "cannot resolve state file path: %v", err))
	}

	stateHash := fmt.Sprintf("%x", sha256.Sum256([]byte(absPath)))[:16]

	return &Locker{
		lockFile: filepath.Join(dir, fmt.Sprintf("dirtrack-%s.lock", stateHash)),
		pid:      os.Getpid(),
	}, nil
}

// Path returns the lock file location.
func (l *Locker) Path() string {
	return l.lockFile
}

// Acquire takes the lock. If a live process holds it the returned
// *errors.LockError wraps errors.ErrAlreadyRunning; a lock left behind by a
// dead process is removed and taken over.
func (l *Locker) Acquire() error {
	if l.lockFd != nil {
		return nil
	}

	err := l.tryCreateLock()
	if err == nil {
		return nil
	}
	if os.IsExist(err) {
		return l.tryAcquireExistingLock()
	}
	return err
}

// tryCreateLock atomically creates a new lock file and locks it
func (l *Locker) tryCreateLock() error {
	var err error

	l.lockFd, err = os.OpenFile(l.lockFile, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return err
		}
		l.lockFd = nil
		return errors.NewLockError(l.lockFile, 0,
			errors.Wrapf(errors.ErrLockAcquisitionFailure, "failed to create lock file: %v", err))
	}

	if err = l.acquireFlock(); err != nil {
		l.closeFileDescriptor()
		return errors.NewLockError(l.lockFile, 0,
			errors.Wrapf(errors.ErrLockAcquisitionFailure, "failed to lock new lock file: %v", err))
	}

	return l.writePid()
}

// tryAcquireExistingLock locks a lock file left on disk
func (l *Locker) tryAcquireExistingLock() error {
	var err error

	l.lockFd, err = os.OpenFile(l.lockFile, os.O_RDWR, 0o644)
	if err != nil {
		l.lockFd = nil
		return errors.NewLockError(l.lockFile, 0,
			errors.Wrapf(errors.ErrLockAcquisitionFailure, "failed to open existing lock file: %v", err))
	}

	if err = l.acquireFlock(); err != nil {
		l.closeFileDescriptor()

		// Older Unix systems report a held flock as EWOULDBLOCK rather than EAGAIN.
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			return l.handleBlockedLock()
		}
		return errors.NewLockError(l.lockFile, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, err.Error()))
	}

	// The previous owner exited without removing its file; the flock is ours.
	return l.writePid()
}

// handleBlockedLock decides whether a held lock belongs to a live process
func (l *Locker) handleBlockedLock() error {
	otherPid, err := l.readLockFilePid()
	if err != nil {
		return errors.NewLockError(l.lockFile, 0,
			errors.Wrapf(errors.ErrAlreadyRunning, "owner unknown: %v", err))
	}

	if isProcessRunning(otherPid) {
		return errors.NewLockError(l.lockFile, otherPid, errors.ErrAlreadyRunning)
	}

	return l.handleStaleLock(otherPid)
}

// handleStaleLock replaces a lock file whose owner is gone
func (l *Locker) handleStaleLock(otherPid int) error {
	if err := os.Remove(l.lockFile); err != nil && !os.IsNotExist(err) {
		return errors.NewLockError(l.lockFile, otherPid,
			errors.Wrapf(errors.ErrLockAcquisitionFailure,
				"found stale lock from PID %d but could not remove it: %v", otherPid, err))
	}

	err := l.tryCreateLock()
	if os.IsExist(err) {
		return errors.NewLockError(l.lockFile, 0,
			errors.Wrap(errors.ErrAlreadyRunning, "another instance took the lock after the stale lock was removed"))
	}
	return err
}

func (l *Locker) acquireFlock() error {
	return syscall.Flock(int(l.lockFd.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

// writePid replaces the lock file contents with the current PID
func (l *Locker) writePid() error {
	if err := l.lockFd.Truncate(0); err != nil {
		return l.abort(fmt.Errorf("failed to truncate lock file: %w", err))
	}
	if _, err := l.lockFd.WriteAt([]byte(strconv.Itoa(l.pid)), 0); err != nil {
		return l.abort(fmt.Errorf("failed to write PID to lock file: %w", err))
	}
	return nil
}

// abort releases a half-acquired lock and reports cause
func (l *Locker) abort(cause error) error {
	lockErr := errors.NewLockError(l.lockFile, l.pid, errors.Wrap(errors.ErrLockAcquisitionFailure, cause.Error()))
	if releaseErr := l.Release(); releaseErr != nil {
		return errors.Join(lockErr, releaseErr)
	}
	return lockErr
}

func (l *Locker) closeFileDescriptor() {
	if l.lockFd != nil {
		_ = l.lockFd.Close()
		l.lockFd = nil
	}
}

// readLockFilePid reads and parses the PID from the lock file
func (l *Locker) readLockFilePid() (int, error) {
	data, err := os.ReadFile(l.lockFile)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "invalid PID in lock file")
	}
	return pid, nil
}

// isProcessRunning checks if a process exists using signal 0
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Release unlocks and removes the lock file. It is safe to call more than once.
func (l *Locker) Release() error {
	if l.lockFd == nil {
		return nil
	}

	var err error
	if flockErr := syscall.Flock(int(l.lockFd.Fd()), syscall.LOCK_UN); flockErr != nil {
		err = errors.NewLockError(l.lockFile, l.pid, errors.Wrap(flockErr, "failed to release lock"))
	}

	if closeErr := l.lockFd.Close(); closeErr != nil && err == nil {
		err = errors.NewLockError(l.lockFile, l.pid, errors.Wrap(closeErr, "failed to close lock file"))
	}
	l.lockFd = nil

	// Remove even if unlocking failed so a stale file is not left behind.
	if removeErr := os.Remove(l.lockFile); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
		err = errors.NewLockError(l.lockFile, l.pid, errors.Wrap(removeErr, "failed to remove lock file"))
	}

	return err
}

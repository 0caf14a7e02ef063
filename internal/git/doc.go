// Package git runs the git command sequence that records changes in the
// watched directory.
//
// # Core Components
//
// - CommandExecutor: Interface for executing external commands
// - ExecExecutor: Default implementation backed by os/exec
// - Committer: Stages, commits and pushes every change in a directory
//
// # Command Sequence
//
// Committer.Commit runs, with the working directory set to the watched
// directory on every command:
//
//	git add -A
//	git commit -m <message>
//	git push
//
// Each command's exit code and combined output are written to the log as
// soon as it finishes. The first failure short-circuits the sequence: a
// failed stage never commits, a failed commit never pushes. Failures are
// returned as *errors.CommandError values wrapping errors.ErrCommandFailed.
// Nothing is retried; a transient push failure is reported and left for the
// next commit to carry.
//
// # Implementation Notes
//
// The package uses the command-line Git executable rather than a Go Git
// library, so the user's credentials, hooks and remotes apply unchanged.
// Commands are bound to the caller's context and have no timeout of their
// own.
package git

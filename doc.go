// Package dirtrack commits and pushes a directory whenever its files change.
//
// dirtrack keeps a snapshot of every file in a git work tree, recorded as a
// (modification time, size) pair. Each check compares the current tree
// with the saved snapshot; when files were added, modified or deleted it
// stages everything, commits with a summary message and pushes. It suits
// note collections, dotfiles and other directories that should be backed
// up to a remote without anyone remembering to commit.
//
// # Quick Start
//
//	# Check once, for example from cron
//	dirtrack --watch-dir ~/notes \
//	         --state-file ~/.local/state/dirtrack/notes.json \
//	         --log-file ~/.local/state/dirtrack/notes.log
//
//	# Or keep running, checking every ten minutes
//	dirtrack --daemon --interval 600 --watch-dir ~/notes ...
//
//	# Press Ctrl+C to stop the daemon
//
// # Commit Messages
//
//	Auto-commit: 2026-10-18 10:00:00 - Added: 2; Modified: 1
//
// Only categories with at least one change are listed.
//
// # Packages
//
//   - internal/snapshot: directory scanning and snapshot comparison
//   - internal/state: snapshot persistence between checks
//   - internal/git: git command execution and the add/commit/push sequence
//   - internal/tracker: check cycles, daemon loop and change summaries
//   - internal/config: defaults, YAML file, environment and validation
//   - internal/lock: one instance per state file
//   - internal/logger: append-only event log and user messages
//   - internal/errors: sentinel and typed errors
//
// See cmd/dirtrack for the full list of command-line options.
package dirtrack

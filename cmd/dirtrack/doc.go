// Package main implements dirtrack, a directory change tracker that
// commits and pushes a git work tree whenever its files change.
//
// Each check snapshots every file under the watched directory as a
// (modification time, size) pair, compares it with the snapshot saved by
// the previous check, and when anything was added, modified or deleted
// runs `git add -A`, `git commit` and `git push` in that directory. Every
// event is appended to a log file.
//
// # Basic Usage
//
//	dirtrack --watch-dir ~/notes --state-file ~/.local/state/dirtrack/notes.json \
//	         --log-file ~/.local/state/dirtrack/notes.log
//
//	dirtrack --daemon --interval 600 ...    # check every ten minutes
//	dirtrack --daemon --watch-events ...    # also check shortly after edits
//
// Without --daemon a single check is run and the process exits. When both
// --daemon and --once are given, --daemon wins.
//
// # Configuration Options
//
// Settings are layered: built-in defaults, then a YAML file given by
// --config-file (or DIRTRACK_CONFIG_FILE), then DIRTRACK_* environment
// variables, then command-line flags.
//
//	--watch-dir      Directory to track (env: DIRTRACK_WATCH_DIR)
//	--state-file     Snapshot file (env: DIRTRACK_STATE_FILE)
//	--log-file       Event log (env: DIRTRACK_LOG_FILE)
//	--interval       Seconds between daemon checks (env: DIRTRACK_INTERVAL)
//	--exclude        Directory name to skip, repeatable (env: DIRTRACK_EXCLUDE, comma separated)
//	--max-preview    Paths listed per category in summaries (env: DIRTRACK_MAX_PREVIEW)
//	--commit-prefix  Commit message prefix (env: DIRTRACK_COMMIT_PREFIX)
//	--no-push        Commit without pushing (env: DIRTRACK_PUSH=false)
//	--max-skipped    Unreadable files tolerated per check (env: DIRTRACK_MAX_SKIPPED)
//	--watch-events   Wake the daemon on file activity (env: DIRTRACK_WATCH_EVENTS)
//	--debug          Write debug records (env: DIRTRACK_DEBUG)
//	--quiet          Only show warnings and errors (env: DIRTRACK_VERBOSE=false)
//	--version        Print version information and exit
//
// Keep the state and log files outside the watched directory, otherwise
// every check commits them.
//
// # Exit Status
//
// A missing watch directory, invalid configuration, a missing git binary
// or another instance using the same state file exits with status 1.
// Failed commits and pushes are logged and do not change the exit status.
// In once mode any other failed check exits with status 1.
package main

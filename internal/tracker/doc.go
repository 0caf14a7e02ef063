// Package tracker runs the check cycle that turns directory changes into
// commits.
//
// A cycle loads the previous snapshot from the state file, scans the watched
// directory, and diffs the two. When nothing changed it logs that fact and
// leaves the state file alone. Otherwise it logs a capped summary of added,
// modified and deleted paths, asks the Committer to stage, commit and push,
// and saves the new snapshot whether or not the commit succeeded, so a failed
// push is not reported again on the next cycle.
//
// Tracker.CheckOnce performs a single cycle. Tracker.Run is daemon mode: it
// repeats cycles every Interval until its context is cancelled, logging and
// counting failed cycles instead of stopping. With Options.WatchEvents set,
// an fsnotify watcher over the non-excluded tree wakes the daemon early once
// filesystem activity has settled.
//
// The package is not safe for concurrent use; a Tracker is driven from a
// single goroutine.
package tracker

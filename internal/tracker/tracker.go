package tracker

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bashhack/dirtrack/internal/errors"
	"github.com/bashhack/dirtrack/internal/logger"
	"github.com/bashhack/dirtrack/internal/snapshot"
	"github.com/bashhack/dirtrack/internal/state"
)

// DefaultSettleDelay is how long the daemon waits after the last filesystem
// event before running a cycle.
const DefaultSettleDelay = 2 * time.Second

// DefaultInterval is the pause between daemon cycles when none is set.
const DefaultInterval = 30 * time.Minute

// Committer records the current contents of the watched directory.
// A nil error means every step succeeded.
type Committer interface {
	Commit(ctx context.Context, message string) error
}

// Options controls what a Tracker watches and how often.
type Options struct {
	// WatchDir is the directory tree to snapshot. It should be a git work tree.
	WatchDir string

	// StateFile is where the last snapshot is persisted.
	StateFile string

	// Excludes lists directory names skipped at any depth.
	Excludes []string

	// MaxPreview caps the number of paths listed per category in summaries.
	// Zero lists none and only reports the count.
	MaxPreview int

	// CommitPrefix starts every commit message.
	CommitPrefix string

	// Interval is the pause between daemon cycles.
	Interval time.Duration

	// MaxSkipped fails a cycle when a scan skips more files than this.
	// Zero disables the check.
	MaxSkipped int

	// WatchEvents wakes the daemon early on filesystem activity.
	WatchEvents bool

	// SettleDelay is the quiet period required after filesystem activity.
	SettleDelay time.Duration

	// IgnoreFiles are paths whose changes never wake the daemon, typically
	// the state and log files when they live inside WatchDir.
	IgnoreFiles []string
}

// CycleResult describes a completed check.
type CycleResult struct {
	Changes   snapshot.ChangeSet
	Stats     snapshot.ScanStats
	Summary   string
	Message   string
	Committed bool
	CommitErr error
}

// Tracker snapshots a directory and commits whatever changed since the
// previous cycle.
type Tracker struct {
	opts      Options
	store     *state.Store
	committer Committer
	logger    logger.Logger
	now       func() time.Time

	startTime      time.Time
	cycles         int
	commits        int
	commitFailures int
	cycleFailures  int
	pathsChanged   int
}

// New creates a Tracker. Excludes always include snapshot.DefaultExcludes.
// An empty CommitPrefix and a non-positive Interval or SettleDelay fall back
// to their defaults; a MaxPreview of zero lists no paths.
func New(opts Options, committer Committer, log logger.Logger) *Tracker {
	if abs, err := filepath.Abs(opts.WatchDir); err == nil {
		opts.WatchDir = abs
	}
	opts.Excludes = snapshot.MergeExcludes(opts.Excludes)
	if opts.CommitPrefix == "" {
		opts.CommitPrefix = "Auto-commit"
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	return &Tracker{
		opts:      opts,
		store:     state.NewStore(opts.StateFile, log),
		committer: committer,
		logger:    log,
		now:       time.Now,
		startTime: time.Now(),
	}
}

// CheckOnce runs a single cycle: scan, diff against the stored snapshot and,
// if anything changed, commit and persist the new snapshot. A failed commit
// is reported in the result rather than as an error, and the snapshot is
// saved regardless so the same changes are not reported twice.
func (t *Tracker) CheckOnce(ctx context.Context) (CycleResult, error) {
	var result CycleResult
	t.cycles++

	dir := t.opts.WatchDir
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return result, errors.Errorf("%w: %s", errors.ErrWatchDirMissing, dir)
	}

	previous := t.store.Load()

	current, stats, err := snapshot.Scan(dir, t.opts.Excludes)
	result.Stats = stats
	if err != nil {
		return result, err
	}
	t.logger.Debug("Scanned %s files (%s) in %s, %d skipped",
		humanize.Comma(int64(stats.Files)), humanize.Bytes(uint64(stats.Bytes)), stats.Duration, stats.Skipped)

	if t.opts.MaxSkipped > 0 && stats.Skipped > t.opts.MaxSkipped {
		return result, errors.Errorf("%w: %d files could not be read (limit %d)",
			errors.ErrTooManySkipped, stats.Skipped, t.opts.MaxSkipped)
	}

	result.Changes = snapshot.Compare(previous, current)
	if result.Changes.Empty() {
		t.logger.Info("No changes detected in %s", dir)
		return result, nil
	}

	t.pathsChanged += result.Changes.Total()

	now := t.now()
	ts := now.Format(commitTimeLayout)
	result.Summary = FormatSummary(result.Changes, t.opts.MaxPreview)
	result.Message = CommitMessage(t.opts.CommitPrefix, now, result.Changes)

	t.logger.InfoToUser("%s | Changes detected in %s | %s", ts, dir, result.Summary)

	result.CommitErr = t.committer.Commit(ctx, result.Message)
	if result.CommitErr == nil {
		result.Committed = true
		t.commits++
		t.logger.Success("%s | Commit & push successful | %s", ts, result.Summary)
	} else {
		t.commitFailures++
		t.logger.WarningToUser("%s | Commit or push failed | %s", ts, result.Summary)
	}

	if err := t.store.Save(current); err != nil {
		return result, err
	}

	return result, nil
}

// cycleErrorState tracks consecutive identical cycle failures.
type cycleErrorState struct {
	consecutiveErrors int
	lastErrorMsg      string
}

// Run is daemon mode: it runs a cycle, waits for the interval (or settled
// filesystem activity when WatchEvents is set) and repeats until ctx is
// cancelled. Cycle failures are logged and never stop the loop.
func (t *Tracker) Run(ctx context.Context) error {
	t.startTime = time.Now()
	t.logger.InfoToUser("Starting daemon mode for %s, interval %ds", t.opts.WatchDir, int(t.opts.Interval.Seconds()))

	var trigger <-chan struct{}
	if t.opts.WatchEvents {
		ignore := append([]string{t.store.Path()}, t.opts.IgnoreFiles...)
		watcher, err := newChangeWatcher(t.opts.WatchDir, t.opts.Excludes, ignore, t.logger)
		if err != nil {
			t.logger.WarningToUser("File watcher unavailable, using interval checks only: %v", err)
		} else {
			defer func() {
				_ = watcher.Close()
			}()
			trigger = watcher.Events()
			t.logger.Info("Watching %s for changes (settle delay %s)", t.opts.WatchDir, t.opts.SettleDelay)
		}
	}

	var errorState cycleErrorState
	for {
		if ctx.Err() != nil {
			break
		}

		t.tryCycle(ctx, &errorState)

		if !t.wait(ctx, trigger) {
			break
		}
	}

	t.logger.InfoToUser("Stopped by user")
	return nil
}

// tryCycle runs one cycle and logs its failure without propagating it.
func (t *Tracker) tryCycle(ctx context.Context, errorState *cycleErrorState) {
	_, err := t.CheckOnce(ctx)
	if err == nil {
		errorState.consecutiveErrors = 0
		errorState.lastErrorMsg = ""
		return
	}

	t.cycleFailures++

	currentErrorMsg := err.Error()
	if currentErrorMsg == errorState.lastErrorMsg {
		errorState.consecutiveErrors++
	} else {
		errorState.consecutiveErrors = 1
		errorState.lastErrorMsg = currentErrorMsg
	}

	if errorState.consecutiveErrors > 1 {
		t.logger.Error("ERROR during check: %v (same error %d times in a row)", err, errorState.consecutiveErrors)
		return
	}
	t.logger.Error("ERROR during check: %v", err)
}

// wait blocks until the next cycle is due. It returns false when ctx is
// cancelled.
func (t *Tracker) wait(ctx context.Context, trigger <-chan struct{}) bool {
	timer := time.NewTimer(t.opts.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-trigger:
		t.logger.Debug("Filesystem activity in %s, waiting %s for it to settle", t.opts.WatchDir, t.opts.SettleDelay)
		return t.settle(ctx, trigger)
	}
}

// settle waits until no event has arrived for SettleDelay.
func (t *Tracker) settle(ctx context.Context, trigger <-chan struct{}) bool {
	timer := time.NewTimer(t.opts.SettleDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		case <-trigger:
			timer.Reset(t.opts.SettleDelay)
		}
	}
}

// PrintSummary prints a summary of the session
func (t *Tracker) PrintSummary() {
	duration := time.Since(t.startTime)
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	t.logger.StatusMessage("")
	t.logger.StatusMessage("---------------------------------------------")
	t.logger.StatusMessage("📊 dirtrack Session Summary")
	t.logger.StatusMessage("---------------------------------------------")
	t.logger.StatusMessage("📂 Watched directory: %s", t.opts.WatchDir)
	t.logger.StatusMessage("🔁 Checks run: %s", humanize.Comma(int64(t.cycles)))
	t.logger.StatusMessage("📝 Paths changed: %s", humanize.Comma(int64(t.pathsChanged)))
	t.logger.StatusMessage("✅ Commits made: %s", humanize.Comma(int64(t.commits)))
	if t.commitFailures > 0 {
		t.logger.StatusMessage("⚠️  Failed commits: %s", humanize.Comma(int64(t.commitFailures)))
	}
	if t.cycleFailures > 0 {
		t.logger.StatusMessage("❌ Failed checks: %s", humanize.Comma(int64(t.cycleFailures)))
	}
	t.logger.StatusMessage("⏱️  Session duration: %dh %dm %ds (started %s)", hours, minutes, seconds, humanize.Time(t.startTime))
	t.logger.StatusMessage("---------------------------------------------")
	t.logger.StatusMessage("🛑 dirtrack terminated at %s", time.Now().Format(commitTimeLayout))
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/bashhack/dirtrack/internal/config"
	"github.com/bashhack/dirtrack/internal/errors"
	"github.com/bashhack/dirtrack/internal/git"
	"github.com/bashhack/dirtrack/internal/lock"
	"github.com/bashhack/dirtrack/internal/logger"
	"github.com/bashhack/dirtrack/internal/tracker"
)

// errCheckFailed is returned by Run when a once-mode check fails after
// its cause has already been reported through the logger.
var errCheckFailed = errors.New("check failed")

// Tracker runs check cycles over the watched directory
type Tracker interface {
	CheckOnce(ctx context.Context) (tracker.CycleResult, error)
	Run(ctx context.Context) error
	PrintSummary()
}

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
	Path() string
}

// AppOptions contains app configuration and dependencies.
// Nil optional dependencies are replaced with defaults during
// construction or initialization.
type AppOptions struct {
	// Config holds the application configuration settings (required).
	// The application will panic if this field is nil.
	Config *config.Config

	// Optional components

	// Logger provides logging functionality (optional, a default will be created if nil).
	Logger logger.Logger

	// Locker keeps two instances from sharing a state file (optional, a default will be created if nil).
	Locker Locker

	// Tracker snapshots, diffs and commits the watched directory (optional, a default will be created if nil).
	Tracker Tracker

	// Executor runs git commands for the default Tracker (optional, defaults to git.NewExecExecutor()).
	Executor git.CommandExecutor

	// I/O dependencies

	// Stdout is the writer for standard output (optional, defaults to os.Stdout).
	Stdout io.Writer

	// Stderr is the writer for error output (optional, defaults to os.Stderr).
	Stderr io.Writer

	// System dependencies

	// Exit is the function to terminate the application (optional, defaults to os.Exit).
	Exit func(code int)

	// ExecLookPath is used to find executables in PATH (optional, defaults to exec.LookPath).
	ExecLookPath func(file string) (string, error)

	// IsRepository reports whether a directory is a git work tree (optional, defaults to git.IsRepository).
	IsRepository func(ctx context.Context, dir string) (bool, error)
}

// App is the main dirtrack application.
// It wires the configuration into the tracker and manages the
// application lifecycle.
type App struct {
	// Config holds the application configuration and settings.
	Config *config.Config

	// Logger provides logging functionality for both the log file and the user.
	Logger logger.Logger

	// Locker prevents concurrent instances on the same state file.
	Locker Locker

	// Tracker performs the check cycles.
	Tracker Tracker

	// I/O streams

	// Stdout is the writer for standard output messages.
	Stdout io.Writer

	// Stderr is the writer for error messages.
	Stderr io.Writer

	executor     git.CommandExecutor
	exit         func(code int)
	execLookPath func(file string) (string, error)
	isRepository func(ctx context.Context, dir string) (bool, error)
}

// NewDefaultApp creates an App with standard dependencies and the given
// build metadata. Configuration sources are applied later by the command.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return NewApp(AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
	})
}

// NewApp creates an App with custom dependencies specified in opts.
//
// Panics:
//   - If opts.Config is nil
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Tracker:      opts.Tracker,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		executor:     opts.Executor,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
		isRepository: opts.IsRepository,
	}

	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.executor == nil {
		app.executor = git.NewExecExecutor()
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		executor := app.executor
		app.isRepository = func(ctx context.Context, dir string) (bool, error) {
			return git.IsRepository(ctx, executor, dir)
		}
	}

	return app
}

// Initialize validates the configuration and sets up components not
// provided during construction
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if errors.Is(err, errors.ErrInvalidConfiguration) {
			return err
		}
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.NewWithOutput(a.Config.LogFile, a.Config.Debug, a.Config.Verbose, a.Stdout, a.Stderr)
	}

	if a.Locker == nil {
		locker, err := lock.New(a.Config.StateFile)
		if err != nil {
			return errors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	if a.Tracker == nil {
		committer := git.NewCommitter(a.Config.WatchDir, a.executor, a.Logger, a.Config.Push)
		a.Tracker = tracker.New(tracker.Options{
			WatchDir:     a.Config.WatchDir,
			StateFile:    a.Config.StateFile,
			Excludes:     a.Config.Excludes,
			MaxPreview:   a.Config.MaxPreview,
			CommitPrefix: a.Config.CommitPrefix,
			Interval:     a.Config.Interval(),
			MaxSkipped:   a.Config.MaxSkipped,
			WatchEvents:  a.Config.WatchEvents,
			IgnoreFiles:  []string{a.Config.LogFile},
		}, committer, a.Logger)
	}

	return nil
}

// Run validates the environment, takes the lock and runs a single check
// or the daemon loop depending on the configured mode
func (a *App) Run(ctx context.Context) error {
	if a.Config.Version {
		a.ShowVersion()
		return nil
	}

	if err := a.Initialize(); err != nil {
		return err
	}

	// Ensure we always clean up logger / lock, even on early error paths
	defer func() {
		if err := a.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
		}
	}()

	if err := a.checkWatchDir(); err != nil {
		a.Logger.Info("Startup aborted: %v", err)
		return err
	}

	if err := a.checkRequiredCommands(); err != nil {
		return err
	}

	isRepo, err := a.isRepository(ctx, a.Config.WatchDir)
	switch {
	case err != nil:
		a.Logger.Warning("Failed to check if %s is a git repository: %v", a.Config.WatchDir, err)
	case !isRepo:
		a.Logger.WarningToUser("%s is not a git work tree; commits will fail until it is", a.Config.WatchDir)
	default:
		a.Logger.Debug("Git repository verified")
	}

	if err := a.Locker.Acquire(); err != nil {
		if errors.Is(err, errors.ErrAlreadyRunning) {
			return err
		}
		return errors.Wrap(errors.ErrLockAcquisitionFailure, err.Error())
	}
	a.Logger.Debug("Lock acquired: %s", a.Locker.Path())

	if a.Config.Daemon {
		err := a.Tracker.Run(ctx)
		a.Tracker.PrintSummary()
		return err
	}

	return a.runOnce(ctx)
}

func (a *App) runOnce(ctx context.Context) error {
	result, err := a.Tracker.CheckOnce(ctx)
	if ctx.Err() != nil {
		a.Logger.InfoToUser("Stopped by user")
		return nil
	}
	if err != nil {
		a.Logger.Error("ERROR during check: %v", err)
		return errCheckFailed
	}
	if result.CommitErr != nil {
		a.Logger.Debug("Check finished with a failed commit: %v", result.CommitErr)
	}
	return nil
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "dirtrack %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// checkWatchDir verifies the watched directory exists
func (a *App) checkWatchDir() error {
	info, err := os.Stat(a.Config.WatchDir)
	if err != nil || !info.IsDir() {
		return errors.Errorf("%w: %s", errors.ErrWatchDirMissing, a.Config.WatchDir)
	}
	return nil
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	_, err := a.execLookPath("git")
	if err != nil {
		return fmt.Errorf("git is not found in PATH")
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// CleanupOnSignal releases the lock and, in daemon mode, shows a summary
// when the process has to be stopped without a graceful return from Run
func (a *App) CleanupOnSignal() {
	if err := a.Close(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
	}

	if a.Config.Daemon && !a.Config.Version && a.Tracker != nil {
		a.Tracker.PrintSummary()
	}
}

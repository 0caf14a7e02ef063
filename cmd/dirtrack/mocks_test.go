package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bashhack/dirtrack/internal/config"
	"github.com/bashhack/dirtrack/internal/tracker"
)

// MockTracker records which entry points the app called
type MockTracker struct {
	mu sync.Mutex

	CheckOnceCalls int
	RunCalls       int
	SummaryCalls   int

	Result   tracker.CycleResult
	CheckErr error
	RunFn    func(ctx context.Context) error
}

func (m *MockTracker) CheckOnce(ctx context.Context) (tracker.CycleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckOnceCalls++
	return m.Result, m.CheckErr
}

func (m *MockTracker) Run(ctx context.Context) error {
	m.mu.Lock()
	m.RunCalls++
	fn := m.RunFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *MockTracker) PrintSummary() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryCalls++
}

// MockLocker is a Locker whose outcomes are set by the test
type MockLocker struct {
	AcquireErr    error
	ReleaseErr    error
	AcquireCalled bool
	ReleaseCalled bool
}

func (m *MockLocker) Acquire() error {
	m.AcquireCalled = true
	return m.AcquireErr
}

func (m *MockLocker) Path() string {
	return "/tmp/dirtrack-test.lock"
}

func (m *MockLocker) Release() error {
	m.ReleaseCalled = true
	return m.ReleaseErr
}

// testApp bundles an App wired with mocks and the buffers it writes to
type testApp struct {
	*App
	tracker *MockTracker
	locker  *MockLocker
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	exited  []int
	lastErr error
}

// newTestApp returns an App whose watch directory, state file and log file
// live in a fresh temporary directory.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	base := t.TempDir()
	watchDir := filepath.Join(base, "watched")
	require.NoError(t, os.MkdirAll(watchDir, 0o755))

	cfg := config.New()
	cfg.VersionInfo = config.VersionInfo{Version: "1.2.3", Commit: "abc1234", Date: "2026-10-18"}
	cfg.WatchDir = watchDir
	cfg.StateFile = filepath.Join(base, "state.json")
	cfg.LogFile = filepath.Join(base, "dirtrack.log")

	ta := &testApp{
		tracker: &MockTracker{},
		locker:  &MockLocker{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}
	ta.App = NewApp(AppOptions{
		Config:  cfg,
		Locker:  ta.locker,
		Tracker: ta.tracker,
		Stdout:  ta.stdout,
		Stderr:  ta.stderr,
		Exit: func(code int) {
			ta.exited = append(ta.exited, code)
		},
		ExecLookPath: func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		},
		IsRepository: func(ctx context.Context, dir string) (bool, error) {
			return true, nil
		},
	})
	return ta
}

// readLog returns the log file contents, or "" if nothing was logged.
func (ta *testApp) readLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(ta.Config.LogFile)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

// clearEnvironment unsets every variable LoadFromEnvironment reads for the
// duration of the test.
func clearEnvironment(t *testing.T) {
	t.Helper()
	keys := []string{
		"WATCH_DIR", "STATE_FILE", "LOG_FILE", "INTERVAL", "DAEMON", "ONCE",
		"WATCH_EVENTS", "EXCLUDE", "MAX_PREVIEW", "COMMIT_PREFIX", "PUSH",
		"MAX_SKIPPED", "DEBUG", "VERBOSE", "CONFIG_FILE",
	}
	for _, key := range keys {
		t.Setenv("DIRTRACK_"+key, "")
		require.NoError(t, os.Unsetenv("DIRTRACK_"+key))
	}
}

package tracker

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/dirtrack/internal/logger"
)

func newTestWatcher(t *testing.T, root string, excludes, ignore []string) *changeWatcher {
	t.Helper()
	log := logger.NewWithOutput("", true, false, io.Discard, io.Discard)
	w, err := newChangeWatcher(root, excludes, ignore, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = w.Close()
	})
	return w
}

func TestChangeWatcherSkip(t *testing.T) {
	root := t.TempDir()
	stateFile := filepath.Join(root, "state.json")
	w := newTestWatcher(t, root, []string{".git", "node_modules"}, []string{stateFile})

	tests := map[string]struct {
		path     string
		expected bool
	}{
		"RegularFile":      {path: filepath.Join(root, "a.txt"), expected: false},
		"NestedFile":       {path: filepath.Join(root, "src", "main.go"), expected: false},
		"ExcludedDir":      {path: filepath.Join(root, ".git"), expected: true},
		"InsideExcluded":   {path: filepath.Join(root, ".git", "index"), expected: true},
		"DeepExcluded":     {path: filepath.Join(root, "web", "node_modules", "x.js"), expected: true},
		"SimilarName":      {path: filepath.Join(root, ".gitignore"), expected: false},
		"IgnoredStateFile": {path: stateFile, expected: true},
		"Root":             {path: root, expected: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, w.skip(tc.path))
		})
	}
}

func TestChangeWatcherSignals(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, []string{".git"}, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("expected an event for a new file")
	}
}

func TestChangeWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, nil, nil)

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		_, ok := w.paths[sub]
		return ok
	}, 5*time.Second, 10*time.Millisecond)
}

func TestChangeWatcherIgnoresExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.Mkdir(gitDir, 0o755))

	w := newTestWatcher(t, root, []string{".git"}, nil)

	w.mu.Lock()
	_, watched := w.paths[gitDir]
	w.mu.Unlock()
	assert.False(t, watched, "excluded directories must not be watched")

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "index"), []byte("x"), 0o644))

	select {
	case <-w.Events():
		t.Fatal("writes inside an excluded directory must not signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewChangeWatcherMissingRoot(t *testing.T) {
	log := logger.NewWithOutput("", false, false, io.Discard, io.Discard)
	_, err := newChangeWatcher(filepath.Join(t.TempDir(), "missing"), nil, nil, log)
	assert.Error(t, err)
}

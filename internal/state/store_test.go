package state

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/dirtrack/internal/logger"
	"github.com/bashhack/dirtrack/internal/snapshot"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	log := logger.NewWithOutput(filepath.Join(t.TempDir(), "state.log"), true, false, io.Discard, io.Discard)
	return NewStore(path, log)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := newTestStore(t, path)

	snap := snapshot.Snapshot{
		"a.txt":         {ModTime: 1709294400.5, Size: 10},
		"docs/read.me":  {ModTime: 1709294401.25, Size: 0},
		"with space.md": {ModTime: 1, Size: 1 << 40},
	}
	require.NoError(t, store.Save(snap))

	assert.Equal(t, snap, store.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a.txt": [`)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := newTestStore(t, path)

	require.NoError(t, store.Save(snapshot.Snapshot{"old": {ModTime: 1, Size: 1}}))
	require.NoError(t, store.Save(snapshot.Snapshot{"new": {ModTime: 2, Size: 2}}))

	assert.Equal(t, snapshot.Snapshot{"new": {ModTime: 2, Size: 2}}, store.Load())
}

func TestSaveNilWritesEmptyObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := newTestStore(t, path)

	require.NoError(t, store.Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestLoadFallsBackToEmpty(t *testing.T) {
	tests := map[string]struct {
		content *string
	}{
		"Missing":    {content: nil},
		"Empty":      {content: ptr("")},
		"Whitespace": {content: ptr("  \n")},
		"Corrupt":    {content: ptr("{not json")},
		"WrongShape": {content: ptr(`{"a.txt": {"mtime": 1}}`)},
		"Null":       {content: ptr("null")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0o644))
			}

			snap := newTestStore(t, path).Load()
			assert.NotNil(t, snap)
			assert.Empty(t, snap)
		})
	}
}

func TestSaveFailsWhenParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := newTestStore(t, filepath.Join(blocker, "state.json"))
	assert.Error(t, store.Save(snapshot.Snapshot{}))
}

func ptr(s string) *string {
	return &s
}

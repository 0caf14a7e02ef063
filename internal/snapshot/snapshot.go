package snapshot

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultExcludes are the directory names that are always skipped. The
// repository's own metadata changes on every commit and must never be
// tracked.
var DefaultExcludes = []string{".git"}

// MergeExcludes returns DefaultExcludes followed by the names in extra that
// are not already present.
func MergeExcludes(extra []string) []string {
	merged := make([]string, 0, len(DefaultExcludes)+len(extra))
	seen := make(map[string]struct{}, cap(merged))
	for _, names := range [][]string{DefaultExcludes, extra} {
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}
	return merged
}

// Entry is the identity of a file within a snapshot.
// Two entries are equal when both modification time and size match.
type Entry struct {
	// ModTime is the last-modified time in fractional seconds since the Unix epoch.
	ModTime float64

	// Size is the file size in bytes.
	Size int64
}

// NewEntry builds an Entry from file info.
func NewEntry(info fs.FileInfo) Entry {
	return Entry{
		ModTime: float64(info.ModTime().UnixNano()) / 1e9,
		Size:    info.Size(),
	}
}

// MarshalJSON encodes the entry as a two-element array [mtime, size].
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ModTime, e.Size})
}

// UnmarshalJSON decodes a two-element array [mtime, size].
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []json.Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("snapshot entry must have 2 elements, got %d", len(pair))
	}

	mtime, err := pair[0].Float64()
	if err != nil {
		return fmt.Errorf("invalid mtime %q: %w", pair[0], err)
	}

	size, err := pair[1].Int64()
	if err != nil {
		f, ferr := pair[1].Float64()
		if ferr != nil {
			return fmt.Errorf("invalid size %q: %w", pair[1], err)
		}
		size = int64(f)
	}

	e.ModTime = mtime
	e.Size = size
	return nil
}

// Snapshot maps a path relative to the scanned root to its entry.
type Snapshot map[string]Entry

// ScanStats describes a completed scan.
type ScanStats struct {
	// Files is the number of files recorded.
	Files int

	// Bytes is the total size of recorded files.
	Bytes int64

	// Skipped counts files and directories that could not be stat'ed or read.
	Skipped int

	// Duration is the wall time of the walk.
	Duration time.Duration
}

// Scan walks root and records every regular file that is not below a
// directory whose name is in excludes. Files that cannot be stat'ed are
// skipped and counted in ScanStats.Skipped; only a failure to read root
// itself is returned as an error.
func Scan(root string, excludes []string) (Snapshot, ScanStats, error) {
	start := time.Now()
	stats := ScanStats{}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve root %q: %w", root, err)
	}
	// WalkDir does not descend into a symlinked root.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	excluded := make(map[string]struct{}, len(excludes))
	for _, name := range excludes {
		excluded[name] = struct{}{}
	}

	snap := make(Snapshot)
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			stats.Skipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if _, skip := excluded[d.Name()]; skip {
				return fs.SkipDir
			}
			return nil
		}

		// Follow symlinks; a dangling link or a race-deleted file is skipped.
		info, err := os.Stat(path)
		if err != nil {
			stats.Skipped++
			return nil
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			stats.Skipped++
			return nil
		}

		snap[rel] = NewEntry(info)
		stats.Files++
		stats.Bytes += info.Size()
		return nil
	})
	stats.Duration = time.Since(start)
	if err != nil {
		return nil, stats, fmt.Errorf("scan %s: %w", absRoot, err)
	}

	return snap, stats, nil
}

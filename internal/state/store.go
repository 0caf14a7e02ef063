package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bashhack/dirtrack/internal/logger"
	"github.com/bashhack/dirtrack/internal/snapshot"
)

// Store persists the last committed snapshot to a JSON file.
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string, log logger.Logger) *Store {
	return &Store{path: path, logger: log}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the previous snapshot. A missing, empty or unreadable state
// file yields an empty snapshot so that the next cycle treats every file as
// added.
func (s *Store) Load() snapshot.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("State file %s does not exist yet", s.path)
		} else {
			s.logger.Warning("Could not read state file %s: %v", s.path, err)
		}
		return snapshot.Snapshot{}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.Debug("State file %s is empty", s.path)
		return snapshot.Snapshot{}
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warning("State file %s is corrupt, starting from an empty snapshot: %v", s.path, err)
		return snapshot.Snapshot{}
	}
	if snap == nil {
		return snapshot.Snapshot{}
	}

	return snap
}

// Save overwrites the state file with snap, creating parent directories as
// needed.
func (s *Store) Save(snap snapshot.Snapshot) error {
	if snap == nil {
		snap = snapshot.Snapshot{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", s.path, err)
	}

	s.logger.Debug("Saved %d entries to %s", len(snap), s.path)
	return nil
}

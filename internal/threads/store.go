// Package threads persists the mapping from a messaging-platform user to
// their assistant thread. One thread per user at a time, last write wins.
package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store maps userId -> external assistant thread ID.
type Store interface {
	Get(ctx context.Context, userID string) (string, bool, error)
	Put(ctx context.Context, userID, threadID string) error
}

// FileStore keeps the thread map in a flat JSON key-value file. Reads and
// read-modify-write cycles are serialized by a process-local mutex.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed thread store. A missing file reads as
// an empty map.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the persisted thread ID for a user, if any.
func (s *FileStore) Get(ctx context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	threadID, ok := m[userID]
	return threadID, ok, nil
}

// Put records the thread for a user, replacing any previous mapping.
func (s *FileStore) Put(ctx context.Context, userID, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[userID] = threadID
	return s.save(m)
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("threads: read store: %w", err)
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("threads: parse store: %w", err)
	}
	return m, nil
}

func (s *FileStore) save(m map[string]string) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("threads: encode store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("threads: create data dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("threads: write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("threads: replace store: %w", err)
	}
	return nil
}

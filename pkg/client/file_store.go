package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists session state as a JSON file, typically under the
// user's config directory. It is the command-line analogue of the web
// client's local storage.
type FileStore struct {
	path string
}

// NewFileStore builds a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the state with owner-only permissions.
func (s *FileStore) Save(state SessionState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, payload, 0o600)
}

// Load reads the state; ok is false when no session file exists.
func (s *FileStore) Load() (SessionState, bool, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SessionState{}, false, nil
		}
		return SessionState{}, false, err
	}
	var state SessionState
	if err := json.Unmarshal(payload, &state); err != nil {
		return SessionState{}, false, err
	}
	return state, true, nil
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/ritual/internal/logger"
)

// JSONStore keeps every slot in a single JSON object on disk. Writes go to
// a temp file in the same directory and are renamed over the original.
type JSONStore struct {
	path  string
	slots map[string]json.RawMessage
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.slots = make(map[string]json.RawMessage)
	return s.save()
}

// Load reads the file into memory. A file that is not a JSON object is
// moved aside as <path>.corrupt-<timestamp> and the store starts empty, so
// the caller falls back to its defaults.
func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	slots := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &slots); err != nil {
		corrupt := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().Format("20060102-150405"))
		if rerr := os.Rename(s.path, corrupt); rerr != nil {
			return fmt.Errorf("failed to parse storage: %w", err)
		}
		logger.Warn("Storage file is unreadable, starting empty", "error", err, "moved_to", corrupt)
		slots = make(map[string]json.RawMessage)
	}
	if slots == nil {
		// a bare null decodes to a nil map
		slots = make(map[string]json.RawMessage)
	}
	s.slots = slots
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ritual-*.json")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, bool, error) {
	if s.slots == nil {
		return nil, false, ErrNotLoaded
	}
	raw, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

func (s *JSONStore) Put(key string, value []byte) error {
	if s.slots == nil {
		return ErrNotLoaded
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	prev, had := s.slots[key]
	s.slots[key] = append(json.RawMessage(nil), value...)
	if err := s.save(); err != nil {
		// keep memory in step with disk
		if had {
			s.slots[key] = prev
		} else {
			delete(s.slots, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Clear() error {
	if s.slots == nil {
		return ErrNotLoaded
	}
	prev := s.slots
	s.slots = make(map[string]json.RawMessage)
	if err := s.save(); err != nil {
		s.slots = prev
		return err
	}
	return nil
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.slots == nil {
		return nil, ErrNotLoaded
	}
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetConfigPath returns the path of the JSON file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}

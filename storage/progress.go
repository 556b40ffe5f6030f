package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/LianHaeming/llmguide/models"
)

// ProgressStore handles file-based reading progress persistence. The whole
// record lives in one JSON file and is rewritten on every save.
type ProgressStore struct {
	path string
	mu   sync.RWMutex
}

func NewProgressStore(path string) *ProgressStore {
	os.MkdirAll(filepath.Dir(path), 0o755)
	return &ProgressStore{path: path}
}

// Path returns the backing file path.
func (s *ProgressStore) Path() string {
	return s.path
}

// Load returns the stored record, or an empty one if the file doesn't exist.
func (s *ProgressStore) Load() (models.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.ProgressRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}

	record := models.ProgressRecord{}
	if len(data) == 0 {
		return record, nil
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid progress JSON in %s: %w", s.path, err)
	}
	if record == nil {
		record = models.ProgressRecord{}
	}

	record.Migrate()
	return record, nil
}

// Save persists the record to disk.
func (s *ProgressStore) Save(record models.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record == nil {
		record = models.ProgressRecord{}
	}
	record.Normalize()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

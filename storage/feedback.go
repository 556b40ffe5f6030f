package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/LianHaeming/llmguide/models"
)

// FeedbackTable handles file-based feedback persistence as a CSV table with a
// header row. Rows are appended; the file is removed on clear.
type FeedbackTable struct {
	path string
	mu   sync.RWMutex
}

func NewFeedbackTable(path string) *FeedbackTable {
	os.MkdirAll(filepath.Dir(path), 0o755)
	return &FeedbackTable{path: path}
}

// Path returns the backing file path.
func (t *FeedbackTable) Path() string {
	return t.path
}

// ReadAll returns every stored entry in file order.
func (t *FeedbackTable) ReadAll() ([]models.FeedbackEntry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return []models.FeedbackEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open feedback: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	entries := []models.FeedbackEntry{}
	header := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse feedback: %w", err)
		}
		if header {
			header = false
			if len(row) > 0 && row[0] == models.FeedbackColumns[0] {
				continue
			}
		}
		entries = append(entries, models.FeedbackEntryFromRow(row))
	}
	return entries, nil
}

// Append adds one row, creating the file with a header if it doesn't exist.
func (t *FeedbackTable) Append(entry models.FeedbackEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create feedback dir: %w", err)
	}

	newFile := false
	if info, err := os.Stat(t.path); os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		newFile = true
	}

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback: %w", err)
	}

	w := csv.NewWriter(f)
	if newFile {
		w.Write(models.FeedbackColumns)
	}
	w.Write(entry.Row())
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write feedback: %w", err)
	}
	return f.Close()
}

// Remove deletes the table file. A missing file is not an error.
func (t *FeedbackTable) Remove() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove feedback: %w", err)
	}
	return nil
}

// Exists reports whether the table file is present.
func (t *FeedbackTable) Exists() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, err := os.Stat(t.path)
	return err == nil
}

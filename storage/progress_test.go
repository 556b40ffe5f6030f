package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LianHaeming/llmguide/models"
)

func TestProgressStore_LoadMissingFile(t *testing.T) {
	s := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))

	rec, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestProgressStore_SaveLoad(t *testing.T) {
	s := NewProgressStore(filepath.Join(t.TempDir(), "nested", "progress.json"))

	rec := models.ProgressRecord{
		"home":   {"Who Should Use This Guide", "How Language Models Work"},
		"prompt": {"Quiz"},
	}
	require.NoError(t, s.Save(rec))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"How Language Models Work", "Who Should Use This Guide"}, loaded["home"])
	assert.Equal(t, []string{"Quiz"}, loaded["prompt"])
}

func TestProgressStore_SaveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	s := NewProgressStore(path)

	require.NoError(t, s.Save(models.ProgressRecord{"home": {"b", "a", "a"}}))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Save(loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestProgressStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewProgressStore(path).Load()
	assert.Error(t, err)
}

func TestProgressStore_MigratesLegacyKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	legacy := `{"read_sections": ["Types of Bias"], "prompt_read_sections": ["Quiz"], "home_read_sections": ["x"], "home": ["y"]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	rec, err := NewProgressStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Quiz"}, rec["prompt"])
	assert.Equal(t, []string{"y"}, rec["home"], "existing per-page key wins over legacy key")
	assert.Equal(t, []string{"Types of Bias"}, rec["read_sections"])
	assert.NotContains(t, rec, "prompt_read_sections")
	assert.NotContains(t, rec, "home_read_sections")
}

func TestProgressStore_SaveReportsUncreatableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewProgressStore(filepath.Join(blocker, "progress.json")).Save(models.ProgressRecord{"home": {"Prompt"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create progress dir")
}

package feedback

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LianHaeming/llmguide/models"
	"github.com/LianHaeming/llmguide/storage"
)

const testPassphrase = "open-sesame"

func newTestService(t *testing.T) (*Service, *storage.FeedbackTable) {
	t.Helper()
	table := storage.NewFeedbackTable(filepath.Join(t.TempDir(), "feedback.csv"))
	return NewService(table, testPassphrase, zaptest.NewLogger(t)), table
}

func rows(t *testing.T, table *storage.FeedbackTable) int {
	t.Helper()
	entries, err := table.ReadAll()
	require.NoError(t, err)
	return len(entries)
}

type failingTable struct{ err error }

func (f failingTable) ReadAll() ([]models.FeedbackEntry, error) { return nil, f.err }
func (f failingTable) Append(models.FeedbackEntry) error        { return f.err }
func (f failingTable) Remove() error                            { return f.err }

func TestSubmit_Valid(t *testing.T) {
	s, table := newTestService(t)

	got, err := s.Submit(models.FeedbackEntry{
		Name:           "  Ada Lovelace ",
		Email:          "a@b.co",
		Rating:         5,
		Comment:        " Loved the cost estimator ",
		Topic:          "LLM APIs",
		AttachmentName: "notes.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "Loved the cost estimator", got.Comment)
	assert.Equal(t, 1, rows(t, table))
	assert.Equal(t, []models.FeedbackEntry{got}, s.ListAll())
}

func TestSubmit_RejectsBlankName(t *testing.T) {
	s, table := newTestService(t)
	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Rating: 3})
	require.NoError(t, err)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.Submit(models.FeedbackEntry{Name: name, Rating: 3})
		assert.True(t, errors.Is(err, ErrMissingName), "name %q", name)
	}
	assert.Equal(t, 1, rows(t, table), "rejected entries must not be written")
	assert.Equal(t, 1, s.Count())
}

func TestSubmit_Email(t *testing.T) {
	s, table := newTestService(t)

	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Email: "not-an-email", Rating: 3})
	assert.True(t, errors.Is(err, ErrInvalidEmail))
	assert.Equal(t, 0, rows(t, table))

	_, err = s.Submit(models.FeedbackEntry{Name: "Ada", Email: "a@b.co", Rating: 3})
	assert.NoError(t, err)

	_, err = s.Submit(models.FeedbackEntry{Name: "Ada", Email: "   ", Rating: 3})
	assert.NoError(t, err, "email is optional")
	assert.Equal(t, 2, rows(t, table))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		entry models.FeedbackEntry
		want  error
	}{
		{"rating too low", models.FeedbackEntry{Name: "a", Rating: 0}, ErrInvalidRating},
		{"rating too high", models.FeedbackEntry{Name: "a", Rating: 6}, ErrInvalidRating},
		{"unknown topic", models.FeedbackEntry{Name: "a", Rating: 3, Topic: "Crypto"}, ErrInvalidTopic},
		{"none topic", models.FeedbackEntry{Name: "a", Rating: 3, Topic: "None"}, nil},
		{"bad attachment", models.FeedbackEntry{Name: "a", Rating: 3, AttachmentName: "run.exe"}, ErrUnsupportedAttachment},
		{"upper-case extension", models.FeedbackEntry{Name: "a", Rating: 3, AttachmentName: "Shot.PNG"}, nil},
		{"dotted email", models.FeedbackEntry{Name: "a", Rating: 3, Email: "first.last@mail.startup.ie"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.entry)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			}
		})
	}
}

func TestValidate_StripsAttachmentPath(t *testing.T) {
	e, err := Validate(models.FeedbackEntry{Name: "a", Rating: 3, AttachmentName: "../../etc/notes.txt", Topic: "None"})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", e.AttachmentName)
	assert.Empty(t, e.Topic)
}

func TestListAll_HidesReservedAndEmptyNames(t *testing.T) {
	table := storage.NewFeedbackTable(filepath.Join(t.TempDir(), "feedback.csv"))
	require.NoError(t, table.Append(models.FeedbackEntry{Name: "Ada", Rating: 4}))
	require.NoError(t, table.Append(models.FeedbackEntry{Name: " ADMIN ", Rating: 1}))
	require.NoError(t, table.Append(models.FeedbackEntry{Name: "", Rating: 2}))
	require.NoError(t, table.Append(models.FeedbackEntry{Name: "Grace", Rating: 5}))

	s := NewService(table, testPassphrase, zaptest.NewLogger(t))
	list := s.ListAll()

	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Grace", list[1].Name)
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, 4, rows(t, table), "filtering is display only")
}

func TestClearAll_WrongPassphrase(t *testing.T) {
	s, table := newTestService(t)
	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Rating: 3})
	require.NoError(t, err)

	err = s.ClearAll("wrong-pass", true)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 1, rows(t, table))
	assert.Equal(t, 1, s.Count())
}

func TestClearAll_RequiresConfirmation(t *testing.T) {
	s, table := newTestService(t)
	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Rating: 3})
	require.NoError(t, err)

	assert.ErrorIs(t, s.ClearAll(testPassphrase, false), ErrUnauthorized)
	assert.Equal(t, 1, rows(t, table))
}

func TestClearAll_UnsetSecretNeverMatches(t *testing.T) {
	table := storage.NewFeedbackTable(filepath.Join(t.TempDir(), "feedback.csv"))
	s := NewService(table, "", zaptest.NewLogger(t))

	assert.ErrorIs(t, s.ClearAll("", true), ErrUnauthorized)
	assert.False(t, s.Authorize(""))
}

func TestClearAll_Success(t *testing.T) {
	s, table := newTestService(t)
	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Rating: 3})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(testPassphrase, true))
	assert.False(t, table.Exists())
	assert.Zero(t, s.Count())
	assert.Empty(t, s.ListAll())
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Email: "a@b.co", Rating: 4, Comment: "Short, sweet"})
	require.NoError(t, err)
	_, err = s.Submit(models.FeedbackEntry{Name: "admin", Rating: 1})
	require.NoError(t, err)

	data, err := s.ExportCSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 3, "export includes every entry")
	assert.Equal(t, "Name,Email,Rating,Feedback,Suggested Topic,Attachment Name", lines[0])
	assert.Equal(t, `Ada,a@b.co,4,"Short, sweet",,`, lines[1])

	again, err := s.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestService_PersistenceFailuresAreWarnings(t *testing.T) {
	s := NewService(failingTable{err: errors.New("disk full")}, testPassphrase, zaptest.NewLogger(t))
	assert.Len(t, s.TakeWarnings(), 1)

	_, err := s.Submit(models.FeedbackEntry{Name: "Ada", Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Your feedback could not be saved to disk."}, s.TakeWarnings())
	assert.Equal(t, 1, s.Count())

	err = s.ClearAll(testPassphrase, true)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 1, s.Count(), "a failed clear leaves the list untouched")
}

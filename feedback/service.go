// Package feedback validates and records reader feedback and provides the
// admin-only export and clear operations.
package feedback

import (
	"bytes"
	"crypto/subtle"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/models"
)

// Validation and authorization errors.
var (
	ErrMissingName           = errors.New("please enter your name to submit the form")
	ErrInvalidEmail          = errors.New("invalid email format")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrInvalidTopic          = errors.New("unknown topic suggestion")
	ErrUnsupportedAttachment = errors.New("attachment must be a png, jpg, pdf, txt or docx file")
	ErrUnauthorized          = errors.New("invalid passphrase or confirmation not given")
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// AttachmentTypes are the accepted attachment file extensions.
var AttachmentTypes = []string{".png", ".jpg", ".pdf", ".txt", ".docx"}

// reservedName is hidden from the public feedback list.
const reservedName = "admin"

// Table is the durable feedback table.
type Table interface {
	ReadAll() ([]models.FeedbackEntry, error)
	Append(models.FeedbackEntry) error
	Remove() error
}

// Service keeps the in-memory feedback list in step with the table.
type Service struct {
	table      Table
	passphrase string
	logger     *zap.Logger

	mu       sync.Mutex
	entries  []models.FeedbackEntry
	warnings []string
}

// NewService loads existing entries from the table. A table that cannot be
// read starts the service empty with a warning.
func NewService(table Table, passphrase string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{table: table, passphrase: passphrase, logger: logger}

	entries, err := table.ReadAll()
	if err != nil {
		s.warn("Could not load earlier feedback.", err)
		entries = nil
	}
	s.entries = entries
	return s
}

// Validate trims the entry's fields and checks them. The returned entry is
// the normalized form that Submit records.
func Validate(e models.FeedbackEntry) (models.FeedbackEntry, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Comment = strings.TrimSpace(e.Comment)
	e.Topic = strings.TrimSpace(e.Topic)
	e.AttachmentName = filepath.Base(strings.TrimSpace(e.AttachmentName))
	if e.AttachmentName == "." || e.AttachmentName == string(filepath.Separator) {
		e.AttachmentName = ""
	}
	if e.Topic == "None" {
		e.Topic = ""
	}

	if e.Name == "" {
		return e, ErrMissingName
	}
	if e.Email != "" && !emailPattern.MatchString(e.Email) {
		return e, ErrInvalidEmail
	}
	if e.Rating < models.MinRating || e.Rating > models.MaxRating {
		return e, ErrInvalidRating
	}
	if e.Topic != "" && !models.IsFeedbackTopic(e.Topic) {
		return e, ErrInvalidTopic
	}
	if e.AttachmentName != "" && !allowedAttachment(e.AttachmentName) {
		return e, ErrUnsupportedAttachment
	}
	return e, nil
}

// Submit validates and records an entry. A table write failure is reported
// as a warning; the entry is still kept in memory for display.
func (s *Service) Submit(e models.FeedbackEntry) (models.FeedbackEntry, error) {
	e, err := Validate(e)
	if err != nil {
		return e, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.Append(e); err != nil {
		s.warn("Your feedback could not be saved to disk.", err)
	}
	s.entries = append(s.entries, e)
	s.logger.Info("Feedback received", zap.Int("rating", e.Rating), zap.String("topic", e.Topic))
	return e, nil
}

// ListAll returns the entries for display, skipping rows with an empty or
// reserved name. The stored rows are not touched.
func (s *Service) ListAll() []models.FeedbackEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.FeedbackEntry, 0, len(s.entries))
	for _, e := range s.entries {
		name := strings.TrimSpace(e.Name)
		if name == "" || strings.EqualFold(name, reservedName) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns the number of recorded entries, including hidden ones.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Authorize reports whether passphrase matches the configured secret. An
// unset secret never matches.
func (s *Service) Authorize(passphrase string) bool {
	if s.passphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(passphrase), []byte(s.passphrase)) == 1
}

// ClearAll deletes the table and empties the list. It requires the admin
// passphrase and an explicit confirmation; otherwise nothing changes.
func (s *Service) ClearAll(passphrase string, confirmed bool) error {
	if !confirmed || !s.Authorize(passphrase) {
		s.logger.Warn("Rejected feedback clear", zap.Bool("confirmed", confirmed))
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.Remove(); err != nil {
		return fmt.Errorf("clear feedback: %w", err)
	}
	cleared := len(s.entries)
	s.entries = nil
	s.logger.Info("Feedback cleared", zap.Int("entries", cleared))
	return nil
}

// ExportCSV serializes every in-memory entry, header first.
func (s *Service) ExportCSV() ([]byte, error) {
	s.mu.Lock()
	entries := make([]models.FeedbackEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(models.FeedbackColumns)
	for _, e := range entries {
		w.Write(e.Row())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export feedback: %w", err)
	}
	return buf.Bytes(), nil
}

// TakeWarnings returns pending persistence warnings and clears them.
func (s *Service) TakeWarnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.warnings
	s.warnings = nil
	return w
}

func (s *Service) warn(msg string, err error) {
	s.logger.Warn(msg, zap.Error(err))
	s.warnings = append(s.warnings, msg)
}

func allowedAttachment(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, t := range AttachmentTypes {
		if ext == t {
			return true
		}
	}
	return false
}

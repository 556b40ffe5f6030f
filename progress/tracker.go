// Package progress tracks which sections of each page a reader has marked as
// complete. Tracking is best-effort: a store that cannot be read or written
// produces a warning for the reader and never blocks rendering.
package progress

import (
	"sort"

	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/content"
	"github.com/LianHaeming/llmguide/models"
)

// Store is the durable copy of the progress record.
type Store interface {
	Load() (models.ProgressRecord, error)
	Save(models.ProgressRecord) error
}

// Set is a set of completed section titles.
type Set map[string]struct{}

// Has reports whether title is in the set.
func (s Set) Has(title string) bool {
	_, ok := s[title]
	return ok
}

// Sorted returns the titles in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Tracker holds the in-memory completed sets for one reader. It is not safe
// for concurrent use; callers serialise access per session.
type Tracker struct {
	store  Store
	logger *zap.Logger

	completed   map[string]Set
	resetNotice map[string]bool
	warnings    []string
}

func NewTracker(store Store, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:       store,
		logger:      logger,
		completed:   map[string]Set{},
		resetNotice: map[string]bool{},
	}
}

// Load replaces the in-memory set for pageKey with the durable one and
// returns a copy. An unreadable store yields an empty set and a warning.
func (t *Tracker) Load(pageKey string) Set {
	set := Set{}
	record, err := t.store.Load()
	if err != nil {
		t.warn("Could not load your reading progress; starting fresh.", err, zap.String("page", pageKey))
	} else {
		for _, title := range record[pageKey] {
			set[title] = struct{}{}
		}
	}
	t.completed[pageKey] = set
	return set.clone()
}

// Completed returns a copy of the in-memory set for pageKey.
func (t *Tracker) Completed(pageKey string) Set {
	return t.set(pageKey).clone()
}

// IsComplete reports the completion toggle for a section.
func (t *Tracker) IsComplete(key content.SectionKey) bool {
	return t.set(key.Page).Has(key.Title)
}

// Toggle marks a section complete or not complete in memory.
func (t *Tracker) Toggle(key content.SectionKey, completed bool) {
	set := t.set(key.Page)
	if completed {
		set[key.Title] = struct{}{}
	} else {
		delete(set, key.Title)
	}
}

// PercentComplete returns floor(100 * completed / totalSections), 0 when
// there are no sections, never above 100.
func (t *Tracker) PercentComplete(pageKey string, totalSections int) int {
	return Percent(len(t.set(pageKey)), totalSections)
}

// CompletedOf counts the titles in the page's set that are among titles.
// Recorded titles the page no longer declares are not counted.
func (t *Tracker) CompletedOf(pageKey string, titles []string) int {
	set := t.set(pageKey)
	n := 0
	for _, title := range titles {
		if set.Has(title) {
			n++
		}
	}
	return n
}

// Percent returns floor(100 * completed / total), 0 when total is not
// positive, clamped to [0, 100].
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	pct := 100 * completed / total
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Save writes the in-memory set for pageKey into the durable record, keeping
// every other page's entry. If the record cannot be read the save is skipped
// so other pages are not clobbered.
func (t *Tracker) Save(pageKey string) {
	record, err := t.store.Load()
	if err != nil {
		t.warn("Could not save your reading progress.", err, zap.String("page", pageKey))
		return
	}
	if record == nil {
		record = models.ProgressRecord{}
	}
	record[pageKey] = t.set(pageKey).Sorted()

	if err := t.store.Save(record); err != nil {
		t.warn("Could not save your reading progress.", err, zap.String("page", pageKey))
	}
}

// Reset clears every completion toggle on the page, raises the reset notice
// for the next render and persists the empty set.
func (t *Tracker) Reset(pageKey string, titles []string) {
	set := t.set(pageKey)
	for _, title := range titles {
		delete(set, title)
	}
	t.completed[pageKey] = Set{}
	t.resetNotice[pageKey] = true

	t.logger.Info("Progress reset", zap.String("page", pageKey), zap.Int("sections", len(titles)))
	t.Save(pageKey)
}

// TakeResetNotice reports whether a reset happened on pageKey since the last
// call, and clears the notice.
func (t *Tracker) TakeResetNotice(pageKey string) bool {
	notice := t.resetNotice[pageKey]
	delete(t.resetNotice, pageKey)
	return notice
}

// TakeWarnings returns the pending reader-facing warnings and clears them.
func (t *Tracker) TakeWarnings() []string {
	w := t.warnings
	t.warnings = nil
	return w
}

func (t *Tracker) set(pageKey string) Set {
	set, ok := t.completed[pageKey]
	if !ok {
		set = Set{}
		t.completed[pageKey] = set
	}
	return set
}

func (t *Tracker) warn(msg string, err error, fields ...zap.Field) {
	t.logger.Warn(msg, append(fields, zap.Error(err))...)
	for _, w := range t.warnings {
		if w == msg {
			return
		}
	}
	t.warnings = append(t.warnings, msg)
}

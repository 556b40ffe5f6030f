// Package session keeps per-reader display state between requests: the
// progress tracker, each page's expansion state and sub-topic filter, and
// flash messages shown after a redirect.
//
// Sessions live in memory and are never evicted, so the map grows by one
// entry per cookieless request (crawlers, curl) until the process restarts.
package session

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/expansion"
	"github.com/LianHaeming/llmguide/progress"
)

// CookieName is the session cookie.
const CookieName = "llmguide_session"

// AllSubtopics is the sub-topic filter value that shows every section.
const AllSubtopics = "All"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-time message for the next page render.
type Flash struct {
	Kind    string
	Message string
}

// PageState is one page's display state for one reader.
type PageState struct {
	Expansion *expansion.Controller
	Subtopic  string
}

// Session is one reader's state. Hold the lock for a whole request.
type Session struct {
	sync.Mutex

	ID      string
	Tracker *progress.Tracker

	pages   map[string]*PageState
	flashes []Flash
}

// Page returns the state for pageKey, creating it on first use.
func (s *Session) Page(pageKey string) *PageState {
	ps, ok := s.pages[pageKey]
	if !ok {
		ps = &PageState{Expansion: expansion.New(), Subtopic: AllSubtopics}
		s.pages[pageKey] = ps
	}
	return ps
}

// AddFlash queues a message for the next render.
func (s *Session) AddFlash(kind, msg string) {
	s.flashes = append(s.flashes, Flash{Kind: kind, Message: msg})
}

// TakeFlashes returns the queued messages and clears them.
func (s *Session) TakeFlashes() []Flash {
	f := s.flashes
	s.flashes = nil
	return f
}

// Manager maps session cookies to sessions. Sessions live in memory and are
// lost on restart.
type Manager struct {
	store  progress.Store
	logger *zap.Logger
	secure bool

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(store progress.Store, logger *zap.Logger, secureCookies bool) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		logger:   logger,
		secure:   secureCookies,
		sessions: map[string]*Session{},
	}
}

// Get returns the request's session, starting a new one and setting the
// cookie when the request has none or an unknown id.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if s, ok := m.Lookup(c.Value); ok {
			return s
		}
	}

	s := m.New()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// New starts a session with a fresh id.
func (m *Manager) New() *Session {
	s := &Session{
		ID:      uuid.New().String(),
		Tracker: progress.NewTracker(m.store, m.logger.With(zap.String("component", "progress"))),
		pages:   map[string]*PageState{},
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("Session started", zap.String("session", s.ID))
	return s
}

// Lookup finds a session by id.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Package session keeps one isolated directory per client session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/user-directory/internal/config"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/metrics"
)

var (
	// ErrSessionNotFound is returned for unknown, ended or expired sessions
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionID is returned when an ID is not a UUID
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrTooManySessions is returned when MaxSessions is reached
	ErrTooManySessions = errors.New("too many active sessions")
)

// Session owns one directory store. Operations on a session run one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	store      *directory.Store
	lastAccess time.Time
}

// Do runs fn with exclusive access to the session's store
func (s *Session) Do(fn func(store *directory.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

// Manager creates, looks up and expires sessions
type Manager struct {
	source  directory.Source
	cfg     config.SessionConfig
	metrics metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates a session manager seeding every new session from source
func NewManager(source directory.Source, cfg config.SessionConfig, rec metrics.Recorder, log zerolog.Logger) *Manager {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Manager{
		source:   source,
		cfg:      cfg,
		metrics:  rec,
		log:      log.With().Str("component", "session").Logger(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session and seeds its directory. If seeding fails no
// session is registered and the error wraps directory.ErrSourceUnavailable.
func (m *Manager) Create(ctx context.Context) (*Session, directory.Directory, error) {
	if m.cfg.MaxSessions > 0 && m.Count() >= m.cfg.MaxSessions {
		m.Reap()
		if m.Count() >= m.cfg.MaxSessions {
			return nil, nil, ErrTooManySessions
		}
	}

	store := directory.NewStore(m.source, m.log)
	dir, err := store.Seed(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := m.now()
	s := &Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		store:      store,
		lastAccess: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	m.log.Info().Str("session_id", s.ID).Int("records", len(dir)).Msg("Session created")

	return s, dir, nil
}

// Get returns the session with id and marks it as recently used
func (m *Manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastAccess = m.now()
	return s, nil
}

// End discards a session and its directory
func (m *Manager) End(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidSessionID
	}

	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	m.metrics.SetActiveSessions(count)
	m.log.Info().Str("session_id", id).Msg("Session ended")
	return nil
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap removes sessions idle for longer than IdleTTL and returns how many
// were removed.
func (m *Manager) Reap() int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.lastAccess.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.metrics.SetActiveSessions(count)
		m.log.Info().Int("removed", removed).Int("active", count).Msg("Expired sessions reaped")
	}
	return removed
}

// StartReaper runs Reap every ReapInterval until ctx is done or StopReaper
// is called. It blocks; run it in its own goroutine.
func (m *Manager) StartReaper(ctx context.Context) {
	m.runMu.Lock()
	if m.running {
		m.runMu.Unlock()
		return
	}
	m.running = true
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	done := m.done
	m.runMu.Unlock()

	defer close(done)

	m.log.Info().Dur("interval", m.cfg.ReapInterval).Dur("idle_ttl", m.cfg.IdleTTL).Msg("Session reaper started")

	ticker := time.NewTicker(m.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("Session reaper stopping")
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}

// StopReaper stops a running reaper and waits for it to exit
func (m *Manager) StopReaper() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running {
		return
	}

	m.cancel()
	<-m.done
	m.running = false
	m.log.Info().Msg("Session reaper stopped")
}

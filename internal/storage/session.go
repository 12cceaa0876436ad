package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

// ErrSessionBusy is returned when a session is already being worked on.
var ErrSessionBusy = errors.New("session is busy")

type sessionEntry struct {
	mu      sync.Mutex
	session *entities.Session
	seenAt  time.Time
}

// SessionStorage keeps one isolated session per key in memory.
type SessionStorage[K comparable] struct {
	mu        sync.RWMutex
	questions []entities.Question
	sessions  map[K]*sessionEntry
	now       func() time.Time
}

// NewSessionStorage creates a new SessionStorage. Sessions are created
// lazily over the given question definitions.
func NewSessionStorage[K comparable](questions []entities.Question) *SessionStorage[K] {
	return &SessionStorage[K]{
		questions: questions,
		sessions:  make(map[K]*sessionEntry),
		now:       time.Now,
	}
}

// WithSession runs fn with exclusive access to the session for key,
// creating it on first use. If another call currently holds the session
// ErrSessionBusy is returned and fn is not run.
func (s *SessionStorage[K]) WithSession(key K, fn func(*entities.Session) error) error {
	e := s.entry(key)

	if !e.mu.TryLock() {
		return ErrSessionBusy
	}
	defer e.mu.Unlock()

	return fn(e.session)
}

// Len returns the number of live sessions.
func (s *SessionStorage[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions not accessed for longer than ttl and returns how many were removed.
// Sessions in use are kept.
func (s *SessionStorage[K]) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for key, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.seenAt.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
		e.mu.Unlock()
	}

	return removed
}

func (s *SessionStorage[K]) entry(key K) *sessionEntry {
	now := s.now()

	s.mu.RLock()
	e, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		s.mu.Lock()
		e.seenAt = now
		s.mu.Unlock()
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok = s.sessions[key]; ok {
		e.seenAt = now
		return e
	}

	e = &sessionEntry{
		session: entities.NewSession(s.questions),
		seenAt:  now,
	}
	s.sessions[key] = e
	return e
}

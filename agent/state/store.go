package state

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrStateNotFound   = errors.New("session state not found")
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

// Store is the session persistence contract used by the engine. Load returns
// ErrStateNotFound for unseen session ids; creation on first reference is the
// engine's job. Save is last-write-wins: callers must serialize turns for the
// same session id themselves.
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, st *SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryOption customizes MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSessionTTL enables lazy eviction: sessions untouched for longer than
// ttl are treated as not found and removed. Zero disables eviction (sessions
// then live for the process lifetime).
func WithSessionTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

// MemoryStore keeps session state in a process-wide map. All methods are safe
// for concurrent use; Load and Save copy state so two in-flight turns never
// alias the same history slice.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*SessionState),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	if s.expired(st) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, ErrStateNotFound
	}
	return st.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, st *SessionState) error {
	if st == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}
	st.EnsureSlots()

	s.mu.Lock()
	s.sessions[st.SessionID] = st.Clone()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes all expired sessions and returns how many were evicted.
// No-op when no TTL is configured.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, st := range s.sessions {
		if s.expired(st) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *MemoryStore) expired(st *SessionState) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(st.UpdatedAt) > s.ttl
}

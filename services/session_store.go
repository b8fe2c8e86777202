package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/lac-hong-legacy/mooc_api/model"
)

const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStoreSqlite   = "sqlite"
	SessionStorePostgres = "postgres"
)

// SessionStore is the backing behind SessionService. Get on a missing id
// returns model.ErrSessionNotFound. Update applies fn atomically per session:
// fn works on a private copy that is only persisted when fn returns nil.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Update(ctx context.Context, sessionID string, fn func(*model.Session) error) (*model.Session, error)
}

type memorySessionEntry struct {
	mu      sync.Mutex
	session *model.Session
}

// MemorySessionStore keeps sessions for the lifetime of the process. The map
// lock only guards membership; mutations of one session are serialized by
// that session's own mutex so unrelated sessions never wait on each other.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySessionEntry
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*memorySessionEntry)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	s.sessions[session.ID] = &memorySessionEntry{session: session.Clone()}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*model.Session, error) {
	entry, ok := s.entry(sessionID)
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Clone(), nil
}

func (s *MemorySessionStore) Update(_ context.Context, sessionID string, fn func(*model.Session) error) (*model.Session, error) {
	entry, ok := s.entry(sessionID)
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.session = working
	return working.Clone(), nil
}

func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) entry(sessionID string) (*memorySessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	return entry, ok
}

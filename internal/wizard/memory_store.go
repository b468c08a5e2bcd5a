package wizard

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests. Sessions
// are copied on the way in and out so callers never share memory with the
// store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Create persists a new session.
func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	s.Version = 1
	m.mu.Lock()
	m.sessions[s.ID] = cloneSession(s)
	m.mu.Unlock()
	return nil
}

// Get retrieves a session by id.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(stored), nil
}

// Save writes the session back, enforcing the Version compare-and-set.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[s.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.Version != s.Version {
		return ErrVersionConflict
	}
	s.Version++
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// cloneSession deep-copies via JSON; session payloads are small and this
// keeps the copy in lockstep with the persisted representation.
func cloneSession(s *Session) *Session {
	data, err := json.Marshal(s)
	if err != nil {
		// Session contains only marshalable fields.
		panic("wizard: marshal session: " + err.Error())
	}
	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		panic("wizard: unmarshal session: " + err.Error())
	}
	return &out
}

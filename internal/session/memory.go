package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Used when no Redis address is
// configured and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]UserSession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]UserSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, s UserSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Key] = s
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (UserSession, error) {
	m.mu.RLock()
	s, ok := m.sessions[key]
	m.mu.RUnlock()
	if !ok {
		return UserSession{}, ErrNotFound
	}
	if m.expired(s) {
		_ = m.Delete(ctx, key)
		return UserSession{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Touch(ctx context.Context, key string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok || m.expired(s) {
		delete(m.sessions, key)
		return ErrNotFound
	}
	s.LastActivity = at
	m.sessions[key] = s
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

func (m *MemoryStore) expired(s UserSession) bool {
	return m.ttl > 0 && m.now().Sub(s.LastActivity) > m.ttl
}

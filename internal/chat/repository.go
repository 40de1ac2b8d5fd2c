package chat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyContent    = errors.New("message content is required")
)

type Repository interface {
	CreateSession(ctx context.Context, s Session) (Session, error)
	// ListSessions returns the user's sessions, most recently updated first.
	ListSessions(ctx context.Context, userID int) ([]Session, error)
	// GetSession looks a session up by its public id, scoped to userID.
	GetSession(ctx context.Context, userID int, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, id int) error
	TouchSession(ctx context.Context, id int, at time.Time) error

	// AddMessage stores m and its related products in order.
	AddMessage(ctx context.Context, m Message) (Message, error)
	// ListMessages returns the session's messages, oldest first.
	ListMessages(ctx context.Context, sessionID int) ([]Message, error)
	ClearMessages(ctx context.Context, sessionID int) error
}

type InMemoryRepository struct {
	mu          sync.RWMutex
	sessions    []Session
	messages    []Message
	nextSession int
	nextMessage int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextSession: 1, nextMessage: 1}
}

func (r *InMemoryRepository) CreateSession(ctx context.Context, s Session) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextSession
	r.nextSession++
	r.sessions = append(r.sessions, s)
	return s, nil
}

func (r *InMemoryRepository) ListSessions(ctx context.Context, userID int) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Session, 0)
	for _, s := range r.sessions {
		if s.UserID == userID {
			s.MessageCount = r.countLocked(s.ID)
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetSession(ctx context.Context, userID int, sessionID string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.SessionID == sessionID {
			s.MessageCount = r.countLocked(s.ID)
			return s, nil
		}
	}
	return Session{}, ErrSessionNotFound
}

func (r *InMemoryRepository) DeleteSession(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			r.clearLocked(id)
			return nil
		}
	}
	return ErrSessionNotFound
}

func (r *InMemoryRepository) TouchSession(ctx context.Context, id int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].UpdatedAt = at
			return nil
		}
	}
	return ErrSessionNotFound
}

func (r *InMemoryRepository) AddMessage(ctx context.Context, m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextMessage
	r.nextMessage++
	m.RelatedProducts = append([]product.Product{}, m.RelatedProducts...)
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *InMemoryRepository) ListMessages(ctx context.Context, sessionID int) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Message, 0)
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *InMemoryRepository) ClearMessages(ctx context.Context, sessionID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked(sessionID)
	return nil
}

func (r *InMemoryRepository) clearLocked(sessionID int) {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.SessionID != sessionID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
}

func (r *InMemoryRepository) countLocked(sessionID int) int {
	n := 0
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			n++
		}
	}
	return n
}

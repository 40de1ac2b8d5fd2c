// Package session tracks login sessions. A session is created at login,
// referenced from the JWT by its key and removed at logout, which revokes
// the token even before it expires.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type UserSession struct {
	Key          string    `json:"session_key"`
	UserID       int       `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
}

// Store persists sessions. Implementations expire a session once it has been
// idle for longer than their TTL.
type Store interface {
	Save(ctx context.Context, s UserSession) error
	Get(ctx context.Context, key string) (UserSession, error)
	// Touch records activity and restarts the idle timer.
	Touch(ctx context.Context, key string, at time.Time) error
	Delete(ctx context.Context, key string) error
}

// Start creates and stores a new session for userID.
func Start(ctx context.Context, store Store, userID int, ip, userAgent string) (UserSession, error) {
	now := time.Now().UTC()
	s := UserSession{
		Key:          uuid.NewString(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}
	if err := store.Save(ctx, s); err != nil {
		return UserSession{}, err
	}
	return s, nil
}

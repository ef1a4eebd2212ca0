package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("session not found")

// Session binds an opaque, unguessable ID to a User for a fixed lifetime.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// SessionStore keeps server-side sessions.
type SessionStore interface {
	// Get returns ErrSessionNotFound when the session is unknown or expired.
	Get(ctx context.Context, id string) (Session, error)
	Set(ctx context.Context, sess Session) error
	// Destroy is a no-op for unknown IDs.
	Destroy(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// NewSessionID returns 32 random bytes, base64url encoded.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package inmemdb

import (
	"context"
	"time"

	"github.com/alfurqan/portal/core/auth"
)

type sessionStore struct {
	db  *table[auth.Session]
	now func() time.Time
}

var _ auth.SessionStore = (*sessionStore)(nil) // interface compliance check

// NewSessionStore keeps sessions in a mutex-guarded map.
func NewSessionStore(db *DB) *sessionStore {
	return &sessionStore{db: db.sessions, now: time.Now}
}

func (s *sessionStore) Get(_ context.Context, id string) (auth.Session, error) {
	sess, ok := s.db.get(id)
	if !ok || sess.Expired(s.now().UTC()) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return sess, nil
}

func (s *sessionStore) Set(_ context.Context, sess auth.Session) error {
	s.db.put(sess.ID, sess)
	return nil
}

func (s *sessionStore) Destroy(_ context.Context, id string) error {
	s.db.delete(id)
	return nil
}

func (s *sessionStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.db.Lock()
	defer s.db.Unlock()
	var n int
	for id, sess := range s.db.rows {
		if sess.Expired(now) {
			delete(s.db.rows, id)
			delete(s.db.seq, id)
			n++
		}
	}
	return n, nil
}

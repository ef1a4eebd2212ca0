package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/auth"
)

type sessionStore struct {
	base
}

var _ auth.SessionStore = (*sessionStore)(nil) // interface compliance check

// NewSessionStore keeps sessions in the sessions table.
func NewSessionStore(db *sqlx.DB) *sessionStore {
	return &sessionStore{base{db: db}}
}

func (s sessionStore) Get(ctx context.Context, id string) (auth.Session, error) {
	var sess auth.Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1 AND expires_at > $2`,
		id, time.Now().UTC())
	if err != nil {
		return auth.Session{}, trapNotFound(err, auth.ErrSessionNotFound, "getting session")
	}
	return sess, nil
}

func (s sessionStore) Set(ctx context.Context, sess auth.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at`,
		sess.ID, sess.UserID, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC())
	return errors.Wrap(err, "storing session")
}

func (s sessionStore) Destroy(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return errors.Wrap(err, "deleting session")
}

func (s sessionStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "deleting expired sessions")
}

package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountInactive    = errors.New("Account is inactive")
	ErrUnauthenticated    = errors.New("Not authenticated")
	ErrStaleSession       = errors.New("User not found")
)

type (
	// Users is the part of the user service the authenticator depends on.
	Users interface {
		GetByID(ctx context.Context, id string) (user.User, error)
		GetByUniqueID(ctx context.Context, uniqueID string) (user.User, error)
	}

	Service struct {
		users  Users
		store  SessionStore
		ttl    time.Duration
		logger core.Logger
	}
)

func NewService(users Users, store SessionStore, ttl time.Duration, logger core.Logger) *Service {
	return &Service{users: users, store: store, ttl: ttl, logger: logger}
}

func (svc *Service) TTL() time.Duration { return svc.ttl }

// Login checks the credentials (the surname is the password, case-insensitive) and opens a Session.
// Inactive accounts are refused even when the password matches.
func (svc *Service) Login(ctx context.Context, uniqueID, pwd string) (user.User, Session, error) {
	usr, err := svc.users.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, Session{}, ErrInvalidCredentials
		}
		return user.User{}, Session{}, errors.Wrap(err, "finding user by unique ID")
	}
	if !usr.CheckPassword(pwd) {
		return user.User{}, Session{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return user.User{}, Session{}, ErrAccountInactive
	}

	sid, err := NewSessionID()
	if err != nil {
		return user.User{}, Session{}, err
	}
	now := NowFunc().UTC()
	sess := Session{
		ID:        sid,
		UserID:    usr.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(svc.ttl),
	}
	if err = svc.store.Set(ctx, sess); err != nil {
		return user.User{}, Session{}, errors.Wrap(err, "storing session")
	}
	return usr, sess, nil
}

// CurrentUser resolves the User bound to the session.
// A session pointing to a User that no longer exists, or that was deactivated, is destroyed.
func (svc *Service) CurrentUser(ctx context.Context, sid string) (user.User, Session, error) {
	if sid == "" {
		return user.User{}, Session{}, ErrUnauthenticated
	}
	sess, err := svc.store.Get(ctx, sid)
	if err != nil {
		if errors.Cause(err) == ErrSessionNotFound {
			return user.User{}, Session{}, ErrUnauthenticated
		}
		return user.User{}, Session{}, errors.Wrap(err, "getting session")
	}

	usr, err := svc.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			if dErr := svc.store.Destroy(ctx, sid); dErr != nil {
				svc.logger.Warn("destroying stale session", dErr)
			}
			return user.User{}, Session{}, ErrStaleSession
		}
		return user.User{}, Session{}, errors.Wrap(err, "finding session user")
	}
	if !usr.IsActive {
		if dErr := svc.store.Destroy(ctx, sid); dErr != nil {
			svc.logger.Warn("destroying inactive user session", dErr)
		}
		return user.User{}, Session{}, ErrAccountInactive
	}
	return usr, sess, nil
}

// Logout destroys the session. Unknown or empty IDs are not an error.
func (svc *Service) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return errors.Wrap(svc.store.Destroy(ctx, sid), "destroying session")
}

// SweepExpired removes expired sessions from the store.
func (svc *Service) SweepExpired(ctx context.Context) (int, error) {
	n, err := svc.store.DeleteExpired(ctx, NowFunc().UTC())
	return n, errors.Wrap(err, "deleting expired sessions")
}

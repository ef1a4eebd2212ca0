package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/user"
	logsvc "github.com/alfurqan/portal/services/logger"
	inmemdb "github.com/alfurqan/portal/storage/database/inmem"
)

type fixture struct {
	svc   *auth.Service
	users *user.Service
	usr   user.User
}

func newFixture(t *testing.T, ttl time.Duration) fixture {
	t.Helper()
	conf := core.NewTestConfig()
	db := inmemdb.Open()
	users := user.NewService(inmemdb.NewUserRepository(db))
	svc := auth.NewService(users, inmemdb.NewSessionStore(db), ttl, logsvc.NewTestLogger(conf))

	usr, err := users.Create(context.Background(), user.NewUser{FirstName: "Jane", Surname: "Doe", Role: user.RoleStudent})
	require.NoError(t, err)
	return fixture{svc: svc, users: users, usr: usr}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	usr, sess, err := f.svc.Login(ctx, f.usr.UniqueID, "dOe")
	require.NoError(t, err)
	assert.Equal(t, f.usr.ID, usr.ID)
	assert.Equal(t, usr.ID, sess.UserID)
	assert.Len(t, sess.ID, 43)
	assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.CreatedAt))

	_, _, err = f.svc.Login(ctx, f.usr.UniqueID, "Smith")
	assert.Equal(t, auth.ErrInvalidCredentials, err)
	_, _, err = f.svc.Login(ctx, "STU000000", "Doe")
	assert.Equal(t, auth.ErrInvalidCredentials, err)

	_, err = f.users.SetActive(ctx, f.usr.UniqueID, false)
	require.NoError(t, err)
	_, _, err = f.svc.Login(ctx, f.usr.UniqueID, "Doe")
	assert.Equal(t, auth.ErrAccountInactive, err)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	_, _, err := f.svc.CurrentUser(ctx, "")
	assert.Equal(t, auth.ErrUnauthenticated, err)
	_, _, err = f.svc.CurrentUser(ctx, "unknown")
	assert.Equal(t, auth.ErrUnauthenticated, err)

	_, sess, err := f.svc.Login(ctx, f.usr.UniqueID, "Doe")
	require.NoError(t, err)
	usr, _, err := f.svc.CurrentUser(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, f.usr.ID, usr.ID)

	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	require.NoError(t, f.svc.Logout(ctx, ""))
	_, _, err = f.svc.CurrentUser(ctx, sess.ID)
	assert.Equal(t, auth.ErrUnauthenticated, errors.Cause(err))
}

func TestCurrentUserDeactivated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)
	_, sess, err := f.svc.Login(ctx, f.usr.UniqueID, "Doe")
	require.NoError(t, err)

	_, err = f.users.SetActive(ctx, f.usr.UniqueID, false)
	require.NoError(t, err)
	_, _, err = f.svc.CurrentUser(ctx, sess.ID)
	assert.Equal(t, auth.ErrAccountInactive, err)

	// reactivating does not bring the session back
	_, err = f.users.SetActive(ctx, f.usr.UniqueID, true)
	require.NoError(t, err)
	_, _, err = f.svc.CurrentUser(ctx, sess.ID)
	assert.Equal(t, auth.ErrUnauthenticated, err)
}

func TestSweepExpired(t *testing.T) {
	defer func(f func() time.Time) { auth.NowFunc = f }(auth.NowFunc)
	ctx := context.Background()
	f := newFixture(t, time.Minute)

	auth.NowFunc = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	_, stale, err := f.svc.Login(ctx, f.usr.UniqueID, "Doe")
	require.NoError(t, err)
	auth.NowFunc = time.Now
	_, fresh, err := f.svc.Login(ctx, f.usr.UniqueID, "Doe")
	require.NoError(t, err)

	_, _, err = f.svc.CurrentUser(ctx, stale.ID)
	assert.Equal(t, auth.ErrUnauthenticated, err, "expired sessions are refused before the sweep")

	n, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, _, err = f.svc.CurrentUser(ctx, fresh.ID)
	assert.NoError(t, err)
}

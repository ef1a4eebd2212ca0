package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/alfurqan/portal/apps/api/echo"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

type meResponse struct {
	User    user.User `json:"user"`
	Message string    `json:"message"`
}

func TestLogin(t *testing.T) {
	app := setup(t)
	ctx := t.Context()

	_, err := app.svcs.User.SetActive(ctx, "STU24001", false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		data     LoginRequest
		wantCode int
		wantMsg  string
	}{
		{"exact surname", LoginRequest{UniqueID: "STF24001", Password: "Teacher"}, http.StatusOK, "Login successful"},
		{"lowercase surname", LoginRequest{UniqueID: "STF24001", Password: "teacher"}, http.StatusOK, "Login successful"},
		{"uppercase surname", LoginRequest{UniqueID: "STF24001", Password: "TEACHER"}, http.StatusOK, "Login successful"},
		{"lowercase unique ID", LoginRequest{UniqueID: "stf24001", Password: "Teacher"}, http.StatusOK, "Login successful"},
		{"wrong surname", LoginRequest{UniqueID: "STF24001", Password: "Manager"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown unique ID", LoginRequest{UniqueID: "STF99999", Password: "Teacher"}, http.StatusUnauthorized, "Invalid credentials"},
		{"inactive account", LoginRequest{UniqueID: "STU24001", Password: "Student"}, http.StatusForbidden, "Account is inactive"},
		{"inactive account, wrong surname", LoginRequest{UniqueID: "STU24001", Password: "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", LoginRequest{UniqueID: "STF24001"}, http.StatusBadRequest, "Invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/api/auth/login", nil, marshalObj(t, tt.data))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var res meResponse
			decode(t, rec, &res)
			assert.Equal(t, tt.wantMsg, res.Message)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "STF24001", res.User.UniqueID)
				c := sessionCookie(t, app.conf, rec)
				assert.True(t, c.HttpOnly)
				assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			}
		})
	}
}

func TestMe(t *testing.T) {
	app := setup(t)

	t.Run("no session", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authenticated", decodeErr(t, rec).Message)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		c := app.staffCookie(t)
		forged := *c
		forged.Value = c.Value[:len(c.Value)-2] + "xx"
		rec := app.do(http.MethodGet, "/api/auth/me", &forged)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed with another key", func(t *testing.T) {
		other := setup(t, func(conf *core.Config) { conf.SecretKey = "another-secret" })
		c := other.staffCookie(t)
		rec := app.do(http.MethodGet, "/api/auth/me", c)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/auth/me", app.staffCookie(t))
		require.Equal(t, http.StatusOK, rec.Code)
		var res meResponse
		decode(t, rec, &res)
		assert.Equal(t, "STF24001", res.User.UniqueID)
		assert.Equal(t, user.RoleStaff, res.User.Role)
	})
}

func TestMeDestroysStaleSession(t *testing.T) {
	app := setup(t)
	ctx := t.Context()

	usr, err := app.svcs.User.Create(ctx, user.NewUser{FirstName: "Temp", Surname: "Account", Role: user.RoleStudent})
	require.NoError(t, err)
	c := app.login(t, usr.UniqueID, "account")

	deleter, ok := app.storage.Users.(interface{ DeleteUser(id string) bool })
	require.True(t, ok)
	require.True(t, deleter.DeleteUser(usr.ID))

	rec := app.do(http.MethodGet, "/api/auth/me", c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", decodeErr(t, rec).Message)

	// the session itself is gone now
	rec = app.do(http.MethodGet, "/api/auth/me", c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", decodeErr(t, rec).Message)
}

func TestDeactivatedUserLosesSession(t *testing.T) {
	app := setup(t)
	c := app.staffCookie(t)

	_, err := app.svcs.User.SetActive(t.Context(), "STF24001", false)
	require.NoError(t, err)

	rec := app.do(http.MethodGet, "/api/notices", c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Account is inactive", decodeErr(t, rec).Message)
}

func TestLogout(t *testing.T) {
	app := setup(t)

	t.Run("without session", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/auth/logout", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Logged out successfully", decodeErr(t, rec).Message)
	})

	t.Run("twice", func(t *testing.T) {
		c := app.staffCookie(t)
		for i := 0; i < 2; i++ {
			rec := app.do(http.MethodPost, "/api/auth/logout", c)
			require.Equal(t, http.StatusOK, rec.Code)
		}
		rec := app.do(http.MethodGet, "/api/auth/me", c)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("only ends its own session", func(t *testing.T) {
		c1 := app.staffCookie(t)
		c2 := app.staffCookie(t)
		rec := app.do(http.MethodPost, "/api/auth/logout", c1)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/auth/me", c1).Code)
		assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/auth/me", c2).Code)
	})
}

func TestLoginRateLimit(t *testing.T) {
	app := setup(t, func(conf *core.Config) { conf.Auth.LoginRateLimit = 2 })
	body := marshalObj(t, LoginRequest{UniqueID: "STF24001", Password: "wrong"})

	for i := 0; i < 2; i++ {
		rec := app.do(http.MethodPost, "/api/auth/login", nil, body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := app.do(http.MethodPost, "/api/auth/login", nil, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

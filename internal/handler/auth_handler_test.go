package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwatpal1021/Master-O/internal/model"
	"github.com/shashwatpal1021/Master-O/internal/service"
)

type fakeUserStore struct {
	byID    map[string]model.User
	byEmail map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]model.User{}, byEmail: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	if _, exists := f.byEmail[strings.ToLower(u.Email)]; exists {
		return model.ErrEmailTaken
	}
	f.byID[u.ID] = u
	f.byEmail[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

type fakeTokenStore struct {
	rows map[string]model.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: map[string]model.RefreshToken{}}
}

func (f *fakeTokenStore) Store(_ context.Context, tokenHash string, userID string, expiresAt time.Time) error {
	f.rows[tokenHash] = model.RefreshToken{TokenHash: tokenHash, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokenStore) FindByHash(_ context.Context, tokenHash string) (model.RefreshToken, error) {
	row, ok := f.rows[tokenHash]
	if !ok {
		return model.RefreshToken{}, model.ErrInvalidRefresh
	}
	return row, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, tokenHash string) error {
	if row, ok := f.rows[tokenHash]; ok {
		row.Revoked = true
		f.rows[tokenHash] = row
	}
	return nil
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *service.AuthService) {
	t.Helper()
	svc := service.NewAuthService("test-secret", 15*time.Minute, 168*time.Hour, newFakeUserStore(), newFakeTokenStore())
	return NewAuthHandler(svc, false), svc
}

func registerUser(t *testing.T, svc *service.AuthService, email string, password string) model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), "Alice", email, password, model.RoleEmployee)
	require.NoError(t, err)
	return user
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookies(t *testing.T, rec *httptest.ResponseRecorder) (access *http.Cookie, refresh *http.Cookie) {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case accessTokenCookie:
			access = c
		case refreshTokenCookie:
			refresh = c
		}
	}
	return access, refresh
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("sets http-only lax session cookies and omits the password", func(t *testing.T) {
		h, svc := newTestAuthHandler(t)
		registerUser(t, svc, "alice@example.com", "hunter22")

		rec := postJSON(t, h.Login, "/api/auth/login", model.LoginRequest{Email: "alice@example.com", Password: "hunter22"})

		require.Equal(t, http.StatusOK, rec.Code)

		access, refresh := sessionCookies(t, rec)
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		for _, c := range []*http.Cookie{access, refresh} {
			assert.True(t, c.HttpOnly)
			assert.Equal(t, "/", c.Path)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.NotEmpty(t, c.Value)
		}
		assert.Equal(t, int((15 * time.Minute).Seconds()), access.MaxAge)
		assert.Equal(t, int((168 * time.Hour).Seconds()), refresh.MaxAge)

		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "hunter22")

		claims, err := svc.ValidateAccessToken(access.Value)
		require.NoError(t, err)
		assert.Equal(t, model.RoleEmployee, claims.Role)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		h, svc := newTestAuthHandler(t)
		registerUser(t, svc, "alice@example.com", "hunter22")

		recWrongPw := postJSON(t, h.Login, "/api/auth/login", model.LoginRequest{Email: "alice@example.com", Password: "nope"})
		recUnknown := postJSON(t, h.Login, "/api/auth/login", model.LoginRequest{Email: "nobody@example.com", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, recWrongPw.Code)
		assert.Equal(t, recWrongPw.Code, recUnknown.Code)
		assert.Equal(t, recWrongPw.Body.String(), recUnknown.Body.String())
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("no cookie is 401", func(t *testing.T) {
		h, _ := newTestAuthHandler(t)

		rec := postJSON(t, h.Refresh, "/api/auth/refresh", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid refresh cookie yields a fresh access token with the same claims", func(t *testing.T) {
		h, svc := newTestAuthHandler(t)
		user := registerUser(t, svc, "alice@example.com", "hunter22")

		login := postJSON(t, h.Login, "/api/auth/login", model.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
		loginAccess, refresh := sessionCookies(t, login)
		require.NotNil(t, refresh)

		rec := postJSON(t, h.Refresh, "/api/auth/refresh", nil, refresh)
		require.Equal(t, http.StatusOK, rec.Code)

		newAccess, _ := sessionCookies(t, rec)
		require.NotNil(t, newAccess)

		original, err := svc.ValidateAccessToken(loginAccess.Value)
		require.NoError(t, err)
		refreshed, err := svc.ValidateAccessToken(newAccess.Value)
		require.NoError(t, err)
		assert.Equal(t, original.UserID, refreshed.UserID)
		assert.Equal(t, original.Role, refreshed.Role)
		assert.Equal(t, user.ID, refreshed.UserID)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revoked refresh token never mints another access token", func(t *testing.T) {
		h, svc := newTestAuthHandler(t)
		registerUser(t, svc, "alice@example.com", "hunter22")

		login := postJSON(t, h.Login, "/api/auth/login", model.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
		_, refresh := sessionCookies(t, login)
		require.NotNil(t, refresh)

		logout := postJSON(t, h.Logout, "/api/auth/logout", nil, refresh)
		require.Equal(t, http.StatusNoContent, logout.Code)

		// Both cookies are cleared.
		access, cleared := sessionCookies(t, logout)
		require.NotNil(t, access)
		require.NotNil(t, cleared)
		assert.Less(t, access.MaxAge, 0)
		assert.Less(t, cleared.MaxAge, 0)

		// Replaying the old refresh cookie fails.
		rec := postJSON(t, h.Refresh, "/api/auth/refresh", nil, refresh)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout without a cookie still clears and returns 204", func(t *testing.T) {
		h, _ := newTestAuthHandler(t)

		rec := postJSON(t, h.Logout, "/api/auth/logout", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("response never carries a password field", func(t *testing.T) {
		h, _ := newTestAuthHandler(t)

		rec := postJSON(t, h.Register, "/api/auth/register", model.RegisterRequest{
			Name: "Bob", Email: "bob@example.com", Password: "hunter22",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "hunter22")
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		h, svc := newTestAuthHandler(t)
		registerUser(t, svc, "bob@example.com", "hunter22")

		rec := postJSON(t, h.Register, "/api/auth/register", model.RegisterRequest{
			Name: "Bob", Email: "bob@example.com", Password: "hunter22",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashwatpal1021/Master-O/internal/model"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Store(ctx context.Context, tokenHash string, userID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenHash, userID, expiresAt)
	return args.Error(0)
}

func (m *mockTokenStore) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *mockTokenStore) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func newTestAuthService(users *mockUserStore, tokens *mockTokenStore) *AuthService {
	return NewAuthService("test-secret", 15*time.Minute, 168*time.Hour, users, tokens)
}

func testUser(t *testing.T, password string) model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return model.User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleEmployee,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("stores a bcrypt hash, never the plaintext", func(t *testing.T) {
		users := new(mockUserStore)
		tokens := new(mockTokenStore)
		svc := newTestAuthService(users, tokens)

		var stored model.User
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			stored = u
			return true
		})).Return(nil)

		user, err := svc.Register(context.Background(), "Bob", "bob@example.com", "hunter22", "")

		assert.NoError(t, err)
		assert.NotEqual(t, "hunter22", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
		assert.Equal(t, model.RoleEmployee, user.Role, "role defaults to EMPLOYEE")
		users.AssertExpectations(t)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := newTestAuthService(new(mockUserStore), new(mockTokenStore))

		_, err := svc.Register(context.Background(), "Bob", "", "hunter22", "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := newTestAuthService(new(mockUserStore), new(mockTokenStore))

		_, err := svc.Register(context.Background(), "Bob", "bob@example.com", "hunter22", "MANAGER")
		assert.Error(t, err)
	})

	t.Run("propagates duplicate email", func(t *testing.T) {
		users := new(mockUserStore)
		users.On("Create", mock.Anything, mock.Anything).Return(model.ErrEmailTaken)
		svc := newTestAuthService(users, new(mockTokenStore))

		_, err := svc.Register(context.Background(), "Bob", "bob@example.com", "hunter22", "")
		assert.ErrorIs(t, err, model.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("unknown email and wrong password yield the same error", func(t *testing.T) {
		users := new(mockUserStore)
		users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, model.ErrUserNotFound)
		users.On("FindByEmail", mock.Anything, "alice@example.com").Return(testUser(t, "correct"), nil)
		svc := newTestAuthService(users, new(mockTokenStore))

		_, _, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
		_, _, _, errWrongPw := svc.Login(context.Background(), "alice@example.com", "incorrect")

		assert.ErrorIs(t, errUnknown, model.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPw, model.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})

	t.Run("issues access token and persists only the refresh hash", func(t *testing.T) {
		user := testUser(t, "correct")
		users := new(mockUserStore)
		users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		var storedHash string
		tokens := new(mockTokenStore)
		tokens.On("Store", mock.Anything, mock.MatchedBy(func(hash string) bool {
			storedHash = hash
			return true
		}), user.ID, mock.Anything).Return(nil)

		svc := newTestAuthService(users, tokens)

		got, accessToken, refreshSecret, err := svc.Login(context.Background(), user.Email, "correct")
		require.NoError(t, err)

		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, refreshSecret)
		assert.NotEqual(t, refreshSecret, storedHash, "raw secret must not be stored")
		assert.Equal(t, hashRefreshSecret(refreshSecret), storedHash)

		claims, err := svc.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Role, claims.Role)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	user := testUser(t, "correct")
	hash := hashRefreshSecret("the-secret")

	t.Run("revoked, expired and unknown all collapse to the same error", func(t *testing.T) {
		cases := map[string]struct {
			row model.RefreshToken
			err error
		}{
			"unknown": {model.RefreshToken{}, model.ErrInvalidRefresh},
			"revoked": {model.RefreshToken{TokenHash: hash, UserID: user.ID, Revoked: true, ExpiresAt: time.Now().Add(time.Hour)}, nil},
			"expired": {model.RefreshToken{TokenHash: hash, UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}, nil},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				tokens := new(mockTokenStore)
				tokens.On("FindByHash", mock.Anything, hash).Return(tc.row, tc.err)
				svc := newTestAuthService(new(mockUserStore), tokens)

				_, _, err := svc.Refresh(context.Background(), "the-secret")
				assert.ErrorIs(t, err, model.ErrInvalidRefresh)
			})
		}
	})

	t.Run("valid token mints an access token with the owner's claims", func(t *testing.T) {
		tokens := new(mockTokenStore)
		tokens.On("FindByHash", mock.Anything, hash).Return(model.RefreshToken{
			TokenHash: hash,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		users := new(mockUserStore)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		svc := newTestAuthService(users, tokens)

		got, accessToken, err := svc.Refresh(context.Background(), "the-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		claims, err := svc.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Role, claims.Role)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes by hash", func(t *testing.T) {
		tokens := new(mockTokenStore)
		tokens.On("Revoke", mock.Anything, hashRefreshSecret("the-secret")).Return(nil)
		svc := newTestAuthService(new(mockUserStore), tokens)

		assert.NoError(t, svc.Logout(context.Background(), "the-secret"))
		tokens.AssertExpectations(t)
	})

	t.Run("blank secret is a no-op", func(t *testing.T) {
		tokens := new(mockTokenStore)
		svc := newTestAuthService(new(mockUserStore), tokens)

		assert.NoError(t, svc.Logout(context.Background(), "  "))
		tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc := newTestAuthService(new(mockUserStore), new(mockTokenStore))

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("rejects tokens signed with a different secret", func(t *testing.T) {
		other := NewAuthService("other-secret", time.Minute, time.Hour, new(mockUserStore), new(mockTokenStore))
		token, err := other.signAccessToken(testUser(t, "pw"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		expired := NewAuthService("test-secret", -time.Minute, time.Hour, new(mockUserStore), new(mockTokenStore))
		token, err := expired.signAccessToken(testUser(t, "pw"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashwatpal1021/Master-O/internal/model"
	"github.com/shashwatpal1021/Master-O/pkg/apierror"
)

const bcryptCost = 12

// refreshSecretBytes is the entropy of the opaque refresh token secret.
const refreshSecretBytes = 64

type userStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

type tokenStore interface {
	Store(ctx context.Context, tokenHash string, userID string, expiresAt time.Time) error
	FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
}

type AuthService struct {
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      userStore
	tokens     tokenStore
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, users userStore, tokens tokenStore) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
	}
}

func (s *AuthService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *AuthService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *AuthService) Register(ctx context.Context, name string, email string, password string, role string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	role = strings.ToUpper(strings.TrimSpace(role))

	if name == "" || email == "" || password == "" {
		return model.User{}, apierror.New("BAD_REQUEST", "name, email and password are required", http.StatusBadRequest)
	}
	if role == "" {
		role = model.RoleEmployee
	}
	if !model.ValidRole(role) {
		return model.User{}, apierror.New("BAD_REQUEST", "invalid role", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed access token plus an opaque
// refresh secret. Unknown email and wrong password collapse to the same
// error so a caller cannot probe which half failed.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.User, string, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, "", "", model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, "", "", model.ErrInvalidCredentials
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return model.User{}, "", "", err
	}

	secret, err := newRefreshSecret()
	if err != nil {
		return model.User{}, "", "", err
	}

	expiresAt := time.Now().UTC().Add(s.refreshTTL)
	if err := s.tokens.Store(ctx, hashRefreshSecret(secret), user.ID, expiresAt); err != nil {
		return model.User{}, "", "", err
	}

	return user, accessToken, secret, nil
}

// Refresh exchanges a valid refresh secret for a new access token. The
// refresh token is not rotated. Absent, revoked and expired rows all
// collapse to the same error.
func (s *AuthService) Refresh(ctx context.Context, rawSecret string) (model.User, string, error) {
	token, err := s.tokens.FindByHash(ctx, hashRefreshSecret(rawSecret))
	if err != nil {
		if errors.Is(err, model.ErrInvalidRefresh) {
			return model.User{}, "", model.ErrInvalidRefresh
		}
		return model.User{}, "", err
	}

	if token.Revoked || time.Now().UTC().After(token.ExpiresAt) {
		return model.User{}, "", model.ErrInvalidRefresh
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		return model.User{}, "", model.ErrInvalidRefresh
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return model.User{}, "", err
	}
	return user, accessToken, nil
}

// Logout revokes the presented refresh secret. Unknown secrets are ignored.
func (s *AuthService) Logout(ctx context.Context, rawSecret string) error {
	if strings.TrimSpace(rawSecret) == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, hashRefreshSecret(rawSecret))
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrForbidden
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrForbidden
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrForbidden
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Role, _ = claimsMap["role"].(string)

	if claims.UserID == "" || !model.ValidRole(claims.Role) {
		return nil, model.ErrForbidden
	}
	return claims, nil
}

func (s *AuthService) signAccessToken(user model.User) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func newRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashRefreshSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

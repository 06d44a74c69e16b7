package model

import "time"

// RefreshToken is the persisted form of an issued refresh token. Only the
// SHA-256 hash of the secret is stored; the raw secret leaves the server
// exactly once, in the login response cookie.
type RefreshToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

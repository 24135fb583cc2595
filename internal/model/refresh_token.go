package model

import (
	"errors"
	"fmt"
	"time"
)

// RefreshToken is a rotating refresh token persisted in Postgres.
// UserID holds the hex id of the owning User document.
type RefreshToken struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	TokenHash  string     `db:"token_hash" json:"-"` // Never expose hash
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	RevokedAt  *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	ReplacedBy *string    `db:"replaced_by" json:"replaced_by,omitempty"`
	DeviceInfo *string    `db:"device_info" json:"device_info,omitempty"`
	IPAddress  *string    `db:"ip_address" json:"ip_address,omitempty"`
}

// IsRevoked returns true if the token has been revoked
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Refresh token errors
var (
	ErrRefreshTokenNotFound = fmt.Errorf("refresh token: %w", ErrCredentials)
	ErrRefreshTokenExpired  = fmt.Errorf("refresh token expired: %w", ErrCredentials)
	ErrRefreshTokenReused   = fmt.Errorf("refresh token reuse detected: %w", ErrCredentials)
	ErrMissingSecret        = errors.New("jwt secret is not configured")
)

// Token API error codes (used in HTTP responses)
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenReused  = "TOKEN_REUSED"
)

// TokenPair represents both tokens returned after signup/login/refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // Seconds until access token expires
}

// AuthResponse is returned after a successful signup or login
type AuthResponse struct {
	Profile Profile `json:"profile"`
	TokenPair
}

// RefreshRequest is the request body for POST /api/auth/refresh and /logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

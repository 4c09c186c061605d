package models

import (
	"time"

	"github.com/google/uuid"
)

// Server-side ledger entry for one issued refresh token.
// Only the SHA-256 hash of the token value is persisted, never the raw value.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time

	// nil until the token is revoked; once set the token can never become live again
	RevokedAt *time.Time

	// Set when the token was superseded by a newer one during rotation
	ReplacedByTokenID *uuid.UUID
}

func (t RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

func (t RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Live reports whether the token is still acceptable for rotation:
// not revoked and not expired
func (t RefreshToken) Live(now time.Time) bool {
	return !t.Revoked() && !t.Expired(now)
}

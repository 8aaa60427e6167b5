// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is one revocable login. TokenDigest is the SHA-256 of the
// issued token; the raw token is never persisted.
type Session struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	TokenDigest    string    `db:"token_digest"`
	IPAddress      string    `db:"ip_address"`
	UserAgent      string    `db:"user_agent"`
	ExpiresAt      time.Time `db:"expires_at"`
	LastActivityAt time.Time `db:"last_activity_at"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) IsValid() bool {
	return s.IsActive && !s.IsExpired()
}

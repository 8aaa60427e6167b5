// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/angelamos/wholesale-api/internal/user"
)

// LoginRequest takes a username or an email in the identifier field.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type LoginResponse struct {
	User      user.UserResponse `json:"user"`
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type SessionInfo struct {
	ID             string    `json:"id"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

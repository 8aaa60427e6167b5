// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelamos/wholesale-api/internal/core"
)

const (
	UserIDKey      contextKey = "user_id"
	UsernameKey    contextKey = "username"
	UserTierKey    contextKey = "user_tier"
	TokenDigestKey contextKey = "token_digest"
)

// SessionClaims is the decoded identity carried by a session token.
type SessionClaims struct {
	UserID      string
	Username    string
	Tier        string
	TokenDigest string
}

type TokenVerifier interface {
	VerifySessionToken(
		ctx context.Context,
		token string,
	) (*SessionClaims, error)
}

// SessionChecker answers whether the session row behind a token digest is
// still active. A logged-out token fails this check even before its
// signature expires.
type SessionChecker interface {
	IsSessionActive(ctx context.Context, tokenDigest string) (bool, error)
}

// Authorizer resolves a user's effective permission for one
// (resource, action) pair. Computed fresh per request; never cached.
type Authorizer interface {
	Authorized(
		ctx context.Context,
		userID, resource, action string,
	) (bool, error)
}

func Authenticator(
	verifier TokenVerifier,
	sessions SessionChecker,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(w, core.TokenMissingError())
				return
			}

			claims, err := verifier.VerifySessionToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			active, err := sessions.IsSessionActive(
				r.Context(),
				claims.TokenDigest,
			)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}
			if !active {
				core.JSONError(w, core.TokenRevokedError())
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, UserTierKey, claims.Tier)
			ctx = context.WithValue(ctx, TokenDigestKey, claims.TokenDigest)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SignatureAuthenticator verifies the token signature and claims but
// skips the session-revocation check. Logout uses it so that revoking
// an already-revoked session still succeeds.
func SignatureAuthenticator(
	verifier TokenVerifier,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(w, core.TokenMissingError())
				return
			}

			claims, err := verifier.VerifySessionToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, UserTierKey, claims.Tier)
			ctx = context.WithValue(ctx, TokenDigestKey, claims.TokenDigest)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on one (resource, action) capability.
// Absence of authorization is a plain rejection, never partial access.
func RequirePermission(
	az Authorizer,
	resource, action string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.JSONError(w, core.TokenMissingError())
				return
			}

			allowed, err := az.Authorized(r.Context(), userID, resource, action)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			if !allowed {
				core.JSONError(w, core.InsufficientPermissionsError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUsername(ctx context.Context) string {
	if name, ok := ctx.Value(UsernameKey).(string); ok {
		return name
	}
	return ""
}

func GetUserTier(ctx context.Context) string {
	if tier, ok := ctx.Value(UserTierKey).(string); ok {
		return tier
	}
	return ""
}

func GetTokenDigest(ctx context.Context) string {
	if digest, ok := ctx.Value(TokenDigestKey).(string); ok {
		return digest
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}

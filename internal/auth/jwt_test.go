// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelamos/wholesale-api/internal/config"
	"github.com/angelamos/wholesale-api/internal/core"
)

func newTestManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	manager, err := NewJWTManager(config.AuthConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		SessionTokenExpire: expire,
		Issuer:             "test-issuer",
		Audience:           "test-audience",
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	return manager
}

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	data, err := manager.CreateSessionToken("user-1", "alice", "advanced")
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	if data.Digest != core.HashToken(data.Token) {
		t.Fatal("digest must be the token hash")
	}
	if time.Until(data.ExpiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", data.ExpiresAt)
	}

	claims, err := manager.VerifySessionToken(context.Background(), data.Token)
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
	if claims.Username != "alice" || claims.Tier != "advanced" {
		t.Fatalf("claims not preserved: %+v", claims)
	}
	if claims.TokenDigest != data.Digest {
		t.Fatal("verified digest must match issued digest")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	data, err := manager.CreateSessionToken("user-1", "alice", "basic")
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	tampered := data.Token[:len(data.Token)-4] + "AAAA"
	_, err = manager.VerifySessionToken(context.Background(), tampered)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager := newTestManager(t, -time.Minute)

	data, err := manager.CreateSessionToken("user-1", "alice", "basic")
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	_, err = manager.VerifySessionToken(context.Background(), data.Token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	issuerA := newTestManager(t, time.Hour)
	issuerB := newTestManager(t, time.Hour)

	data, err := issuerA.CreateSessionToken("user-1", "alice", "basic")
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	_, err = issuerB.VerifySessionToken(context.Background(), data.Token)
	if err == nil {
		t.Fatal("expected verification under a different key to fail")
	}
}

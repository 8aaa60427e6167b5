// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	valid, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !valid {
		t.Fatal("correct password must verify")
	}

	valid, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if valid {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-hash"); err == nil {
		t.Fatal("malformed hash must error")
	}
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	valid, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if valid || newHash != "" {
		t.Fatal("nil stored hash must never verify")
	}

	empty := ""
	valid, _, err = VerifyPasswordTimingSafe("anything", &empty)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if valid {
		t.Fatal("empty stored hash must never verify")
	}
}

func TestVerifyPasswordTimingSafeRealHash(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	valid, _, err := VerifyPasswordTimingSafe("secret", &hash)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if !valid {
		t.Fatal("correct password against real hash must verify")
	}

	valid, _, err = VerifyPasswordTimingSafe("not it", &hash)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if valid {
		t.Fatal("wrong password against real hash must not verify")
	}
}

func TestHashToken(t *testing.T) {
	digest := HashToken("some-bearer-token")
	if len(digest) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(digest))
	}
	if digest != HashToken("some-bearer-token") {
		t.Fatal("token digest must be deterministic")
	}
	if digest == HashToken("other-token") {
		t.Fatal("distinct tokens must digest differently")
	}

	if !CompareTokenHash("some-bearer-token", digest) {
		t.Fatal("CompareTokenHash must match the original token")
	}
	if CompareTokenHash("other-token", digest) {
		t.Fatal("CompareTokenHash must reject a different token")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	second, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	if first == second {
		t.Fatal("tokens must not repeat")
	}
}

package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", "anna@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ValidateToken(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("validate: %v", err)
	}

	id, err := ExtractIDFromToken(token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("expected subject user-1, got %q", id)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", "anna@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	if a != b {
		t.Fatalf("hash not deterministic: %q vs %q", a, b)
	}
	if a == HashToken("other-token") {
		t.Fatal("distinct tokens must not collide trivially")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha-256 length 64, got %d", len(a))
	}
}

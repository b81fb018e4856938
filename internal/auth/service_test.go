package auth

import (
	"testing"
	"time"

	"github.com/hanan-raza/mini-revolut/internal/config"
	"github.com/hanan-raza/mini-revolut/internal/identity"
)

func testConfig(ttl time.Duration) config.Config {
	return config.Config{JWTSecret: "test-secret", TokenTTL: ttl}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService(testConfig(time.Hour))
	user := identity.User{ID: "user-1", Email: "alice@example.com"}

	token, expiresIn, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expected ttl 3600, got %d", expiresIn)
	}

	sub, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("expected subject user-1, got %s", sub)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewService(testConfig(-time.Minute))
	token, _, err := svc.IssueToken(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := svc.VerifyToken(token); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewService(testConfig(time.Hour))
	token, _, err := issuer.IssueToken(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	verifier := NewService(config.Config{JWTSecret: "other-secret", TokenTTL: time.Hour})
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestTokenTampered(t *testing.T) {
	svc := NewService(testConfig(time.Hour))
	token, _, err := svc.IssueToken(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := svc.VerifyToken(token + "x"); err == nil {
		t.Fatalf("expected tampered token to fail verification")
	}
}

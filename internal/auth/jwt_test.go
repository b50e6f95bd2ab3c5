package auth

import (
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30)

	token, err := issuer.GenerateUserToken("user-123")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Expected user id 'user-123', got '%s'", claims.UserID)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 30*time.Minute {
		t.Error("Expected expiry within the configured window")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30)
	other := NewTokenIssuer("different-secret", 30)

	token, err := issuer.GenerateUserToken("user-123")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("test-secret"), expiry: -time.Minute}

	token, err := issuer.GenerateUserToken("user-123")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	if _, err := issuer.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30)

	if _, err := issuer.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected validation to fail for malformed input")
	}
}

package jwt

import (
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessToken_Roundtrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "u1@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "u1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestAccessToken_WrongSecretRejected(t *testing.T) {
	m := newTestManager()
	other := NewManager("different-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestAccessToken_ExpiredRejected(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestRefreshToken_Roundtrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("unexpected user id %q", userID)
	}
}

func TestRefreshToken_NotValidAsAccess(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("refresh token must not pass access validation")
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/kycdesk/kycdesk/internal/user"
)

var testSecret = []byte("test-secret")

func testUser() user.User {
	return user.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Name:         "Alice",
		Email:        "a@x.com",
		Role:         user.RoleUser,
		TokenVersion: 3,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignToken(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID() != testUser().ID {
		t.Fatalf("expected subject %s, got %s", testUser().ID, claims.UserID())
	}
	if claims.Email != "a@x.com" || claims.Role != user.RoleUser {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenVersion != 3 {
		t.Fatalf("expected version 3, got %d", claims.TokenVersion)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := SignToken(testUser(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(token, testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := SignToken(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(token, []byte("other-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken("not-a-token", testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

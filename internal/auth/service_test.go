package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kycdesk/kycdesk/internal/user"
)

func setupService(t *testing.T) (*Service, user.User) {
	t.Helper()
	repo := user.NewMemoryRepository()
	users := user.NewService(repo)
	created, err := users.Create(context.Background(), user.CreateInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewService(repo, testSecret, time.Hour), created
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, created := setupService(t)

	token, u, err := svc.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("expected profile for %s, got %s", created.ID, u.ID)
	}

	claims, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UserID() != created.ID || claims.Email != "a@x.com" || claims.Role != user.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := setupService(t)
	if _, _, err := svc.Login(context.Background(), "nobody@x.com", "pw"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupService(t)
	if _, _, err := svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResetPasswordRotatesCredential(t *testing.T) {
	svc, created := setupService(t)
	ctx := context.Background()

	if err := svc.ResetPassword(ctx, "a@x.com", "newpw"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, _, err := svc.Login(ctx, "a@x.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	_, u, err := svc.Login(ctx, "a@x.com", "newpw")
	if err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if u.TokenVersion != created.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", u.TokenVersion)
	}
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	svc, _ := setupService(t)
	if err := svc.ResetPassword(context.Background(), "nobody@x.com", "pw"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kycdesk/kycdesk/internal/user"
)

// ErrInvalidCredentials occurs when the supplied password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates accounts and rotates passwords. The signing secret is
// injected rather than read from process-wide state.
type Service struct {
	users  user.Repository
	secret []byte
	ttl    time.Duration
}

// NewService creates a new auth service issuing tokens valid for ttl.
func NewService(users user.Repository, secret []byte, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

// Login verifies the password against the stored hash and issues a session
// token embedding id, email and role. The returned user carries the public
// profile for response shaping; the hash is never serialized.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", user.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", user.User{}, ErrInvalidCredentials
	}
	token, err := SignToken(u, s.secret, s.ttl)
	if err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}

// ResetPassword re-hashes and persists the new password. Bumping the token
// version revokes every token issued before the reset.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return errors.New("password is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.TokenVersion++
	return s.users.Update(ctx, u)
}

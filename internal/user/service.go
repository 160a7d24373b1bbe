package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Service manages account lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures the data required to create an account.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Create registers a new account with a hashed password.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	if input.Name == "" || input.Email == "" {
		return User{}, errors.New("name and email are required")
	}
	if input.Password == "" {
		return User{}, errors.New("password is required")
	}
	role := input.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return User{}, errors.New("unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Get fetches an account by identifier.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateInput lists the fields a caller may change on an existing account.
// Partial updates are restricted to this allow-list; nil fields are left as-is.
type UpdateInput struct {
	Name     *string
	Password *string
}

// Update applies the allowed fields to the account. A password change re-hashes
// the credential and bumps the token version so outstanding tokens stop working.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return User{}, errors.New("name must not be empty")
		}
		user.Name = *input.Name
	}
	if input.Password != nil {
		if *input.Password == "" {
			return User{}, errors.New("password must not be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		user.PasswordHash = hash
		user.TokenVersion++
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Page is one page of accounts plus pagination totals.
type Page struct {
	Page         int
	Limit        int
	TotalRecords int64
	TotalPages   int
	Users        []User
}

// List returns accounts in insertion order using offset pagination.
func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	users, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return Page{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Page:         page,
		Limit:        limit,
		TotalRecords: total,
		TotalPages:   totalPages(total, limit),
		Users:        users,
	}, nil
}

// EnsureAdmin creates the bootstrap Admin account when no Admin exists yet.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	_, err = s.Create(ctx, CreateInput{Name: "Admin", Email: email, Password: password, Role: RoleAdmin})
	if err != nil {
		return false, err
	}
	return true, nil
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kycdesk/kycdesk/internal/user"
)

// Handler exposes the public authentication endpoints.
type Handler struct {
	svc   *Service
	users *user.Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(svc *Service, users *user.Service) *Handler {
	return &Handler{svc: svc, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfile(u user.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// Login verifies credentials and returns a bearer token plus the profile.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password are required")
	}
	token, u, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, user.ErrNotFound.Error())
		}
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusBadRequest, ErrInvalidCredentials.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token": token,
		"user":  toProfile(u),
	})
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup self-registers an account. Public signup always yields the User role.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Role != "" && user.Role(req.Role) != user.RoleUser {
		return fiber.NewError(http.StatusBadRequest, "signup only creates User accounts")
	}
	u, err := h.users.Create(c.UserContext(), user.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.RoleUser,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toProfile(u))
}

type resetRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Reset rotates the account password.
func (h *Handler) Reset(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email is required")
	}
	if err := h.svc.ResetPassword(c.UserContext(), req.Email, req.Password); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, user.ErrNotFound.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"reset": true})
}

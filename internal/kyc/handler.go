package kyc

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kycdesk/kycdesk/internal/middleware"
	"github.com/kycdesk/kycdesk/internal/user"
)

// MaxDocumentBytes caps the uploaded document size.
const MaxDocumentBytes = 5 * 1024 * 1024

var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".pdf":  {},
}

// Handler exposes the KYC workflow HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a KYC HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submissionResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	ApprovedOn  *time.Time `json:"approved_on,omitempty"`
}

// toResponse shapes a submission for clients. The document payload is never
// included in responses.
func toResponse(sub Submission) submissionResponse {
	return submissionResponse{
		ID:          sub.ID,
		Name:        sub.Name,
		Email:       sub.Email,
		Status:      string(sub.Status),
		SubmittedAt: sub.SubmittedAt,
		ApprovedBy:  sub.ApprovedBy,
		ApprovedOn:  sub.ApprovedOn,
	}
}

// Submit accepts a multipart form with applicant name, email and a document
// file, and files the authenticated user's submission.
func (h *Handler) Submit(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	name := c.FormValue("name")
	email := c.FormValue("email")
	if name == "" || email == "" {
		return fiber.NewError(http.StatusBadRequest, "name and email are required")
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "document file is required")
	}
	if fileHeader.Size > MaxDocumentBytes {
		return fiber.NewError(http.StatusBadRequest, "document exceeds the 5MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "document file is unreadable")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "document file is unreadable")
	}
	if !allowedDocument(fileHeader.Filename, data) {
		return fiber.NewError(http.StatusBadRequest, "only jpeg, png or pdf documents are allowed")
	}

	sub, err := h.service.Submit(c.UserContext(), claims.UserID(), SubmitInput{
		Name:     name,
		Email:    email,
		Document: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, user.ErrNotFound.Error())
		}
		if errors.Is(err, ErrAlreadySubmitted) {
			return fiber.NewError(http.StatusBadRequest, ErrAlreadySubmitted.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(sub))
}

// Status returns the authenticated user's submission without the payload.
func (h *Handler) Status(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	sub, err := h.service.Status(c.UserContext(), claims.UserID())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(sub))
}

type decideRequest struct {
	Status string `json:"status"`
}

// Decide approves or rejects the submission owned by the path user. Admin only.
func (h *Handler) Decide(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req decideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	sub, err := h.service.Decide(c.UserContext(), c.Params("userId"), Status(req.Status), claims.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
		case errors.Is(err, ErrInvalidStatus):
			return fiber.NewError(http.StatusBadRequest, ErrInvalidStatus.Error())
		case errors.Is(err, ErrAlreadyDecided):
			return fiber.NewError(http.StatusConflict, ErrAlreadyDecided.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(sub))
}

// List returns a page of submissions. Admin only.
func (h *Handler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), c.QueryInt("page", defaultPage), c.QueryInt("limit", defaultLimit))
	if err != nil {
		return err
	}
	subs := make([]submissionResponse, 0, len(page.Submissions))
	for _, sub := range page.Submissions {
		subs = append(subs, toResponse(sub))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"page":         page.Page,
		"limit":        page.Limit,
		"totalRecords": page.TotalRecords,
		"totalPages":   page.TotalPages,
		"submissions":  subs,
	})
}

// KPIStats returns the workflow counters. Admin only.
func (h *Handler) KPIStats(c *fiber.Ctx) error {
	kpis, err := h.service.KPIs(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(kpis)
}

func allowedDocument(filename string, data []byte) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return false
	}
	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	_, ok := allowedContentTypes[contentType]
	return ok
}

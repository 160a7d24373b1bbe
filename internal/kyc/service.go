package kyc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kycdesk/kycdesk/internal/notification"
	"github.com/kycdesk/kycdesk/internal/user"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

var (
	// ErrEmptyDocument occurs when a submission carries no document payload.
	ErrEmptyDocument = errors.New("document payload is required")

	// ErrInvalidStatus occurs when a review targets a non-terminal status.
	ErrInvalidStatus = errors.New("status must be Approved or Rejected")

	// ErrAlreadyDecided occurs when a reviewed submission is reviewed again.
	ErrAlreadyDecided = errors.New("submission already decided")
)

// Service runs the submission workflow: one dossier per user moving
// Pending -> Approved or Pending -> Rejected.
type Service struct {
	repo     Repository
	users    user.Repository
	notifier notification.Notifier
}

// NewService creates a new KYC workflow service.
func NewService(repo Repository, users user.Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

// SubmitInput captures the applicant data for a new submission.
type SubmitInput struct {
	Name     string
	Email    string
	Document string // base64-encoded payload
}

// Submit files the user's dossier in Pending state. The owning user must
// exist, the payload must be non-empty, and only one submission may ever be
// filed per user.
func (s *Service) Submit(ctx context.Context, userID string, input SubmitInput) (Submission, error) {
	if input.Name == "" || input.Email == "" {
		return Submission{}, errors.New("name and email are required")
	}
	if input.Document == "" {
		return Submission{}, ErrEmptyDocument
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        input.Name,
		Email:       input.Email,
		Document:    input.Document,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// Status returns the user's submission, or ErrNotFound when none exists.
func (s *Service) Status(ctx context.Context, userID string) (Submission, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Decide moves a Pending submission to Approved or Rejected, stamping the
// reviewer's email and the decision time together. Submissions that already
// carry a decision cannot be re-reviewed.
func (s *Service) Decide(ctx context.Context, userID string, status Status, reviewedBy string) (Submission, error) {
	if !status.Decision() {
		return Submission{}, ErrInvalidStatus
	}

	sub, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status != StatusPending {
		return Submission{}, ErrAlreadyDecided
	}

	now := time.Now().UTC()
	sub.Status = status
	sub.ApprovedBy = reviewedBy
	sub.ApprovedOn = &now

	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:      notification.KindKYCDecision,
			Recipient: sub.Email,
			Body:      fmt.Sprintf("your KYC submission was %s", status),
		})
	}
	return sub, nil
}

// Page is one page of submissions plus pagination totals.
type Page struct {
	Page         int
	Limit        int
	TotalRecords int64
	TotalPages   int
	Submissions  []Submission
}

// List returns submissions in insertion order using offset pagination.
// Non-positive page and limit fall back to 1 and 10.
func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	subs, err := s.repo.List(ctx, (page-1)*limit, limit)
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
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		Submissions:  subs,
	}, nil
}

// KPIs aggregates workflow counters across the full stores.
type KPIs struct {
	TotalUsers int64 `json:"totalUsers"`
	Approved   int64 `json:"approved"`
	Rejected   int64 `json:"rejected"`
	Pending    int64 `json:"pending"`
}

// KPIs computes the dashboard counters.
func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return KPIs{}, err
	}
	approved, err := s.repo.CountByStatus(ctx, StatusApproved)
	if err != nil {
		return KPIs{}, err
	}
	rejected, err := s.repo.CountByStatus(ctx, StatusRejected)
	if err != nil {
		return KPIs{}, err
	}
	pending, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		return KPIs{}, err
	}
	return KPIs{TotalUsers: totalUsers, Approved: approved, Rejected: rejected, Pending: pending}, nil
}

package kyc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kycdesk/kycdesk/internal/user"
)

func setupService(t *testing.T) (*Service, *user.Service) {
	t.Helper()
	users := user.NewMemoryRepository()
	return NewService(NewMemoryRepository(), users, nil), user.NewService(users)
}

func createUser(t *testing.T, users *user.Service, email string) user.User {
	t.Helper()
	created, err := users.Create(context.Background(), user.CreateInput{Name: "Applicant", Email: email, Password: "pw"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return created
}

func TestSubmitCreatesPending(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")

	sub, err := svc.Submit(context.Background(), applicant.ID, SubmitInput{Name: "Alice", Email: "a@x.com", Document: "ZG9j"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Status != StatusPending {
		t.Fatalf("expected Pending, got %s", sub.Status)
	}
	if sub.ApprovedBy != "" || sub.ApprovedOn != nil {
		t.Fatalf("fresh submission must carry no approver metadata")
	}
	if sub.SubmittedAt.IsZero() {
		t.Fatalf("submission timestamp not set")
	}
}

func TestSubmitRejectsSecondSubmission(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")
	ctx := context.Background()

	if _, err := svc.Submit(ctx, applicant.ID, SubmitInput{Name: "Alice", Email: "a@x.com", Document: "ZG9j"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err := svc.Submit(ctx, applicant.ID, SubmitInput{Name: "Other", Email: "other@x.com", Document: "b3RoZXI="})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted regardless of payload, got %v", err)
	}
}

func TestSubmitUnknownUser(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.Submit(context.Background(), "missing", SubmitInput{Name: "X", Email: "x@x.com", Document: "ZG9j"})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestSubmitEmptyDocument(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")
	_, err := svc.Submit(context.Background(), applicant.ID, SubmitInput{Name: "Alice", Email: "a@x.com"})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestStatusUnknownUser(t *testing.T) {
	svc, _ := setupService(t)
	if _, err := svc.Status(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDecideStampsApproverFieldsTogether(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")
	ctx := context.Background()

	if _, err := svc.Submit(ctx, applicant.ID, SubmitInput{Name: "Alice", Email: "a@x.com", Document: "ZG9j"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sub, err := svc.Decide(ctx, applicant.ID, StatusApproved, "admin@x.com")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if sub.Status != StatusApproved {
		t.Fatalf("expected Approved, got %s", sub.Status)
	}
	if sub.ApprovedBy != "admin@x.com" || sub.ApprovedOn == nil {
		t.Fatalf("approver fields must be stamped together, got %q/%v", sub.ApprovedBy, sub.ApprovedOn)
	}

	stored, err := svc.Status(ctx, applicant.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if stored.Status != StatusApproved || stored.ApprovedOn == nil {
		t.Fatalf("decision not persisted: %+v", stored)
	}
}

func TestDecideRejectsSecondReview(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")
	ctx := context.Background()

	if _, err := svc.Submit(ctx, applicant.ID, SubmitInput{Name: "Alice", Email: "a@x.com", Document: "ZG9j"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Decide(ctx, applicant.ID, StatusRejected, "admin@x.com"); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if _, err := svc.Decide(ctx, applicant.ID, StatusApproved, "admin@x.com"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

func TestDecideRejectsNonTerminalStatus(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")
	ctx := context.Background()

	if _, err := svc.Submit(ctx, applicant.ID, SubmitInput{Name: "Alice", Email: "a@x.com", Document: "ZG9j"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Decide(ctx, applicant.ID, StatusPending, "admin@x.com"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Decide(ctx, applicant.ID, Status("Waved"), "admin@x.com"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDecideUnknownSubmission(t *testing.T) {
	svc, users := setupService(t)
	applicant := createUser(t, users, "a@x.com")
	if _, err := svc.Decide(context.Background(), applicant.ID, StatusApproved, "admin@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func seedSubmissions(t *testing.T, svc *Service, users *user.Service, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		applicant := createUser(t, users, fmt.Sprintf("u%d@x.com", i))
		if _, err := svc.Submit(ctx, applicant.ID, SubmitInput{
			Name:     fmt.Sprintf("user-%d", i),
			Email:    fmt.Sprintf("u%d@x.com", i),
			Document: "ZG9j",
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		ids = append(ids, applicant.ID)
	}
	return ids
}

func TestListPagination(t *testing.T) {
	svc, users := setupService(t)
	seedSubmissions(t, svc, users, 15)

	page, err := svc.List(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Submissions) != 5 {
		t.Fatalf("expected 5 submissions on page 2, got %d", len(page.Submissions))
	}
	if page.TotalRecords != 15 || page.TotalPages != 2 {
		t.Fatalf("expected 15 records over 2 pages, got %d/%d", page.TotalRecords, page.TotalPages)
	}
	if page.Submissions[0].Name != "user-10" {
		t.Fatalf("expected insertion order, got %s first on page 2", page.Submissions[0].Name)
	}
}

func TestListDefaults(t *testing.T) {
	svc, _ := setupService(t)
	page, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", page.Page, page.Limit)
	}
}

func TestKPIsCountsSum(t *testing.T) {
	svc, users := setupService(t)
	ids := seedSubmissions(t, svc, users, 7)
	ctx := context.Background()

	for _, id := range ids[:2] {
		if _, err := svc.Decide(ctx, id, StatusApproved, "admin@x.com"); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}
	for _, id := range ids[2:5] {
		if _, err := svc.Decide(ctx, id, StatusRejected, "admin@x.com"); err != nil {
			t.Fatalf("reject: %v", err)
		}
	}

	kpis, err := svc.KPIs(ctx)
	if err != nil {
		t.Fatalf("kpis: %v", err)
	}
	if kpis.TotalUsers != 7 {
		t.Fatalf("expected 7 users, got %d", kpis.TotalUsers)
	}
	if kpis.Approved != 2 || kpis.Rejected != 3 || kpis.Pending != 2 {
		t.Fatalf("unexpected counts: %+v", kpis)
	}
	total, err := svc.repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if kpis.Approved+kpis.Rejected+kpis.Pending != total {
		t.Fatalf("status counts do not sum to total %d: %+v", total, kpis)
	}
}

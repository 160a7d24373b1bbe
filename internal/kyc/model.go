package kyc

import "time"

// Status is the review state of a submission.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Decision reports whether the status is a terminal review outcome.
func (s Status) Decision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Submission is one user's KYC dossier. At most one exists per user. Name and
// email are captured at submission time and may diverge from the account
// record. ApprovedBy and ApprovedOn are set together when a reviewer decides,
// never individually.
type Submission struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	Document    string // base64-encoded payload
	Status      Status
	SubmittedAt time.Time
	ApprovedBy  string
	ApprovedOn  *time.Time
}

package kyc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound occurs when the user has no submission on file.
	ErrNotFound = errors.New("kyc submission not found")

	// ErrAlreadySubmitted occurs when a submission already exists for the user.
	ErrAlreadySubmitted = errors.New("kyc already submitted")
)

// Repository persists KYC submissions.
type Repository interface {
	Create(ctx context.Context, sub Submission) error
	FindByUser(ctx context.Context, userID string) (Submission, error)
	Update(ctx context.Context, sub Submission) error
	List(ctx context.Context, offset, limit int) ([]Submission, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

// PostgresRepository implements Repository using PostgreSQL. A unique index on
// user_id enforces the one-submission-per-user invariant at write time.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed submission repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new submission.
func (r *PostgresRepository) Create(ctx context.Context, sub Submission) error {
	subID, err := uuid.Parse(sub.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(sub.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO kyc_submissions (id, user_id, name, email, document, status, submitted_at, approved_by, approved_on)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		subID, userID, sub.Name, sub.Email, sub.Document, string(sub.Status), sub.SubmittedAt.UTC(), sub.ApprovedBy, sub.ApprovedOn)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadySubmitted
	}
	return err
}

// FindByUser fetches the submission owned by the user.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) (Submission, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return Submission{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, name, email, document, status, submitted_at, approved_by, approved_on
        FROM kyc_submissions WHERE user_id = $1`, id)
	return scanSubmission(row)
}

// Update overwrites the stored submission.
func (r *PostgresRepository) Update(ctx context.Context, sub Submission) error {
	subID, err := uuid.Parse(sub.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE kyc_submissions SET status = $1, approved_by = $2, approved_on = $3 WHERE id = $4`,
		string(sub.Status), sub.ApprovedBy, sub.ApprovedOn, subID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of submissions in insertion order.
func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]Submission, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, name, email, document, status, submitted_at, approved_by, approved_on
        FROM kyc_submissions ORDER BY submitted_at, id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns the total number of submissions.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM kyc_submissions`).Scan(&count)
	return count, err
}

// CountByStatus returns the number of submissions in the given state.
func (r *PostgresRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM kyc_submissions WHERE status = $1`, string(status)).Scan(&count)
	return count, err
}

func scanSubmission(row pgx.Row) (Submission, error) {
	var (
		id          uuid.UUID
		userID      uuid.UUID
		status      string
		submittedAt time.Time
		sub         Submission
	)
	if err := row.Scan(&id, &userID, &sub.Name, &sub.Email, &sub.Document, &status, &submittedAt, &sub.ApprovedBy, &sub.ApprovedOn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	sub.ID = id.String()
	sub.UserID = userID.String()
	sub.Status = Status(status)
	sub.SubmittedAt = submittedAt.UTC()
	return sub, nil
}

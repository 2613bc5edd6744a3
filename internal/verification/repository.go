package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

// Repository implements RepositoryInterface backed by Postgres
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new verification repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const attemptColumns = "id, user_id, session_id, status, reason, created_at, completed_at"

func scanAttempt(row pgx.Row) (*Attempt, error) {
	a := &Attempt{}
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.SessionID,
		&a.Status,
		&a.Reason,
		&a.CreatedAt,
		&a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAttempt inserts a verification attempt
func (r *Repository) CreateAttempt(ctx context.Context, attempt *Attempt) error {
	query := `
		INSERT INTO verification_attempts (id, user_id, session_id, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.SessionID,
		attempt.Status,
		attempt.Reason,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification attempt: %w", err)
	}
	return nil
}

// GetLatestAttemptByUser fetches the user's most recent attempt
func (r *Repository) GetLatestAttemptByUser(ctx context.Context, userID uuid.UUID) (*Attempt, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM verification_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, attemptColumns)

	attempt, err := scanAttempt(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("no verification attempt found", err)
		}
		return nil, fmt.Errorf("failed to get verification attempt: %w", err)
	}
	return attempt, nil
}

// GetAttemptBySessionID fetches the attempt for a provider session
func (r *Repository) GetAttemptBySessionID(ctx context.Context, sessionID string) (*Attempt, error) {
	query := fmt.Sprintf(`SELECT %s FROM verification_attempts WHERE session_id = $1`, attemptColumns)

	attempt, err := scanAttempt(r.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("verification attempt not found", err)
		}
		return nil, fmt.Errorf("failed to get verification attempt: %w", err)
	}
	return attempt, nil
}

// CompleteAttempt settles a pending attempt and returns the updated row
func (r *Repository) CompleteAttempt(ctx context.Context, sessionID string, status Status, reason string) (*Attempt, error) {
	query := fmt.Sprintf(`
		UPDATE verification_attempts
		SET status = $2, reason = $3, completed_at = NOW()
		WHERE session_id = $1 AND status = 'pending'
		RETURNING %s`, attemptColumns)

	attempt, err := scanAttempt(r.db.QueryRow(ctx, query, sessionID, status, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("pending verification attempt not found", err)
		}
		return nil, fmt.Errorf("failed to complete verification attempt: %w", err)
	}
	return attempt, nil
}

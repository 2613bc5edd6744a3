package fraud

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

// NewRepository creates a new fraud repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateAlert inserts a moderation alert
func (r *Repository) CreateAlert(ctx context.Context, alert *ModerationAlert) error {
	query := `
		INSERT INTO fraud_alerts (id, sender_id, conversation_id, score, risk_level, blocked, flags, reasons, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		alert.ID,
		alert.SenderID,
		alert.ConversationID,
		alert.Score,
		alert.RiskLevel,
		alert.Blocked,
		alert.Flags,
		alert.Reasons,
		alert.Status,
		alert.Notes,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fraud alert: %w", err)
	}
	return nil
}

// GetAlertByID fetches a single alert
func (r *Repository) GetAlertByID(ctx context.Context, id uuid.UUID) (*ModerationAlert, error) {
	query := `
		SELECT id, sender_id, conversation_id, score, risk_level, blocked, flags, reasons, status, reviewed_by, reviewed_at, notes, created_at
		FROM fraud_alerts
		WHERE id = $1`

	alert := &ModerationAlert{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&alert.ID,
		&alert.SenderID,
		&alert.ConversationID,
		&alert.Score,
		&alert.RiskLevel,
		&alert.Blocked,
		&alert.Flags,
		&alert.Reasons,
		&alert.Status,
		&alert.ReviewedBy,
		&alert.ReviewedAt,
		&alert.Notes,
		&alert.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fraud alert not found", err)
		}
		return nil, fmt.Errorf("failed to get fraud alert: %w", err)
	}
	return alert, nil
}

// ListAlerts returns alerts filtered by status, newest first. An empty
// status returns alerts in every state.
func (r *Repository) ListAlerts(ctx context.Context, status AlertStatus, limit, offset int64) ([]*ModerationAlert, int64, error) {
	countQuery := `SELECT COUNT(*) FROM fraud_alerts WHERE ($1 = '' OR status = $1)`

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fraud alerts: %w", err)
	}

	query := `
		SELECT id, sender_id, conversation_id, score, risk_level, blocked, flags, reasons, status, reviewed_by, reviewed_at, notes, created_at
		FROM fraud_alerts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fraud alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*ModerationAlert, 0)
	for rows.Next() {
		alert := &ModerationAlert{}
		if err := rows.Scan(
			&alert.ID,
			&alert.SenderID,
			&alert.ConversationID,
			&alert.Score,
			&alert.RiskLevel,
			&alert.Blocked,
			&alert.Flags,
			&alert.Reasons,
			&alert.Status,
			&alert.ReviewedBy,
			&alert.ReviewedAt,
			&alert.Notes,
			&alert.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan fraud alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate fraud alerts: %w", err)
	}

	return alerts, total, nil
}

// ResolveAlert marks an alert reviewed and returns the updated row
func (r *Repository) ResolveAlert(ctx context.Context, id uuid.UUID, status AlertStatus, reviewerID uuid.UUID, notes string) (*ModerationAlert, error) {
	query := `
		UPDATE fraud_alerts
		SET status = $2, reviewed_by = $3, reviewed_at = NOW(), notes = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING id, sender_id, conversation_id, score, risk_level, blocked, flags, reasons, status, reviewed_by, reviewed_at, notes, created_at`

	alert := &ModerationAlert{}
	err := r.db.QueryRow(ctx, query, id, status, reviewerID, notes).Scan(
		&alert.ID,
		&alert.SenderID,
		&alert.ConversationID,
		&alert.Score,
		&alert.RiskLevel,
		&alert.Blocked,
		&alert.Flags,
		&alert.Reasons,
		&alert.Status,
		&alert.ReviewedBy,
		&alert.ReviewedAt,
		&alert.Notes,
		&alert.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("pending fraud alert not found", err)
		}
		return nil, fmt.Errorf("failed to resolve fraud alert: %w", err)
	}
	return alert, nil
}

package fraud

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines moderation alert persistence
type RepositoryInterface interface {
	CreateAlert(ctx context.Context, alert *ModerationAlert) error
	GetAlertByID(ctx context.Context, id uuid.UUID) (*ModerationAlert, error)
	ListAlerts(ctx context.Context, status AlertStatus, limit, offset int64) ([]*ModerationAlert, int64, error)
	ResolveAlert(ctx context.Context, id uuid.UUID, status AlertStatus, reviewerID uuid.UUID, notes string) (*ModerationAlert, error)
}

// ServiceInterface defines fraud scoring and moderation operations
type ServiceInterface interface {
	CheckMessage(ctx context.Context, req CheckRequest) Verdict
	ListAlerts(ctx context.Context, status AlertStatus, limit, offset int64) ([]*ModerationAlert, int64, error)
	GetAlert(ctx context.Context, id uuid.UUID) (*ModerationAlert, error)
	ResolveAlert(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, req ResolveAlertRequest) (*ModerationAlert, error)
}

package verification

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines verification attempt persistence
type RepositoryInterface interface {
	CreateAttempt(ctx context.Context, attempt *Attempt) error
	GetLatestAttemptByUser(ctx context.Context, userID uuid.UUID) (*Attempt, error)
	GetAttemptBySessionID(ctx context.Context, sessionID string) (*Attempt, error)
	CompleteAttempt(ctx context.Context, sessionID string, status Status, reason string) (*Attempt, error)
}

// ServiceInterface defines verification operations
type ServiceInterface interface {
	StartAttempt(ctx context.Context, userID uuid.UUID) (*Attempt, error)
	HandleCallback(ctx context.Context, req CallbackRequest) (*Attempt, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*StatusResponse, error)
	IsVerified(ctx context.Context, userID uuid.UUID) (bool, error)
}

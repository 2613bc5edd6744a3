package verification

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/validation"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

// SubjectVerificationReviewed is published when a provider callback settles
// an attempt
const SubjectVerificationReviewed = "verification.reviewed"

// EventPublisher publishes domain events. Satisfied by events.Publisher.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

// HubInterface is the subset of the websocket hub the service needs
type HubInterface interface {
	SendToUser(userID string, msg *websocket.Message)
}

// Service tracks identity verification attempts. The face-recognition
// provider is external; this service only records the outcomes it reports.
type Service struct {
	repo      RepositoryInterface
	hub       HubInterface
	publisher EventPublisher
}

// NewService creates a new verification service
func NewService(repo RepositoryInterface, hub HubInterface, publisher EventPublisher) *Service {
	return &Service{repo: repo, hub: hub, publisher: publisher}
}

// StartAttempt opens a new verification attempt. Users with an approved or
// in-flight attempt cannot start another.
func (s *Service) StartAttempt(ctx context.Context, userID uuid.UUID) (*Attempt, error) {
	latest, err := s.repo.GetLatestAttemptByUser(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if latest != nil {
		switch latest.Status {
		case StatusApproved:
			return nil, common.NewConflictError("identity is already verified", nil)
		case StatusPending:
			return nil, common.NewConflictError("a verification attempt is already in progress", nil)
		}
	}

	attempt := &Attempt{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// HandleCallback records the provider's result for a pending attempt
func (s *Service) HandleCallback(ctx context.Context, req CallbackRequest) (*Attempt, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	existing, err := s.repo.GetAttemptBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusPending {
		return nil, common.NewConflictError("verification attempt already settled", nil)
	}

	status := StatusFailed
	if req.Approved {
		status = StatusApproved
	}

	attempt, err := s.repo.CompleteAttempt(ctx, req.SessionID, status, req.Reason)
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.SendToUser(attempt.UserID.String(), &websocket.Message{
			Type:   "verification.updated",
			UserID: attempt.UserID.String(),
			Data: map[string]interface{}{
				"status": attempt.Status,
				"reason": attempt.Reason,
			},
		})
	}

	if s.publisher != nil {
		s.publisher.Publish(SubjectVerificationReviewed, map[string]interface{}{
			"attempt_id": attempt.ID.String(),
			"user_id":    attempt.UserID.String(),
			"status":     attempt.Status,
		})
	}

	return attempt, nil
}

// GetStatus reports the user's current verification state
func (s *Service) GetStatus(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	latest, err := s.repo.GetLatestAttemptByUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &StatusResponse{Status: StatusUnverified}, nil
		}
		return nil, err
	}

	resp := &StatusResponse{Status: latest.Status, AttemptID: &latest.ID}
	if latest.CompletedAt != nil {
		resp.UpdatedAt = latest.CompletedAt
	} else {
		resp.UpdatedAt = &latest.CreatedAt
	}
	return resp, nil
}

// IsVerified reports whether the user's latest attempt was approved
func (s *Service) IsVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.Status == StatusApproved, nil
}

func isNotFound(err error) bool {
	var appErr *common.AppError
	return errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound
}

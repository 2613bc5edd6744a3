package fraud

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
)

// SubjectFraudAlert is the event subject published when a message scores
// high enough to need moderation attention
const SubjectFraudAlert = "fraud.alert"

// EventPublisher publishes domain events. Satisfied by events.Publisher.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

// Service scores messages and records moderation alerts for the risky ones
type Service struct {
	engine    *Engine
	repo      RepositoryInterface
	publisher EventPublisher
}

// NewService creates a new fraud service
func NewService(engine *Engine, repo RepositoryInterface, publisher EventPublisher) *Service {
	return &Service{
		engine:    engine,
		repo:      repo,
		publisher: publisher,
	}
}

// CheckMessage scores one message. Scoring itself never fails; alert
// persistence and event publication are best-effort side channels that
// must not change or delay the verdict.
func (s *Service) CheckMessage(ctx context.Context, req CheckRequest) Verdict {
	verdict := s.engine.Evaluate(req.Content)

	verdictsTotal.WithLabelValues(string(verdict.RiskLevel)).Inc()
	if verdict.Blocked {
		blockedTotal.Inc()
	}

	if verdict.RiskLevel == RiskLevelHigh || verdict.RiskLevel == RiskLevelCritical {
		s.recordAlert(ctx, req, verdict)
	}

	return verdict
}

func (s *Service) recordAlert(ctx context.Context, req CheckRequest, verdict Verdict) {
	alert := &ModerationAlert{
		ID:             uuid.New(),
		SenderID:       parseOptionalUUID(req.SenderID),
		ConversationID: parseOptionalUUID(req.ConversationID),
		Score:          verdict.Score,
		RiskLevel:      verdict.RiskLevel,
		Blocked:        verdict.Blocked,
		Flags:          verdict.Flags,
		Reasons:        verdict.Reasons,
		Status:         AlertStatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		logger.Error("Failed to record fraud alert",
			zap.String("sender_id", req.SenderID),
			zap.String("risk_level", string(verdict.RiskLevel)),
			zap.Error(err),
		)
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(SubjectFraudAlert, map[string]interface{}{
			"alert_id":        alert.ID.String(),
			"sender_id":       req.SenderID,
			"conversation_id": req.ConversationID,
			"score":           verdict.Score,
			"risk_level":      verdict.RiskLevel,
			"blocked":         verdict.Blocked,
			"flags":           verdict.Flags,
		})
	}
}

// ListAlerts returns moderation alerts filtered by status
func (s *Service) ListAlerts(ctx context.Context, status AlertStatus, limit, offset int64) ([]*ModerationAlert, int64, error) {
	return s.repo.ListAlerts(ctx, status, limit, offset)
}

// GetAlert returns a single moderation alert
func (s *Service) GetAlert(ctx context.Context, id uuid.UUID) (*ModerationAlert, error) {
	return s.repo.GetAlertByID(ctx, id)
}

// ResolveAlert marks an alert as reviewed by a moderator
func (s *Service) ResolveAlert(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, req ResolveAlertRequest) (*ModerationAlert, error) {
	status := AlertStatusFalsePositive
	if req.Confirmed {
		status = AlertStatusConfirmed
	}
	return s.repo.ResolveAlert(ctx, id, status, reviewerID, req.Notes)
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

package messaging

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/internal/fraud"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/validation"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

// SubjectMessageSent is published after a message is stored and fanned out
const SubjectMessageSent = "messaging.message.sent"

// EventPublisher publishes domain events. Satisfied by events.Publisher.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

// Service implements conversation and message operations
type Service struct {
	repo      RepositoryInterface
	checker   FraudChecker
	limiter   RateLimiter
	hub       HubInterface
	listings  ListingProvider
	publisher EventPublisher
}

// NewService creates a new messaging service
func NewService(repo RepositoryInterface, checker FraudChecker, limiter RateLimiter, hub HubInterface, listings ListingProvider, publisher EventPublisher) *Service {
	return &Service{
		repo:      repo,
		checker:   checker,
		limiter:   limiter,
		hub:       hub,
		listings:  listings,
		publisher: publisher,
	}
}

// StartConversation creates a conversation about a listing, or returns the
// existing one for the same buyer
func (s *Service) StartConversation(ctx context.Context, buyerID uuid.UUID, req CreateConversationRequest) (*Conversation, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	sellerID, err := s.listings.GetSellerID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if sellerID == buyerID {
		return nil, common.NewBadRequestError("cannot start a conversation about your own listing", nil)
	}

	existing, err := s.repo.GetConversationByListingAndBuyer(ctx, req.ListingID, buyerID)
	if err == nil {
		return existing, nil
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != http.StatusNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	conversation := &Conversation{
		ID:        uuid.New(),
		ListingID: req.ListingID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetConversation returns a conversation the requester participates in
func (s *Service) GetConversation(ctx context.Context, conversationID, requesterID uuid.UUID) (*Conversation, error) {
	conversation, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if requesterID != conversation.BuyerID && requesterID != conversation.SellerID {
		return nil, common.NewForbiddenError("not a participant in this conversation")
	}
	return conversation, nil
}

// ListConversations returns the conversations a user participates in
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*Conversation, int64, error) {
	return s.repo.ListConversationsForUser(ctx, userID, limit, offset)
}

// SendMessage runs the full send pipeline: membership check, rate limit,
// fraud screening, persistence, then fan-out. Fraud screening is fail-open:
// a scorer outage lets messages through unscored, only an explicit blocked
// verdict stops delivery.
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, req SendMessageRequest) (*SendMessageResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	conversation, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if senderID != conversation.BuyerID && senderID != conversation.SellerID {
		return nil, common.NewForbiddenError("not a participant in this conversation")
	}

	if allowed := s.allowSend(ctx, senderID); !allowed {
		return nil, &common.AppError{
			Code:       "RATE_LIMITED",
			Message:    "too many messages, slow down",
			StatusCode: http.StatusTooManyRequests,
		}
	}

	verdict := s.screen(ctx, conversation, senderID, req.Content)
	if verdict.Blocked {
		return nil, common.NewForbiddenError(fraud.BlockedMessage)
	}

	message := &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        req.Content,
		FraudScore:     verdict.Score,
		FraudRiskLevel: string(verdict.RiskLevel),
		FraudFlags:     verdict.Flags,
		Status:         MessageStatusSent,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.fanOut(conversation, message)

	return &SendMessageResponse{Message: message, Warning: verdict.Warning}, nil
}

// allowSend consults the rate limiter, failing open on limiter errors
func (s *Service) allowSend(ctx context.Context, senderID uuid.UUID) bool {
	if s.limiter == nil {
		return true
	}
	allowed, err := s.limiter.Allow(ctx, senderID.String())
	if err != nil {
		logger.WithContext(ctx).Warn("Rate limiter unavailable, allowing message",
			zap.String("sender_id", senderID.String()),
			zap.Error(err),
		)
		return true
	}
	return allowed
}

// screen scores the message content, failing open when the scorer is down
func (s *Service) screen(ctx context.Context, conversation *Conversation, senderID uuid.UUID, content string) fraud.Verdict {
	if s.checker == nil {
		return fraud.Verdict{RiskLevel: fraud.RiskLevelLow, Flags: []string{}}
	}

	verdict, err := s.checker.CheckMessage(ctx, fraud.CheckRequest{
		Content:        content,
		SenderID:       senderID.String(),
		ConversationID: conversation.ID.String(),
		ParticipantIDs: []string{conversation.BuyerID.String(), conversation.SellerID.String()},
	})
	if err != nil {
		logger.WithContext(ctx).Warn("Fraud screening unavailable, delivering unscored",
			zap.String("conversation_id", conversation.ID.String()),
			zap.Error(err),
		)
		return fraud.Verdict{RiskLevel: fraud.RiskLevelLow, Flags: []string{}}
	}
	return verdict
}

func (s *Service) fanOut(conversation *Conversation, message *Message) {
	if s.hub != nil {
		s.hub.SendToConversation(conversation.ID.String(), &websocket.Message{
			Type:           "message.new",
			ConversationID: conversation.ID.String(),
			UserID:         message.SenderID.String(),
			Data: map[string]interface{}{
				"message_id":       message.ID.String(),
				"content":          message.Content,
				"fraud_risk_level": message.FraudRiskLevel,
				"created_at":       message.CreatedAt,
			},
		})
	}

	if s.publisher != nil {
		s.publisher.Publish(SubjectMessageSent, map[string]interface{}{
			"message_id":      message.ID.String(),
			"conversation_id": conversation.ID.String(),
			"sender_id":       message.SenderID.String(),
			"risk_level":      message.FraudRiskLevel,
		})
	}
}

// ListMessages returns messages in a conversation, newest first
func (s *Service) ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, limit, offset int64) ([]*Message, int64, error) {
	conversation, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if requesterID != conversation.BuyerID && requesterID != conversation.SellerID {
		return nil, 0, common.NewForbiddenError("not a participant in this conversation")
	}
	return s.repo.ListMessages(ctx, conversationID, limit, offset)
}

// MarkRead marks all messages from the other participant as read
func (s *Service) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	conversation, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if readerID != conversation.BuyerID && readerID != conversation.SellerID {
		return 0, common.NewForbiddenError("not a participant in this conversation")
	}

	updated, err := s.repo.MarkMessagesRead(ctx, conversationID, readerID)
	if err != nil {
		return 0, err
	}

	if updated > 0 && s.hub != nil {
		s.hub.SendToConversation(conversationID.String(), &websocket.Message{
			Type:           "message.read",
			ConversationID: conversationID.String(),
			UserID:         readerID.String(),
		})
	}
	return updated, nil
}

// EngineChecker adapts the in-process fraud service to the FraudChecker
// interface used by the send pipeline
type EngineChecker struct {
	Service fraud.ServiceInterface
}

// CheckMessage scores a message with the local fraud service. The local
// engine cannot be unavailable, so the error is always nil.
func (c EngineChecker) CheckMessage(ctx context.Context, req fraud.CheckRequest) (fraud.Verdict, error) {
	return c.Service.CheckMessage(ctx, req), nil
}

package messaging

import (
	"context"

	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/internal/fraud"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

// RepositoryInterface defines conversation and message persistence
type RepositoryInterface interface {
	CreateConversation(ctx context.Context, conversation *Conversation) error
	GetConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	GetConversationByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*Conversation, error)
	ListConversationsForUser(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*Conversation, int64, error)
	CreateMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int64) ([]*Message, int64, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

// FraudChecker scores message content before delivery. An error means the
// scorer was unavailable, which the caller treats as fail-open: the message
// goes through unscored rather than being held back.
type FraudChecker interface {
	CheckMessage(ctx context.Context, req fraud.CheckRequest) (fraud.Verdict, error)
}

// RateLimiter bounds how fast a single user may send messages
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// HubInterface is the subset of the websocket hub the service needs
type HubInterface interface {
	SendToConversation(conversationID string, msg *websocket.Message)
	SendToUser(userID string, msg *websocket.Message)
}

// ListingProvider resolves the seller of a listing when a conversation starts
type ListingProvider interface {
	GetSellerID(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error)
}

// ServiceInterface defines messaging operations
type ServiceInterface interface {
	StartConversation(ctx context.Context, buyerID uuid.UUID, req CreateConversationRequest) (*Conversation, error)
	GetConversation(ctx context.Context, conversationID, requesterID uuid.UUID) (*Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*Conversation, int64, error)
	SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, req SendMessageRequest) (*SendMessageResponse, error)
	ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, limit, offset int64) ([]*Message, int64, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

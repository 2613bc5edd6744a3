package messaging

import (
	"time"

	"github.com/google/uuid"
)

// MessageStatus tracks delivery state of a message
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// Conversation is a buyer/seller thread about one listing. At most one
// conversation exists per (listing, buyer) pair.
type Conversation struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ListingID     uuid.UUID  `json:"listing_id" db:"listing_id"`
	BuyerID       uuid.UUID  `json:"buyer_id" db:"buyer_id"`
	SellerID      uuid.UUID  `json:"seller_id" db:"seller_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	// UnreadCount is populated on list queries only, counting messages from
	// the other participant not yet marked read.
	UnreadCount int64 `json:"unread_count" db:"-"`
}

// Message is a single chat message. Fraud fields are recorded at send time
// and never recomputed.
type Message struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	ConversationID uuid.UUID     `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID     `json:"sender_id" db:"sender_id"`
	Content        string        `json:"content" db:"content"`
	FraudScore     int           `json:"fraud_score" db:"fraud_score"`
	FraudRiskLevel string        `json:"fraud_risk_level" db:"fraud_risk_level"`
	FraudFlags     []string      `json:"fraud_flags" db:"fraud_flags"`
	Status         MessageStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// CreateConversationRequest starts (or returns) a conversation about a listing
type CreateConversationRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
}

// SendMessageRequest sends one message into a conversation
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// SendMessageResponse carries the stored message plus any advisory warning
// from fraud screening
type SendMessageResponse struct {
	Message *Message `json:"message"`
	Warning string   `json:"warning,omitempty"`
}

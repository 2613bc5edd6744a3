package fraud

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies the aggregate fraud score of a message
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Pattern identifiers. These are stable API: consumers branch on them,
// so they must never be renamed.
const (
	FlagPaymentScam           = "PAYMENT_SCAM"
	FlagShippingScam          = "SHIPPING_SCAM"
	FlagUrgency               = "URGENCY"
	FlagCommunicationRedirect = "COMMUNICATION_REDIRECT"
	FlagEmotionalManipulation = "EMOTIONAL_MANIPULATION"
	FlagVerificationBypass    = "VERIFICATION_BYPASS"
	FlagImpersonation         = "IMPERSONATION"
	FlagPriceManipulation     = "PRICE_MANIPULATION"
	FlagHighRiskContent       = "HIGH_RISK_CONTENT"
)

// BlockedMessage is the only failure surfaced to the sender of a blocked
// message. Flags and reasons stay internal so the rule set cannot be probed.
const BlockedMessage = "Message blocked for security reasons"

// DevModeNote is appended to reasons when a critical message would have been
// blocked in production but the engine runs in development mode.
const DevModeNote = "(Development mode: would be blocked in production)"

// Verdict is the result of evaluating one message
type Verdict struct {
	Score     int       `json:"score"`
	RiskLevel RiskLevel `json:"riskLevel"`
	Blocked   bool      `json:"blocked"`
	Flags     []string  `json:"flags"`
	Reasons   []string  `json:"reasons"`
	Warning   string    `json:"warning,omitempty"`
}

// CheckRequest is the scoring request accepted by the fraud endpoint.
// Sender, conversation and participant identifiers are carried for audit
// only; they never influence the verdict.
type CheckRequest struct {
	Content        string   `json:"content"`
	SenderID       string   `json:"senderId,omitempty"`
	ConversationID string   `json:"conversationId,omitempty"`
	ParticipantIDs []string `json:"participantIds,omitempty"`
}

// CheckResponse wraps the verdict for the HTTP contract
type CheckResponse struct {
	FraudScore Verdict `json:"fraudScore"`
}

// AlertStatus tracks the moderation lifecycle of a recorded alert
type AlertStatus string

const (
	AlertStatusPending       AlertStatus = "pending"
	AlertStatusConfirmed     AlertStatus = "confirmed"
	AlertStatusFalsePositive AlertStatus = "false_positive"
)

// ModerationAlert is the persisted record of a high-risk or blocked message,
// kept for moderation review and audit
type ModerationAlert struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	SenderID       *uuid.UUID  `json:"sender_id,omitempty" db:"sender_id"`
	ConversationID *uuid.UUID  `json:"conversation_id,omitempty" db:"conversation_id"`
	Score          int         `json:"score" db:"score"`
	RiskLevel      RiskLevel   `json:"risk_level" db:"risk_level"`
	Blocked        bool        `json:"blocked" db:"blocked"`
	Flags          []string    `json:"flags" db:"flags"`
	Reasons        []string    `json:"reasons" db:"reasons"`
	Status         AlertStatus `json:"status" db:"status"`
	ReviewedBy     *uuid.UUID  `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt     *time.Time  `json:"reviewed_at,omitempty" db:"reviewed_at"`
	Notes          string      `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// ResolveAlertRequest resolves a moderation alert
type ResolveAlertRequest struct {
	Confirmed bool   `json:"confirmed"`
	Notes     string `json:"notes,omitempty"`
}

package verification

import (
	"time"

	"github.com/google/uuid"
)

// Status is a user's identity verification state
type Status string

const (
	StatusUnverified Status = "unverified"
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusFailed     Status = "failed"
)

// Attempt is one verification attempt against the external identity
// provider. SessionID is the opaque token the provider echoes back in its
// callback.
type Attempt struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	SessionID   string     `json:"session_id" db:"session_id"`
	Status      Status     `json:"status" db:"status"`
	Reason      string     `json:"reason,omitempty" db:"reason"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// CallbackRequest is the result the identity provider posts back
type CallbackRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Approved  bool   `json:"approved"`
	Reason    string `json:"reason" validate:"max=500"`
}

// StatusResponse reports a user's current verification state
type StatusResponse struct {
	Status    Status     `json:"status"`
	AttemptID *uuid.UUID `json:"attempt_id,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

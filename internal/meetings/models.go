package meetings

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus is the lifecycle state of a meeting
type MeetingStatus string

const (
	StatusProposed  MeetingStatus = "proposed"
	StatusConfirmed MeetingStatus = "confirmed"
	StatusCancelled MeetingStatus = "cancelled"
	StatusCompleted MeetingStatus = "completed"
)

// SafeZoneType categorizes vetted meeting locations
type SafeZoneType string

const (
	ZonePoliceStation SafeZoneType = "police_station"
	ZonePublicPlace   SafeZoneType = "public_place"
)

// SafeZone is a vetted public location where buyers and sellers meet
type SafeZone struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Address   string       `json:"address" db:"address"`
	City      string       `json:"city" db:"city"`
	ZipCode   string       `json:"zip_code" db:"zip_code"`
	Latitude  float64      `json:"latitude" db:"latitude"`
	Longitude float64      `json:"longitude" db:"longitude"`
	Type      SafeZoneType `json:"type" db:"type"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Meeting is a scheduled handover between the two conversation participants
type Meeting struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	ConversationID uuid.UUID     `json:"conversation_id" db:"conversation_id"`
	ListingID      uuid.UUID     `json:"listing_id" db:"listing_id"`
	BuyerID        uuid.UUID     `json:"buyer_id" db:"buyer_id"`
	SellerID       uuid.UUID     `json:"seller_id" db:"seller_id"`
	SafeZoneID     uuid.UUID     `json:"safe_zone_id" db:"safe_zone_id"`
	ProposedBy     uuid.UUID     `json:"proposed_by" db:"proposed_by"`
	ScheduledAt    time.Time     `json:"scheduled_at" db:"scheduled_at"`
	Status         MeetingStatus `json:"status" db:"status"`
	Notes          string        `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// ProposeMeetingRequest proposes a meeting at a safe zone
type ProposeMeetingRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" validate:"required"`
	SafeZoneID     uuid.UUID `json:"safe_zone_id" validate:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required,future"`
	Notes          string    `json:"notes" validate:"max=500"`
}

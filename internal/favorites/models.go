package favorites

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a listing saved by a user
type Favorite struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ListingID uuid.UUID `json:"listing_id" db:"listing_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SavedListing is a favorite joined with the listing it points at
type SavedListing struct {
	ListingID  uuid.UUID `json:"listing_id" db:"listing_id"`
	Title      string    `json:"title" db:"title"`
	Make       string    `json:"make" db:"make"`
	Model      string    `json:"model" db:"model"`
	Year       int       `json:"year" db:"year"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Status     string    `json:"status" db:"status"`
	SavedAt    time.Time `json:"saved_at" db:"saved_at"`
}

package listings

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus is the lifecycle state of a listing
type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusPending ListingStatus = "pending"
	StatusSold    ListingStatus = "sold"
	StatusRemoved ListingStatus = "removed"
)

// Listing is a motorcycle offered for sale
type Listing struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	SellerID    uuid.UUID     `json:"seller_id" db:"seller_id"`
	Title       string        `json:"title" db:"title"`
	Make        string        `json:"make" db:"make"`
	Model       string        `json:"model" db:"model"`
	Year        int           `json:"year" db:"year"`
	Mileage     int           `json:"mileage" db:"mileage"`
	PriceCents  int64         `json:"price_cents" db:"price_cents"`
	Description string        `json:"description" db:"description"`
	VIN         string        `json:"vin,omitempty" db:"vin"`
	City        string        `json:"city" db:"city"`
	ZipCode     string        `json:"zip_code" db:"zip_code"`
	Status      ListingStatus `json:"status" db:"status"`
	Images      []string      `json:"images" db:"images"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateListingRequest creates a new listing
type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=120"`
	Make        string   `json:"make" validate:"required"`
	Model       string   `json:"model" validate:"required"`
	Year        int      `json:"year" validate:"required,model_year"`
	Mileage     int      `json:"mileage" validate:"gte=0"`
	PriceCents  int64    `json:"price_cents" validate:"required,gt=0"`
	Description string   `json:"description" validate:"max=5000"`
	VIN         string   `json:"vin" validate:"omitempty,len=17"`
	City        string   `json:"city" validate:"required"`
	ZipCode     string   `json:"zip_code" validate:"required"`
	Images      []string `json:"images" validate:"max=12,dive,url"`
}

// UpdateListingRequest updates an existing listing; nil fields are untouched
type UpdateListingRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=5,max=120"`
	Mileage     *int     `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	PriceCents  *int64   `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	City        *string  `json:"city,omitempty"`
	ZipCode     *string  `json:"zip_code,omitempty"`
	Images      []string `json:"images,omitempty" validate:"omitempty,max=12,dive,url"`
}

// UpdateStatusRequest changes the lifecycle state of a listing
type UpdateStatusRequest struct {
	Status ListingStatus `json:"status" validate:"required,listing_status"`
}

// Filters narrows listing searches
type Filters struct {
	Make     string
	Model    string
	MinYear  int
	MaxYear  int
	MinPrice int64
	MaxPrice int64
	City     string
	Status   ListingStatus
}

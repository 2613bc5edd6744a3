package listings

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines listing persistence
type RepositoryInterface interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	List(ctx context.Context, filters Filters, limit, offset int64) ([]*Listing, int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int64) ([]*Listing, int64, error)
	Update(ctx context.Context, listing *Listing) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status ListingStatus) error
}

// CacheInterface is the subset of the Redis client used for listing reads.
// Satisfied by redis.Client.
type CacheInterface interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ServiceInterface defines listing operations
type ServiceInterface interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, req CreateListingRequest) (*Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	SearchListings(ctx context.Context, filters Filters, limit, offset int64) ([]*Listing, int64, error)
	ListMyListings(ctx context.Context, sellerID uuid.UUID, limit, offset int64) ([]*Listing, int64, error)
	UpdateListing(ctx context.Context, id, requesterID uuid.UUID, req UpdateListingRequest) (*Listing, error)
	UpdateStatus(ctx context.Context, id, requesterID uuid.UUID, req UpdateStatusRequest) error
	GetSellerID(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error)
}

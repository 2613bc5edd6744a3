package favorites

import (
	"context"

	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/internal/listings"
)

// RepositoryInterface defines favorite persistence
type RepositoryInterface interface {
	Save(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*SavedListing, int64, error)
}

// ListingGetter resolves listings being favorited. Satisfied by the
// listings service.
type ListingGetter interface {
	GetListing(ctx context.Context, id uuid.UUID) (*listings.Listing, error)
}

// ServiceInterface defines favorite operations
type ServiceInterface interface {
	SaveListing(ctx context.Context, userID, listingID uuid.UUID) error
	UnsaveListing(ctx context.Context, userID, listingID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*SavedListing, int64, error)
}

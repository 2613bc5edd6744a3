package favorites

import (
	"context"

	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

// Service implements favorite operations
type Service struct {
	repo     RepositoryInterface
	listings ListingGetter
}

// NewService creates a new favorites service
func NewService(repo RepositoryInterface, listings ListingGetter) *Service {
	return &Service{repo: repo, listings: listings}
}

// SaveListing saves a listing for the user. Saving twice is a no-op.
func (s *Service) SaveListing(ctx context.Context, userID, listingID uuid.UUID) error {
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID == userID {
		return common.NewBadRequestError("cannot favorite your own listing", nil)
	}

	_, err = s.repo.Save(ctx, userID, listingID)
	return err
}

// UnsaveListing removes a saved listing
func (s *Service) UnsaveListing(ctx context.Context, userID, listingID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, userID, listingID)
	if err != nil {
		return err
	}
	if !removed {
		return common.NewNotFoundError("favorite not found", nil)
	}
	return nil
}

// ListSaved returns the user's saved listings, most recently saved first
func (s *Service) ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*SavedListing, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

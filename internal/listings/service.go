package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/validation"
)

const listingCacheTTL = 5 * time.Minute

// SubjectListingSold is published when a listing is marked sold
const SubjectListingSold = "listings.listing.sold"

// EventPublisher publishes domain events. Satisfied by events.Publisher.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

// Service implements listing operations with a Redis read-through cache for
// single-listing lookups
type Service struct {
	repo      RepositoryInterface
	cache     CacheInterface
	publisher EventPublisher
}

// NewService creates a new listings service
func NewService(repo RepositoryInterface, cache CacheInterface, publisher EventPublisher) *Service {
	return &Service{repo: repo, cache: cache, publisher: publisher}
}

// CreateListing creates a listing in active state
func (s *Service) CreateListing(ctx context.Context, sellerID uuid.UUID, req CreateListingRequest) (*Listing, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	now := time.Now().UTC()
	listing := &Listing{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Title:       req.Title,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Mileage:     req.Mileage,
		PriceCents:  req.PriceCents,
		Description: req.Description,
		VIN:         req.VIN,
		City:        req.City,
		ZipCode:     req.ZipCode,
		Status:      StatusActive,
		Images:      req.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if listing.Images == nil {
		listing.Images = []string{}
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListing returns a listing, served from cache when possible
func (s *Service) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	if cached := s.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, listing)
	return listing, nil
}

func (s *Service) fromCache(ctx context.Context, id uuid.UUID) *Listing {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.GetString(ctx, cacheKey(id))
	if err != nil || raw == "" {
		return nil
	}
	listing := &Listing{}
	if err := json.Unmarshal([]byte(raw), listing); err != nil {
		logger.WithContext(ctx).Warn("Discarding corrupt listing cache entry",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	return listing
}

func (s *Service) toCache(ctx context.Context, listing *Listing) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(listing)
	if err != nil {
		return
	}
	if err := s.cache.SetWithExpiration(ctx, cacheKey(listing.ID), string(raw), listingCacheTTL); err != nil {
		logger.WithContext(ctx).Warn("Failed to cache listing",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate listing cache",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
	}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("listing:%s", id)
}

// SearchListings searches active listings with filters
func (s *Service) SearchListings(ctx context.Context, filters Filters, limit, offset int64) ([]*Listing, int64, error) {
	if filters.Status == "" {
		filters.Status = StatusActive
	}
	return s.repo.List(ctx, filters, limit, offset)
}

// ListMyListings returns the seller's own listings in every state
func (s *Service) ListMyListings(ctx context.Context, sellerID uuid.UUID, limit, offset int64) ([]*Listing, int64, error) {
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// UpdateListing applies a partial update; only the owner may update
func (s *Service) UpdateListing(ctx context.Context, id, requesterID uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != requesterID {
		return nil, common.NewForbiddenError("only the seller can update this listing")
	}
	if listing.Status == StatusSold || listing.Status == StatusRemoved {
		return nil, common.NewConflictError("listing is no longer editable", nil)
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Mileage != nil {
		listing.Mileage = *req.Mileage
	}
	if req.PriceCents != nil {
		listing.PriceCents = *req.PriceCents
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.City != nil {
		listing.City = *req.City
	}
	if req.ZipCode != nil {
		listing.ZipCode = *req.ZipCode
	}
	if req.Images != nil {
		listing.Images = req.Images
	}
	listing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return listing, nil
}

// UpdateStatus changes the lifecycle state; only the owner may change it
func (s *Service) UpdateStatus(ctx context.Context, id, requesterID uuid.UUID, req UpdateStatusRequest) error {
	if err := validation.ValidateStruct(req); err != nil {
		return common.NewBadRequestError(err.Error(), err)
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != requesterID {
		return common.NewForbiddenError("only the seller can update this listing")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if req.Status == StatusSold && s.publisher != nil {
		s.publisher.Publish(SubjectListingSold, map[string]interface{}{
			"listing_id": id.String(),
			"seller_id":  listing.SellerID.String(),
		})
	}
	return nil
}

// GetSellerID resolves the seller of a listing. Only active listings can be
// contacted, so inactive ones are reported as not found.
func (s *Service) GetSellerID(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error) {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return uuid.Nil, err
	}
	if listing.Status != StatusActive {
		return uuid.Nil, common.NewNotFoundError("listing is not active", nil)
	}
	return listing.SellerID, nil
}

package favorites

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geargillie/safetrade-mvp-sub000/internal/listings"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

// MockRepository is a mock implementation of RepositoryInterface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*SavedListing, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*SavedListing), args.Get(1).(int64), args.Error(2)
}

// MockListings is a mock implementation of ListingGetter
type MockListings struct {
	mock.Mock
}

func (m *MockListings) GetListing(ctx context.Context, id uuid.UUID) (*listings.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listings.Listing), args.Error(1)
}

func TestSaveListing(t *testing.T) {
	repo := new(MockRepository)
	getter := new(MockListings)
	service := NewService(repo, getter)

	userID := uuid.New()
	listing := &listings.Listing{ID: uuid.New(), SellerID: uuid.New()}

	getter.On("GetListing", mock.Anything, listing.ID).Return(listing, nil)
	repo.On("Save", mock.Anything, userID, listing.ID).Return(true, nil)

	err := service.SaveListing(context.Background(), userID, listing.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSaveListing_SaveTwiceIsNoOp(t *testing.T) {
	repo := new(MockRepository)
	getter := new(MockListings)
	service := NewService(repo, getter)

	userID := uuid.New()
	listing := &listings.Listing{ID: uuid.New(), SellerID: uuid.New()}

	getter.On("GetListing", mock.Anything, listing.ID).Return(listing, nil)
	repo.On("Save", mock.Anything, userID, listing.ID).Return(false, nil)

	err := service.SaveListing(context.Background(), userID, listing.ID)

	require.NoError(t, err)
}

func TestSaveListing_OwnListingRejected(t *testing.T) {
	repo := new(MockRepository)
	getter := new(MockListings)
	service := NewService(repo, getter)

	sellerID := uuid.New()
	listing := &listings.Listing{ID: uuid.New(), SellerID: sellerID}

	getter.On("GetListing", mock.Anything, listing.ID).Return(listing, nil)

	err := service.SaveListing(context.Background(), sellerID, listing.ID)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	repo.AssertNotCalled(t, "Save")
}

func TestSaveListing_UnknownListing(t *testing.T) {
	repo := new(MockRepository)
	getter := new(MockListings)
	service := NewService(repo, getter)

	listingID := uuid.New()
	getter.On("GetListing", mock.Anything, listingID).Return(nil, common.NewNotFoundError("listing not found", nil))

	err := service.SaveListing(context.Background(), uuid.New(), listingID)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestUnsaveListing_NotSaved(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockListings))

	userID := uuid.New()
	listingID := uuid.New()
	repo.On("Remove", mock.Anything, userID, listingID).Return(false, nil)

	err := service.UnsaveListing(context.Background(), userID, listingID)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestListSaved(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockListings))

	userID := uuid.New()
	expected := []*SavedListing{{ListingID: uuid.New(), Title: "2018 SV650"}}
	repo.On("ListByUser", mock.Anything, userID, int64(20), int64(0)).Return(expected, int64(1), nil)

	saved, total, err := service.ListSaved(context.Background(), userID, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, expected, saved)
}

package rest

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/query"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/usecase"
	"github.com/stretchr/testify/mock"
)

type MockListingService struct{ mock.Mock }

func listingResult(args mock.Arguments) (*domain.Listing, error) {
	if v := args.Get(0); v != nil {
		return v.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func listingsResult(args mock.Arguments) ([]*domain.Listing, error) {
	if v := args.Get(0); v != nil {
		return v.([]*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) List(ctx context.Context, params query.Params) ([]*domain.Listing, error) {
	return listingsResult(m.Called(ctx, params))
}

func (m *MockListingService) Search(ctx context.Context, req query.SearchRequest) ([]*domain.Listing, error) {
	return listingsResult(m.Called(ctx, req))
}

func (m *MockListingService) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	return listingResult(m.Called(ctx, id))
}

func (m *MockListingService) Create(ctx context.Context, ownerID string, in usecase.CreateListingInput, files []media.StagedFile) (*domain.Listing, error) {
	return listingResult(m.Called(ctx, ownerID, in, files))
}

func (m *MockListingService) Update(ctx context.Context, id, ownerID string, in usecase.UpdateListingInput) (*domain.Listing, error) {
	return listingResult(m.Called(ctx, id, ownerID, in))
}

func (m *MockListingService) Delete(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *MockListingService) AddImages(ctx context.Context, id, ownerID string, files []media.StagedFile) (*domain.Listing, error) {
	return listingResult(m.Called(ctx, id, ownerID, files))
}

type MockFavoriteService struct{ mock.Mock }

func (m *MockFavoriteService) AddFavorite(ctx context.Context, userID, listingID string) (*domain.Favorite, error) {
	args := m.Called(ctx, userID, listingID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func (m *MockFavoriteService) GetFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserService struct{ mock.Mock }

func userResult(args mock.Arguments) (*domain.User, error) {
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) GetMe(ctx context.Context, id string) (*domain.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *MockUserService) UpdateMe(ctx context.Context, id string, in usecase.UpdateMeInput) (*domain.User, error) {
	return userResult(m.Called(ctx, id, in))
}

func (m *MockUserService) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *MockUserService) Create(ctx context.Context, in usecase.CreateUserInput) (*domain.User, error) {
	return userResult(m.Called(ctx, in))
}

func (m *MockUserService) Update(ctx context.Context, id string, in usecase.AdminUpdateUserInput) (*domain.User, error) {
	return userResult(m.Called(ctx, id, in))
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type recordingObserver struct {
	routes   []string
	statuses []int
}

func (o *recordingObserver) ObserveRequest(route string, status int, _ time.Duration) {
	o.routes = append(o.routes, route)
	o.statuses = append(o.statuses, status)
}

package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) Find(ctx context.Context, filter domain.Predicate, view domain.View) ([]*domain.Listing, error) {
	args := m.Called(ctx, filter, view)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) UpdateOwned(ctx context.Context, id, ownerID string, upd domain.ListingUpdate) (*domain.Listing, error) {
	args := m.Called(ctx, id, ownerID, upd)
	if v := args.Get(0); v != nil {
		return v.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) DeleteOwned(ctx context.Context, id, ownerID string) (*domain.Listing, error) {
	args := m.Called(ctx, id, ownerID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) AppendImages(ctx context.Context, id, ownerID string, urls []string, at time.Time) (*domain.Listing, error) {
	args := m.Called(ctx, id, ownerID, urls, at)
	if v := args.Get(0); v != nil {
		return v.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockIngester struct{ mock.Mock }

func (m *MockIngester) Ingest(ctx context.Context, files []media.StagedFile) ([]string, error) {
	args := m.Called(ctx, files)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIngester) Discard(ctx context.Context, urls []string) {
	m.Called(ctx, urls)
}

type MockReleaser struct{ mock.Mock }

func (m *MockReleaser) Release(f media.StagedFile) error {
	return m.Called(f).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, l *domain.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return m.Called(ctx, subject, data).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetEmailByID(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, upd)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotifier struct {
	mock.Mock
	done chan struct{}
}

func (m *MockNotifier) SendListingCreatedEmail(ctx context.Context, to string, l *domain.Listing) error {
	defer close(m.done)
	return m.Called(ctx, to, l).Error(0)
}

type MockFavoriteRepository struct{ mock.Mock }

func (m *MockFavoriteRepository) Add(ctx context.Context, f *domain.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func (m *MockFavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("pg_listings_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func seedListing(name, city string, prices ...float64) *domain.Listing {
	now := time.Now().UTC().Truncate(time.Millisecond)
	l := &domain.Listing{
		PgOwner:       "owner-1",
		Name:          name,
		Address:       domain.Address{DisplayLocality: "Sector 1", MatchLocality: "sector 1", City: city, State: "delhi", Pincode: 110001},
		PgType:        domain.PgTypeMixed,
		Images:        []string{},
		PgContactInfo: domain.ContactInfo{Name: "Asha", Phone: "9876543210"},
		PgAmenities:   map[string]bool{"wifi": true},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, p := range prices {
		l.Sharing = append(l.Sharing, domain.SharingOption{Occupancy: i + 1, Price: p})
	}
	l.RecomputePriceBounds()
	return l
}

func TestListingRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Collection(listingCollectionName).Drop(ctx))
	repo := NewListingRepository(testDB, logger.NewNop())

	a := seedListing("A", "delhi", 5000, 7000)
	b := seedListing("B", "delhi", 9000)
	c := seedListing("C", "noida", 6000)
	for _, l := range []*domain.Listing{a, b, c} {
		require.NoError(t, repo.Create(ctx, l))
		require.NotEmpty(t, l.ID)
	}

	filter := domain.And{
		domain.Equality{Field: "address.city", Value: "delhi"},
		domain.Range{Field: "maxPrice", Op: domain.OpLt, Value: 8000.0},
	}
	found, err := repo.Find(ctx, filter, domain.View{Limit: 20, Exclude: []string{"location", "sharing"}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)
	assert.Empty(t, found[0].Sharing)

	all, err := repo.Find(ctx, domain.MatchAll(), domain.View{Sort: []domain.SortField{{Field: "minPrice", Descending: true}}})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	_, err = repo.DeleteOwned(ctx, a.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	updated, err := repo.AppendImages(ctx, a.ID, "owner-1", []string{"https://cdn.example.com/x.jpg"}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/x.jpg"}, updated.Images)

	deleted, err := repo.DeleteOwned(ctx, a.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, deleted.ID)

	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestFavoriteRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Collection(favoriteCollectionName).Drop(ctx))
	repo := NewFavoriteRepository(testDB, logger.NewNop())

	require.NoError(t, repo.Add(ctx, &domain.Favorite{UserID: "u1", ListingID: "l1"}))
	assert.ErrorIs(t, repo.Add(ctx, &domain.Favorite{UserID: "u1", ListingID: "l1"}), domain.ErrDuplicateFavorite)

	favs, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	require.NoError(t, repo.Remove(ctx, "u1", "l1"))
	assert.ErrorIs(t, repo.Remove(ctx, "u1", "l1"), domain.ErrFavoriteNotFound)
}

func TestUserRepository_EmailLookup(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Collection(userCollectionName).Drop(ctx))
	repo := NewUserRepository(testDB, logger.NewNop())

	u := &domain.User{Name: "Ravi", Email: "ravi@example.com", Role: domain.RoleOwner}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Name: "Other", Email: "ravi@example.com"}), domain.ErrDuplicateEmail)

	email, err := repo.GetEmailByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", email)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

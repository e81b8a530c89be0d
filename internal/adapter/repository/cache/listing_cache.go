package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "pg:listing:"
	defaultTTL = time.Hour
)

// ListingCache implements domain.ListingCache on Redis. A miss is reported
// as (nil, nil).
type ListingCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *logger.Logger
}

func NewListingCache(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *ListingCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ListingCache{client: client, ttl: ttl, logger: log.Named("ListingCache")}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func listingKey(id string) string { return keyPrefix + id }

func (c *ListingCache) Get(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		// corrupt entry, drop it so the next read goes to the store
		c.logger.Warn("Dropping undecodable cache entry", zap.String("listing_id", id), zap.Error(err))
		_ = c.client.Del(ctx, listingKey(id)).Err()
		return nil, nil
	}
	return &listing, nil
}

func (c *ListingCache) Set(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, listingKey(listing.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *ListingCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, listingKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Package cache provides a Redis-backed read-through cache for single rides.
// Rides are never updated after creation, so entries only expire by TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tbourn/go-rides-backend/internal/domain"
)

// DefaultTTL is used when a non-positive TTL is configured.
const DefaultTTL = 10 * time.Minute

const rideKeyPrefix = "cache:ride:"

// RideCache stores rides as JSON under cache:ride:<rideID>.
type RideCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient builds a go-redis client for addr.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// NewRideCache creates a RideCache over client.
func NewRideCache(client *redis.Client, ttl time.Duration) *RideCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RideCache{client: client, ttl: ttl}
}

// Key returns the Redis key for a ride id.
func Key(id int64) string {
	return rideKeyPrefix + strconv.FormatInt(id, 10)
}

// Get retrieves a ride. A miss returns (nil, nil).
func (c *RideCache) Get(ctx context.Context, id int64) (*domain.Ride, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var r domain.Ride
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Set stores ride with the configured TTL.
func (c *RideCache) Set(ctx context.Context, ride domain.Ride) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(ride.RideID), data, c.ttl).Err()
}

// Ping checks connectivity, used at startup to fail fast on a bad address.
func (c *RideCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (c *RideCache) Close() error {
	return c.client.Close()
}

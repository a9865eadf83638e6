package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireDealLock takes a short-lived per-deal lock guarding concurrent
// stage progressions. Returns false when another request holds it.
func (c *Client) AcquireDealLock(ctx context.Context, dealID int64, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:deal:%d", dealID), "1", ttl).Result()
}

// ReleaseDealLock releases a per-deal progression lock
func (c *Client) ReleaseDealLock(ctx context.Context, dealID int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:deal:%d", dealID)).Err()
}

// MarkReminderSent records that a deadline reminder went out for a deal
// today. Returns false when one was already sent, so callers skip the deal.
func (c *Client) MarkReminderSent(ctx context.Context, dealID int64, day string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("reminder:deal:%d:%s", dealID, day)
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

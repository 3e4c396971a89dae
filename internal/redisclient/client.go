package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const messageKeyPrefix = "wa:msg:"

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client. ttl bounds how long a seen message
// id is remembered.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection for readiness probes
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// MarkMessageSeen records an inbound message id. It reports true the first
// time an id is seen and false for redeliveries within the TTL.
func (c *Client) MarkMessageSeen(ctx context.Context, messageID string) (bool, error) {
	first, err := c.rdb.SetNX(ctx, messageKey(messageID), "1", c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record message %s: %w", messageID, err)
	}
	return first, nil
}

func messageKey(messageID string) string {
	return messageKeyPrefix + messageID
}

package applicationinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/go-redis/redis/v8"
)

// DefaultLatestKey is the Redis key used when none is configured
const DefaultLatestKey = "hireform:submissions:latest"

// RedisLatestCache implements LatestCache with a single Redis key
type RedisLatestCache struct {
	client *redis.Client
	key    string
}

// NewRedisLatestCache creates a Redis-backed latest-submission cache
func NewRedisLatestCache(client *redis.Client, key string) *RedisLatestCache {
	if key == "" {
		key = DefaultLatestKey
	}
	return &RedisLatestCache{
		client: client,
		key:    key,
	}
}

// Set overwrites the key with the JSON-encoded submission, without expiry
func (c *RedisLatestCache) Set(ctx context.Context, submission *application.Submission) error {
	data, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal latest submission %s: %w", submission.SubmissionID, err)
	}

	if err := c.client.Set(ctx, c.key, data, 0).Err(); err != nil {
		return application.ErrCacheUnavailable().
			WithCause(err).
			WithDetail("submission_id", submission.SubmissionID.String())
	}
	return nil
}

// Get returns the cached submission, or nil when the key is absent
func (c *RedisLatestCache) Get(ctx context.Context) (*application.Submission, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, application.ErrCacheUnavailable().WithCause(err)
	}

	var submission application.Submission
	if err := json.Unmarshal(data, &submission); err != nil {
		return nil, fmt.Errorf("unmarshal latest submission: %w", err)
	}
	if submission.Skills == nil {
		submission.Skills = []string{}
	}
	return &submission, nil
}

// Ping checks if Redis connection is alive
func (c *RedisLatestCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

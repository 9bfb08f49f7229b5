package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheCorrupt reports a stored value that no longer decodes.
	ErrCacheCorrupt = errors.New("cache value corrupt")
)

const cacheKeyPrefix = "futsal-ai"

// CacheService stores JSON values in Redis.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewCacheService creates a cache over an established Redis client
func NewCacheService(redisClient *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client: redisClient,
		logger: logger,
	}
}

// buildCacheKey constructs consistent cache keys
func (c *CacheService) buildCacheKey(elements ...string) string {
	return fmt.Sprintf("%s:%s", cacheKeyPrefix, strings.Join(elements, ":"))
}

// Set stores a value in cache with TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to set cache value")
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"key": key,
		"ttl": ttl.String(),
	}).Debug("Cached value successfully")
	return nil
}

// Get decodes the value stored under key into dest. It returns ErrCacheMiss
// when the key is absent.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		c.logger.WithError(err).WithField("key", key).Error("Failed to get cache value")
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to unmarshal cache value")
		return fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	c.logger.WithField("key", key).Debug("Cache hit")
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *CacheService) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to delete cache value")
		return err
	}
	return nil
}

// Ping checks the Redis connection, for health and readiness checks
func (c *CacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// completionKey identifies a completion by provider, model and both prompts.
func (c *CacheService) completionKey(provider, model, systemInstruction, userPrompt string) string {
	return c.buildCacheKey("completion", provider, model, hashPrompt(systemInstruction, userPrompt))
}

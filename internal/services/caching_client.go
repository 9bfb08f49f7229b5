package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

// CachingClient serves repeated prompts from Redis. Cache failures never fail
// a completion; they only cost a provider call.
type CachingClient struct {
	next     LLMClient
	cache    *CacheService
	provider string
	model    string
	ttl      time.Duration
	metrics  *metrics.Recorder
	logger   *logrus.Logger
}

// NewCachingClient wraps next so identical prompts are answered from Redis for ttl
func NewCachingClient(next LLMClient, cache *CacheService, provider, model string, ttl time.Duration, recorder *metrics.Recorder, logger *logrus.Logger) *CachingClient {
	return &CachingClient{
		next:     next,
		cache:    cache,
		provider: provider,
		model:    model,
		ttl:      ttl,
		metrics:  recorder,
		logger:   logger,
	}
}

// IsConfigured reports whether the wrapped provider has a credential
func (c *CachingClient) IsConfigured() bool {
	return c.next.IsConfigured()
}

// BreakerState forwards the wrapped client's breaker state, closed when it has none
func (c *CachingClient) BreakerState() gobreaker.State {
	if r, ok := c.next.(BreakerReporter); ok {
		return r.BreakerState()
	}
	return gobreaker.StateClosed
}

// Complete answers from the cache when it can and stores fresh non-empty completions
func (c *CachingClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (*Completion, error) {
	key := c.cache.completionKey(c.provider, c.model, systemInstruction, userPrompt)

	var cached Completion
	err := c.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		c.metrics.RecordCacheLookup(true)
		cached.Cached = true
		return &cached, nil
	case errors.Is(err, ErrCacheMiss):
		c.metrics.RecordCacheLookup(false)
	case errors.Is(err, ErrCacheCorrupt):
		c.metrics.RecordCacheLookup(false)
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.WithError(err).Warn("Failed to evict corrupt LLM cache entry")
		}
	default:
		c.metrics.RecordCacheLookup(false)
		c.logger.WithError(err).Warn("LLM cache lookup failed, calling provider")
	}

	completion, err := c.next.Complete(ctx, systemInstruction, userPrompt)
	if err != nil {
		return nil, err
	}

	if completion.Text != "" {
		if err := c.cache.Set(ctx, key, completion, c.ttl); err != nil {
			c.logger.WithError(err).Warn("Failed to cache LLM completion")
		}
	}
	return completion, nil
}

func hashPrompt(systemInstruction, userPrompt string) string {
	h := sha256.New()
	h.Write([]byte(systemInstruction))
	h.Write([]byte{0})
	h.Write([]byte(userPrompt))
	return hex.EncodeToString(h.Sum(nil))
}

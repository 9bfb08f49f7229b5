package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/futsal-ai/pkg/config"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

// LLMClient produces a completion for a system instruction and a user prompt.
type LLMClient interface {
	Complete(ctx context.Context, systemInstruction, userPrompt string) (*Completion, error)
	IsConfigured() bool
}

// BreakerReporter is implemented by clients guarded by a circuit breaker.
type BreakerReporter interface {
	BreakerState() gobreaker.State
}

// Completion is the text produced by one LLM call.
type Completion struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	Cached       bool   `json:"-"`
}

// GenerationConfig holds the request parameters shared by every provider.
type GenerationConfig struct {
	Model             string
	MaxTokens         int
	Temperature       float64
	Timeout           time.Duration
	RetryAttempts     int
	RetryBackoff      time.Duration
	BreakerThreshold  int
	RequestsPerMinute int
}

// ClientOptions wires a provider client.
type ClientOptions struct {
	APIKey     string
	BaseURL    string
	Generation GenerationConfig
	Usage      *UsageTracker
	Metrics    *metrics.Recorder
	Logger     *logrus.Logger
}

// BuildGenerationConfig returns the parameters for the configured provider.
func BuildGenerationConfig(cfg *config.Config) GenerationConfig {
	gen := GenerationConfig{
		Model:             cfg.OpenAIModel,
		MaxTokens:         cfg.LLMMaxTokens,
		Temperature:       cfg.LLMTemperature,
		Timeout:           cfg.LLMTimeout,
		RetryAttempts:     cfg.LLMRetryAttempts,
		RetryBackoff:      time.Second,
		BreakerThreshold:  cfg.CircuitBreakerThreshold,
		RequestsPerMinute: cfg.AIRateLimit,
	}
	if cfg.LLMProvider == config.ProviderAnthropic {
		gen.Model = cfg.AnthropicModel
	}
	if gen.MaxTokens <= 0 {
		gen.MaxTokens = 1500
	}
	if gen.RetryAttempts < 1 {
		gen.RetryAttempts = 1
	}
	return gen
}

// NewLLMClient builds the client for the configured provider, wrapped in a
// response cache when one is given.
func NewLLMClient(cfg *config.Config, cache *CacheService, usage *UsageTracker, recorder *metrics.Recorder, logger *logrus.Logger) (LLMClient, error) {
	opts := ClientOptions{
		Generation: BuildGenerationConfig(cfg),
		Usage:      usage,
		Metrics:    recorder,
		Logger:     logger,
	}

	var (
		client   LLMClient
		provider string
	)
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		opts.APIKey, opts.BaseURL = cfg.OpenAIAPIKey, cfg.OpenAIBaseURL
		client, provider = NewOpenAIClient(opts), config.ProviderOpenAI
	case config.ProviderAnthropic:
		opts.APIKey, opts.BaseURL = cfg.AnthropicAPIKey, cfg.AnthropicBaseURL
		client, provider = NewClaudeClient(opts), config.ProviderAnthropic
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}

	if !client.IsConfigured() {
		logger.WithField("provider", provider).Warn("LLM API key not set, analyses will return a placeholder")
	}

	if cache != nil && cfg.CacheTTL() > 0 {
		return NewCachingClient(client, cache, provider, opts.Generation.Model, cfg.CacheTTL(), recorder, logger), nil
	}
	return client, nil
}

func newCircuitBreaker(name string, threshold int, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	if threshold < 1 {
		threshold = 3
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		// Cancelled calls do not count against the provider.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("LLM circuit breaker state changed")
		},
	})
}

func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// retryableError marks a failure worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error {
	return &retryableError{err: err}
}

// withRetry calls attempt until it succeeds, returns a non-retryable error, or
// the attempts run out. Backoff doubles from base and is cut short by ctx.
func withRetry(ctx context.Context, attempts int, base time.Duration, attempt func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(base << uint(i-1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
			case <-timer.C:
			}
		}

		err := attempt(ctx)
		if err == nil {
			return nil
		}
		var rerr *retryableError
		if !errors.As(err, &rerr) {
			return err
		}
		lastErr = rerr.err
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

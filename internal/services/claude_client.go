package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/futsal-ai/pkg/config"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

// ClaudeClient calls the Anthropic Messages API with rate limiting, retries and
// a circuit breaker.
type ClaudeClient struct {
	httpClient     *http.Client
	logger         *logrus.Logger
	metrics        *metrics.Recorder
	apiKey         string
	baseURL        string
	config         GenerationConfig
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	usage          *UsageTracker
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type claudeError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClaudeClient creates a new Claude API client with circuit breaker and rate limiting
func NewClaudeClient(opts ClientOptions) *ClaudeClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	return &ClaudeClient{
		httpClient:     &http.Client{Timeout: opts.Generation.Timeout},
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		apiKey:         strings.TrimSpace(opts.APIKey),
		baseURL:        baseURL,
		config:         opts.Generation,
		rateLimiter:    newLimiter(opts.Generation.RequestsPerMinute),
		circuitBreaker: newCircuitBreaker("anthropic-api", opts.Generation.BreakerThreshold, opts.Logger),
		usage:          opts.Usage,
	}
}

// IsConfigured reports whether an API key was provided
func (c *ClaudeClient) IsConfigured() bool {
	return c.apiKey != ""
}

// BreakerState exposes the circuit breaker state for health checks
func (c *ClaudeClient) BreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

// Complete sends one system + user exchange and returns the concatenated text blocks.
func (c *ClaudeClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (*Completion, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	completion, err := c.complete(ctx, systemInstruction, userPrompt)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.ObserveLLMCall(config.ProviderAnthropic, "error", elapsed)
		c.logger.WithError(err).WithFields(logrus.Fields{
			"provider":   config.ProviderAnthropic,
			"elapsed_ms": elapsed.Milliseconds(),
		}).Error("LLM request failed")
		return nil, fmt.Errorf("%w: anthropic: %w", ErrGeneration, err)
	}

	c.metrics.ObserveLLMCall(config.ProviderAnthropic, "success", elapsed)
	c.metrics.AddLLMTokens(config.ProviderAnthropic, completion.InputTokens, completion.OutputTokens)
	c.usage.RecordTokens(completion.InputTokens + completion.OutputTokens)

	c.logger.WithFields(logrus.Fields{
		"provider":      config.ProviderAnthropic,
		"model":         completion.Model,
		"input_tokens":  completion.InputTokens,
		"output_tokens": completion.OutputTokens,
		"elapsed_ms":    elapsed.Milliseconds(),
	}).Debug("LLM request completed")
	return completion, nil
}

func (c *ClaudeClient) complete(ctx context.Context, systemInstruction, userPrompt string) (*Completion, error) {
	if err := c.usage.Reserve(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(claudeRequest{
		Model:       c.config.Model,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		System:      systemInstruction,
		Messages:    []claudeMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		var resp *claudeResponse
		err := withRetry(ctx, c.config.RetryAttempts, c.config.RetryBackoff, func(ctx context.Context) error {
			var err error
			resp, err = c.send(ctx, body)
			return err
		})
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	resp := result.(*claudeResponse)
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &Completion{
		Text:         text.String(),
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

// send performs one HTTP attempt. Rate limiting and server errors are retryable.
func (c *ClaudeClient) send(ctx context.Context, body []byte) (*claudeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, retryable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var out claudeResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &out, nil
	}

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	message := strings.TrimSpace(string(payload))
	var apiErr claudeError
	if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("invalid API credentials: %s", message)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retryable(fmt.Errorf("rate limit exceeded: %s", message))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, retryable(fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, message))
	default:
		return nil, fmt.Errorf("unexpected error (status %d): %s", resp.StatusCode, message)
	}
}

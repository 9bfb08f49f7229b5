package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/futsal-ai/pkg/config"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

// OpenAIClient calls the chat completions API. Retries are left to the SDK.
type OpenAIClient struct {
	client         openai.Client
	configured     bool
	logger         *logrus.Logger
	metrics        *metrics.Recorder
	config         GenerationConfig
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	usage          *UsageTracker
}

// NewOpenAIClient creates a chat completions client with its own circuit breaker and rate limiter
func NewOpenAIClient(opts ClientOptions) *OpenAIClient {
	apiKey := strings.TrimSpace(opts.APIKey)

	requestOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(max(opts.Generation.RetryAttempts-1, 0)),
		option.WithHTTPClient(&http.Client{Timeout: opts.Generation.Timeout}),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &OpenAIClient{
		client:         openai.NewClient(requestOpts...),
		configured:     apiKey != "",
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		config:         opts.Generation,
		rateLimiter:    newLimiter(opts.Generation.RequestsPerMinute),
		circuitBreaker: newCircuitBreaker("openai-api", opts.Generation.BreakerThreshold, opts.Logger),
		usage:          opts.Usage,
	}
}

// IsConfigured reports whether an API key was provided
func (c *OpenAIClient) IsConfigured() bool {
	return c.configured
}

// BreakerState exposes the circuit breaker state for health checks
func (c *OpenAIClient) BreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

// Complete sends one system + user exchange and returns the first choice
func (c *OpenAIClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (*Completion, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	completion, err := c.complete(ctx, systemInstruction, userPrompt)
	elapsed := time.Since(start)

	if err != nil {
		fields := logrus.Fields{
			"provider":   config.ProviderOpenAI,
			"elapsed_ms": elapsed.Milliseconds(),
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			fields["status"] = apiErr.StatusCode
		}
		c.metrics.ObserveLLMCall(config.ProviderOpenAI, "error", elapsed)
		c.logger.WithError(err).WithFields(fields).Error("LLM request failed")
		return nil, fmt.Errorf("%w: openai: %w", ErrGeneration, err)
	}

	c.metrics.ObserveLLMCall(config.ProviderOpenAI, "success", elapsed)
	c.metrics.AddLLMTokens(config.ProviderOpenAI, completion.InputTokens, completion.OutputTokens)
	c.usage.RecordTokens(completion.InputTokens + completion.OutputTokens)

	c.logger.WithFields(logrus.Fields{
		"provider":      config.ProviderOpenAI,
		"model":         completion.Model,
		"input_tokens":  completion.InputTokens,
		"output_tokens": completion.OutputTokens,
		"elapsed_ms":    elapsed.Milliseconds(),
	}).Debug("LLM request completed")
	return completion, nil
}

func (c *OpenAIClient) complete(ctx context.Context, systemInstruction, userPrompt string) (*Completion, error) {
	if err := c.usage.Reserve(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.config.Model),
		MaxTokens:   openai.Int(int64(c.config.MaxTokens)),
		Temperature: openai.Float(c.config.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemInstruction),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userPrompt),
					},
				},
			},
		},
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	resp := result.(*openai.ChatCompletion)
	if len(resp.Choices) == 0 {
		return nil, errors.New("response has no choices")
	}

	return &Completion{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

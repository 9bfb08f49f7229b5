package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var ErrUsageLimit = errors.New("usage limit exceeded")

// UsageTracker enforces the per-minute request and per-hour token budgets of
// the LLM provider. Counters are reset by cron at the top of each window.
type UsageTracker struct {
	mu             sync.Mutex
	minuteRequests int
	hourlyTokens   int64
	requestLimit   int
	tokenLimit     int64

	cron   *cron.Cron
	logger *logrus.Logger
}

// UsageStats is a snapshot of the current windows.
type UsageStats struct {
	MinuteRequests int   `json:"minuteRequests"`
	RequestLimit   int   `json:"requestLimit"`
	HourlyTokens   int64 `json:"hourlyTokens"`
	TokenLimit     int64 `json:"tokenLimit"`
}

// NewUsageTracker creates a tracker. A limit of zero or less disables that check.
func NewUsageTracker(requestLimit int, tokenLimit int64, logger *logrus.Logger) *UsageTracker {
	return &UsageTracker{
		requestLimit: requestLimit,
		tokenLimit:   tokenLimit,
		logger:       logger,
	}
}

// Start schedules the window resets.
func (t *UsageTracker) Start() error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", t.resetMinute); err != nil {
		return fmt.Errorf("schedule minute reset: %w", err)
	}
	if _, err := c.AddFunc("@hourly", t.resetHour); err != nil {
		return fmt.Errorf("schedule hourly reset: %w", err)
	}
	c.Start()

	t.mu.Lock()
	t.cron = c
	t.mu.Unlock()

	t.logger.WithFields(logrus.Fields{
		"request_limit": t.requestLimit,
		"token_limit":   t.tokenLimit,
	}).Info("LLM usage tracker started")
	return nil
}

// Stop halts the scheduler and waits for a running reset to finish.
func (t *UsageTracker) Stop() {
	t.mu.Lock()
	c := t.cron
	t.cron = nil
	t.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// Reserve counts one request against the minute window, or fails when either
// budget is spent.
func (t *UsageTracker) Reserve() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.requestLimit > 0 && t.minuteRequests >= t.requestLimit {
		return fmt.Errorf("%w: %d/%d requests per minute", ErrUsageLimit, t.minuteRequests, t.requestLimit)
	}
	if t.tokenLimit > 0 && t.hourlyTokens >= t.tokenLimit {
		return fmt.Errorf("%w: %d/%d tokens per hour", ErrUsageLimit, t.hourlyTokens, t.tokenLimit)
	}

	t.minuteRequests++
	t.logger.WithFields(logrus.Fields{
		"minute_requests": t.minuteRequests,
		"hourly_tokens":   t.hourlyTokens,
	}).Debug("Tracked LLM request")
	return nil
}

// RecordTokens adds the tokens of a finished call to the current hour
func (t *UsageTracker) RecordTokens(tokens int) {
	if t == nil || tokens <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hourlyTokens += int64(tokens)
}

// Stats returns a snapshot of the current windows
func (t *UsageTracker) Stats() UsageStats {
	if t == nil {
		return UsageStats{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return UsageStats{
		MinuteRequests: t.minuteRequests,
		RequestLimit:   t.requestLimit,
		HourlyTokens:   t.hourlyTokens,
		TokenLimit:     t.tokenLimit,
	}
}

func (t *UsageTracker) resetMinute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.minuteRequests = 0
}

func (t *UsageTracker) resetHour() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hourlyTokens > 0 {
		t.logger.WithField("hourly_tokens", t.hourlyTokens).Debug("Resetting hourly LLM token window")
	}
	t.hourlyTokens = 0
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/futsal-ai/internal/services"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"

	serviceName    = "futsal-ai"
	serviceVersion = "1.0.0"
	pingTimeout    = 2 * time.Second
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	positions   services.Classifier
	physical    services.Classifier
	llm         services.LLMClient
	cache       *services.CacheService
	usage       *services.UsageTracker
	metrics     *metrics.Recorder
	logger      *logrus.Logger
	startTime   time.Time
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks"`
	Usage     services.UsageStats    `json:"usage"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Latency   string    `json:"latency,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool            `json:"ready"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	Checks    map[string]bool `json:"checks"`
}

// NewHealthHandler creates a new health handler. cache may be nil when the
// completion cache is disabled.
func NewHealthHandler(
	positions, physical services.Classifier,
	llm services.LLMClient,
	cache *services.CacheService,
	usage *services.UsageTracker,
	recorder *metrics.Recorder,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		positions:   positions,
		physical:    physical,
		llm:         llm,
		cache:       cache,
		usage:       usage,
		metrics:     recorder,
		logger:      logger,
		startTime:   time.Now(),
	}
}

// GetHealth reports every dependency. Only missing classifiers make the
// service unhealthy; LLM and Redis problems degrade it.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	h.logger.Debug("Health check requested")

	checks := map[string]HealthCheck{
		"classifiers": h.checkClassifiers(),
		"llm":         h.checkLLM(),
		"redis":       h.checkRedis(c.Request.Context()),
	}

	overall := statusHealthy
	for name, check := range checks {
		switch {
		case check.Status == statusUnhealthy && name == "classifiers":
			overall = statusUnhealthy
		case check.Status == statusUnhealthy || check.Status == statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	statusCode := http.StatusOK
	if overall == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Service:   serviceName,
		Version:   serviceVersion,
		Uptime:    time.Since(h.startTime).String(),
		Checks:    checks,
		Usage:     h.usage.Stats(),
	})
}

// GetReady checks if the service is ready to serve requests. A missing LLM key
// does not block readiness: analyses then answer with the not-configured result.
func (h *HealthHandler) GetReady(c *gin.Context) {
	h.logger.Debug("Readiness check requested")

	checks := map[string]bool{
		"classifiers": h.checkClassifiers().Status == statusHealthy,
	}
	if h.cache != nil {
		checks["redis"] = h.checkRedis(c.Request.Context()).Status != statusUnhealthy
	}

	ready := true
	for _, ok := range checks {
		if !ok {
			ready = false
			break
		}
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, ReadinessResponse{
		Ready:     ready,
		Timestamp: time.Now(),
		Service:   serviceName,
		Checks:    checks,
	})
}

// GetMetrics serves the Prometheus registry
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

func (h *HealthHandler) checkClassifiers() HealthCheck {
	if h.positions == nil || h.physical == nil {
		return HealthCheck{
			Status:    statusUnhealthy,
			Message:   "Classifier models are not loaded",
			CheckedAt: time.Now(),
		}
	}
	return HealthCheck{Status: statusHealthy, CheckedAt: time.Now()}
}

func (h *HealthHandler) checkLLM() HealthCheck {
	check := HealthCheck{Status: statusHealthy, CheckedAt: time.Now()}

	if !h.llm.IsConfigured() {
		check.Status = statusDegraded
		check.Message = "LLM API key is not configured"
		return check
	}

	if reporter, ok := h.llm.(services.BreakerReporter); ok {
		switch reporter.BreakerState() {
		case gobreaker.StateOpen:
			check.Status = statusUnhealthy
			check.Message = "LLM circuit breaker is open"
		case gobreaker.StateHalfOpen:
			check.Status = statusDegraded
			check.Message = "LLM circuit breaker is half-open"
		}
	}
	return check
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.cache == nil {
		return HealthCheck{Status: statusDisabled, CheckedAt: time.Now()}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.cache.Ping(ctx); err != nil {
		return HealthCheck{
			Status:    statusUnhealthy,
			Message:   "Redis ping failed: " + err.Error(),
			CheckedAt: time.Now(),
		}
	}

	latency := time.Since(start)
	status := statusHealthy
	if latency > 50*time.Millisecond {
		status = statusDegraded
	}
	return HealthCheck{
		Status:    status,
		Latency:   latency.String(),
		CheckedAt: time.Now(),
	}
}

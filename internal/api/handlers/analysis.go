package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/futsal-ai/internal/api/middleware"
	"github.com/stitts-dev/futsal-ai/internal/services"
	"github.com/stitts-dev/futsal-ai/pkg/logger"
	"github.com/stitts-dev/futsal-ai/pkg/utils"
)

// AnalysisHandler serves the LLM-backed player and team analyses
type AnalysisHandler struct {
	engine         *services.AnalysisEngine
	requestTimeout time.Duration
	logger         *logrus.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(engine *services.AnalysisEngine, requestTimeout time.Duration, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		engine:         engine,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// AnalyzePlayer classifies one player and returns the structured LLM analysis.
// Provider failures still answer 200 with success=false in the result.
func (h *AnalysisHandler) AnalyzePlayer(c *gin.Context) {
	data, ok := bindPlayer(c, h.logger)
	if !ok {
		return
	}

	fv, errs := services.ParseFeatures(data)
	if len(errs) > 0 {
		sendFieldErrors(c, errs)
		return
	}

	position, physical, err := h.engine.Classify(fv)
	if err != nil {
		sendClassificationError(c, h.logger, err)
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	result := h.engine.AnalyzePlayer(ctx, fv, position, physical)

	logger.WithRequestContext(h.logger, c.GetString(middleware.RequestIDKey)).WithFields(logrus.Fields{
		"position": result.PositionName,
		"physical": result.PhysicalName,
		"success":  result.Success,
	}).Info("Player analysis served")

	utils.SendSuccess(c, result)
}

// AnalyzeTeam analyses every submitted player and then the team as a whole.
func (h *AnalysisHandler) AnalyzeTeam(c *gin.Context) {
	req, ok := bindTeam(c, h.logger)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	report := h.engine.AnalyzeTeam(ctx, req.TeamName, req.Players)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.WithRequestContext(h.logger, c.GetString(middleware.RequestIDKey)).
			WithField("timeout", h.requestTimeout.String()).
			Warn("Team analysis hit the request timeout")
	}

	utils.SendSuccess(c, report)
}

// FullRecommendations returns both classifications and the recommendations for
// the pair, without calling the LLM.
func (h *AnalysisHandler) FullRecommendations(c *gin.Context) {
	data, ok := bindPlayer(c, h.logger)
	if !ok {
		return
	}

	fv, errs := services.ParseAndValidate(data)
	if len(errs) > 0 {
		sendFieldErrors(c, errs)
		return
	}

	full, err := h.engine.FullRecommendations(fv)
	if err != nil {
		sendClassificationError(c, h.logger, err)
		return
	}

	utils.SendSuccess(c, full)
}

func (h *AnalysisHandler) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.requestTimeout)
}

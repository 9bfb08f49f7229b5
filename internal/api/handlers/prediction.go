package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/futsal-ai/internal/services"
	"github.com/stitts-dev/futsal-ai/pkg/utils"
)

// PredictionHandler serves the classifier-only endpoints
type PredictionHandler struct {
	engine *services.AnalysisEngine
	logger *logrus.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(engine *services.AnalysisEngine, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{
		engine: engine,
		logger: logger,
	}
}

// PredictPosition classifies one player's position
func (h *PredictionHandler) PredictPosition(c *gin.Context) {
	data, ok := bindPlayer(c, h.logger)
	if !ok {
		return
	}
	fv, errs := services.ParseAndValidate(data)
	if len(errs) > 0 {
		sendFieldErrors(c, errs)
		return
	}

	prediction, err := h.engine.PredictPosition(fv)
	if err != nil {
		sendClassificationError(c, h.logger, err)
		return
	}
	utils.SendSuccess(c, prediction)
}

// PredictPhysical classifies one player's physical condition with its profile
func (h *PredictionHandler) PredictPhysical(c *gin.Context) {
	data, ok := bindPlayer(c, h.logger)
	if !ok {
		return
	}
	fv, errs := services.ParseAndValidate(data)
	if len(errs) > 0 {
		sendFieldErrors(c, errs)
		return
	}

	prediction, err := h.engine.PredictPhysical(fv)
	if err != nil {
		sendClassificationError(c, h.logger, err)
		return
	}
	utils.SendSuccess(c, prediction)
}

// PredictTeamPositions classifies every player's position, isolating failures per player
func (h *PredictionHandler) PredictTeamPositions(c *gin.Context) {
	req, ok := bindTeam(c, h.logger)
	if !ok {
		return
	}
	utils.SendSuccess(c, h.engine.PredictTeamPositions(req.TeamName, req.Players))
}

// PredictTeamPhysical classifies every player's physical condition, isolating failures per player
func (h *PredictionHandler) PredictTeamPhysical(c *gin.Context) {
	req, ok := bindTeam(c, h.logger)
	if !ok {
		return
	}
	utils.SendSuccess(c, h.engine.PredictTeamPhysical(req.TeamName, req.Players))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/futsal-ai/internal/api/middleware"
	"github.com/stitts-dev/futsal-ai/internal/models"
	"github.com/stitts-dev/futsal-ai/pkg/utils"
)

const (
	msgJSONRequired   = "Se requiere JSON"
	msgInvalidTeam    = "Formato inválido. Se espera un objeto JSON con una lista de jugadores en 'players'"
	msgBodyTooLarge   = "El cuerpo de la solicitud es demasiado grande"
	msgClassification = "No se pudo clasificar al jugador"
)

// TeamRequest is the body of every team endpoint.
type TeamRequest struct {
	TeamName string               `json:"teamName"`
	Players  []models.PlayerInput `json:"players"`
}

// bindPlayer decodes a single player object. It writes the error response and
// returns false when the body is unusable.
func bindPlayer(c *gin.Context, log *logrus.Logger) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		rejectBody(c, log, err, msgJSONRequired)
		return nil, false
	}
	if data == nil {
		utils.SendBadRequest(c, msgJSONRequired)
		return nil, false
	}
	return data, true
}

func bindTeam(c *gin.Context, log *logrus.Logger) (*TeamRequest, bool) {
	var req TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBody(c, log, err, msgInvalidTeam)
		return nil, false
	}
	if req.Players == nil {
		utils.SendBadRequest(c, msgInvalidTeam)
		return nil, false
	}
	return &req, true
}

func rejectBody(c *gin.Context, log *logrus.Logger, err error, message string) {
	if middleware.IsBodyTooLarge(err) {
		utils.SendPayloadTooLarge(c, msgBodyTooLarge)
		return
	}
	log.WithError(err).WithField("path", c.FullPath()).Warn("Invalid request body")
	utils.SendValidationError(c, message, err.Error())
}

func sendFieldErrors(c *gin.Context, errs models.ValidationErrors) {
	utils.SendFieldErrors(c, errs.Error(), errs)
}

func sendClassificationError(c *gin.Context, log *logrus.Logger, err error) {
	log.WithError(err).WithField("path", c.FullPath()).Error("Classification failed")
	utils.SendError(c, http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeClassification, msgClassification, err.Error()))
}

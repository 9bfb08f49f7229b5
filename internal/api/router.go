package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/futsal-ai/internal/api/handlers"
	"github.com/stitts-dev/futsal-ai/internal/api/middleware"
	"github.com/stitts-dev/futsal-ai/internal/services"
	"github.com/stitts-dev/futsal-ai/pkg/config"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
	"github.com/stitts-dev/futsal-ai/pkg/utils"
)

// Dependencies are the long-lived collaborators the HTTP layer needs.
type Dependencies struct {
	Config    *config.Config
	Engine    *services.AnalysisEngine
	Positions services.Classifier
	Physical  services.Classifier
	LLM       services.LLMClient
	Cache     *services.CacheService
	Usage     *services.UsageTracker
	Metrics   *metrics.Recorder
	Logger    *logrus.Logger
}

// NewRouter builds the engine with middleware, health routes and /api/v1.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.Config.CorsOrigins),
	)
	router.NoRoute(func(c *gin.Context) {
		utils.SendNotFound(c, "Recurso no encontrado")
	})

	healthHandler := handlers.NewHealthHandler(
		deps.Positions,
		deps.Physical,
		deps.LLM,
		deps.Cache,
		deps.Usage,
		deps.Metrics,
		deps.Logger,
	)
	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.HEAD("/ready", healthHandler.GetReady)
	router.GET("/metrics", healthHandler.GetMetrics)

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.BodyLimit(deps.Config.MaxContentLength))
	SetupRoutes(apiV1, deps)

	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	analysisHandler := handlers.NewAnalysisHandler(deps.Engine, deps.Config.RequestTimeout, deps.Logger)
	predictionHandler := handlers.NewPredictionHandler(deps.Engine, deps.Logger)

	// LLM analyses
	group.POST("/analyze", analysisHandler.AnalyzePlayer)
	group.POST("/team/analyze", analysisHandler.AnalyzeTeam)
	group.POST("/full-recommendations", analysisHandler.FullRecommendations)

	// Classifier-only predictions
	group.POST("/predict-position", predictionHandler.PredictPosition)
	group.POST("/predict-physical", predictionHandler.PredictPhysical)
	group.POST("/team/predict-positions", predictionHandler.PredictTeamPositions)
	group.POST("/team/predict-physical", predictionHandler.PredictTeamPhysical)
}

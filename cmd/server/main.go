package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/futsal-ai/internal/api"
	"github.com/stitts-dev/futsal-ai/internal/classifier"
	"github.com/stitts-dev/futsal-ai/internal/services"
	"github.com/stitts-dev/futsal-ai/pkg/config"
	"github.com/stitts-dev/futsal-ai/pkg/logger"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

const serviceName = "futsal-ai"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	log := logger.WithService(structuredLogger, serviceName)

	if err := cfg.Validate(); err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			for _, problem := range cfgErr.Problems {
				log.WithField("problem", problem).Error("Invalid configuration")
			}
		}
		log.Fatalf("Refusing to start: %v", err)
	}

	log.WithFields(logrus.Fields{
		"version":      "1.0.0",
		"environment":  cfg.Env,
		"port":         cfg.Port,
		"llm_provider": cfg.LLMProvider,
	}).Info("Starting futsal analysis service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	positionsModel, err := classifier.LoadModel(cfg.PositionsModelPath)
	if err != nil {
		log.Fatalf("Failed to load positions model: %v", err)
	}
	physicalModel, err := classifier.LoadModel(cfg.PhysicalConditionsModelPath)
	if err != nil {
		log.Fatalf("Failed to load physical conditions model: %v", err)
	}
	log.WithFields(logrus.Fields{
		"position_clusters": positionsModel.Clusters(),
		"physical_clusters": physicalModel.Clusters(),
	}).Info("Classifier models loaded")

	// Redis is optional: without it completions are not cached.
	var cacheService *services.CacheService
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		defer redisClient.Close()
		cacheService = services.NewCacheService(redisClient, structuredLogger)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = cacheService.Ping(pingCtx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Redis unreachable at startup, completion cache may miss until it recovers")
		}
	}

	recorder := metrics.NewRecorder()

	usage := services.NewUsageTracker(cfg.AIRateLimit, cfg.AITokenLimit, structuredLogger)
	if err := usage.Start(); err != nil {
		log.Fatalf("Failed to start usage tracker: %v", err)
	}
	defer usage.Stop()

	llmClient, err := services.NewLLMClient(cfg, cacheService, usage, recorder, structuredLogger)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	engine := services.NewAnalysisEngine(
		positionsModel,
		physicalModel,
		llmClient,
		services.NewPromptBuilder(structuredLogger),
		recorder,
		structuredLogger,
		cfg.BatchConcurrency,
	)

	router := api.NewRouter(api.Dependencies{
		Config:    cfg,
		Engine:    engine,
		Positions: positionsModel,
		Physical:  physicalModel,
		LLM:       llmClient,
		Cache:     cacheService,
		Usage:     usage,
		Metrics:   recorder,
		Logger:    structuredLogger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Futsal analysis service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down futsal analysis service...")

	// The server has 5 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Futsal analysis service forced to shutdown: %v", err)
	}

	log.Info("Futsal analysis service exited")
}

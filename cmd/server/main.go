package main

import (
	"log"

	"github.com/SAP-F-2025/override-service/internal/cache"
	"github.com/SAP-F-2025/override-service/internal/config"
	"github.com/SAP-F-2025/override-service/internal/handlers"
	"github.com/SAP-F-2025/override-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/override-service/internal/services"
	"github.com/SAP-F-2025/override-service/internal/utils"
	"github.com/SAP-F-2025/override-service/internal/validator"
	"github.com/SAP-F-2025/override-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		return
	}
	defer redisClient.Close()

	publisher, err := config.LoadEventConfig().CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		return
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	batchStore := cache.NewRedisBatchStore(redisClient, slogger)

	importService := services.NewOverrideImportService(
		repo, batchStore, publisher, slogger, validator.New(), cfg.BatchTTL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlers.NewHandlerManager(importService, logger).SetupRoutes(router)

	logger.Info("Starting override service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
	}
}

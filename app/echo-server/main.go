package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"shopRecs/app/echo-server/router"
	"shopRecs/business/interaction"
	"shopRecs/business/recommend"
	"shopRecs/internal/middleware"
	psqlRepo "shopRecs/internal/repository/postgres"
	redisRepo "shopRecs/internal/repository/redis"
	"shopRecs/internal/rest"
	"shopRecs/pkg/config"
	"shopRecs/pkg/database"
	redisdb "shopRecs/pkg/database/redis"
	"shopRecs/pkg/logger"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ShopRecs", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init repo
	productRepo := psqlRepo.NewProductRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	logRepo := psqlRepo.NewRecommendationLogRepository(db)

	// Optional recommendation page cache
	var pageCache rest.PageCache
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisdb.CloseRedisClient(redisClient)

		ttl := time.Duration(cfg.Recommend.CacheTTLSeconds) * time.Second
		pageCache = redisRepo.NewRecommendationCache(redisClient, ttl)
		logger.Info("Recommendation page cache enabled", "ttl", ttl)
	}

	// Init service
	recommendService := recommend.NewService(productRepo, interactionRepo, categoryRepo, logRepo, recommend.DefaultConfig())
	interactionService := interaction.NewInteractionService(interactionRepo)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendService, pageCache)
	interactionHandler := rest.NewInteractionHandler(interactionService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Prometheus scrape endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recommendationHandler)
	router.SetupInteractionRoutes(api, interactionHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

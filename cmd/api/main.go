package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/proteintrack/backend/config"
	"github.com/proteintrack/backend/internal/api"
	"github.com/proteintrack/backend/internal/database"
	"github.com/proteintrack/backend/internal/router"
	"github.com/proteintrack/backend/internal/server"
	"github.com/proteintrack/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := database.RunMigrations(db, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Redis backs the search cache and rate limiter. The API still works
	// without it, so a failed connection only degrades those features.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("[Main] Redis unavailable, search caching and rate limiting disabled: %v", err)
		redisClient = nil
	}

	var source service.NutritionSource
	if cfg.USDA.APIKey != "" {
		source = service.NewUSDAService(cfg.USDA, redisClient)
	} else {
		log.Println("[Main] No USDA API key configured, food search is local-only")
	}

	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("[Main] S3 unavailable, meal photo uploads disabled: %v", err)
		s3cfg = nil
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	catalogService := service.NewCatalogService(db, source, cfg.USDA.LocalSearchThreshold)
	intakeService := service.NewIntakeService(db, profileService)
	favoriteService := service.NewFavoriteService(db)
	photoService := service.NewPhotoService(db, s3cfg)

	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Food:     api.NewFoodHandler(catalogService),
		Profile:  api.NewProfileHandler(profileService),
		Intake:   api.NewIntakeHandler(intakeService, photoService),
		Favorite: api.NewFavoriteHandler(favoriteService, intakeService),
	}

	r := router.SetupRouter(handlers, authService, redisClient, db)

	srv := server.New(cfg, r)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

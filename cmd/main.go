package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Integral-X/meditrack-backend/config"
	"github.com/Integral-X/meditrack-backend/db"
	authhandler "github.com/Integral-X/meditrack-backend/internal/auth/handler"
	repo "github.com/Integral-X/meditrack-backend/internal/auth/repository/postgres"
	"github.com/Integral-X/meditrack-backend/internal/auth/service"
	"github.com/Integral-X/meditrack-backend/internal/feature"
	featurehandler "github.com/Integral-X/meditrack-backend/internal/feature/handler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost)
	authHandler := authhandler.NewAuthHandler(authService, tokenService)

	flags := feature.NewService(cfg)
	defer func() {
		if err := flags.Close(); err != nil {
			log.Printf("failed to close flag client: %v", err)
		}
	}()
	featureHandler := featurehandler.NewFeatureHandler(flags)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	authhandler.RegisterRoutes(app, authHandler)
	featurehandler.RegisterRoutes(app, featureHandler)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Returning instead of exiting keeps the deferred pool and flag client
	// closes on the failure path.
	select {
	case err := <-listenErr:
		log.Printf("server stopped: %v", err)
	case <-quit:
		log.Println("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

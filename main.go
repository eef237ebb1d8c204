package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storerating/internal/config"
	"storerating/internal/database"
	"storerating/internal/metrics"
	"storerating/internal/server"
	"storerating/internal/services"
	"storerating/pkg/rabbitmq"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.ConfigureLogging()

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, logger.Warn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	creds := services.NewCredentials(cfg.JWTSecret)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Seed(seedCtx, db, database.SeedOptions{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		SampleStores:  cfg.Seed.SampleStores,
	}, creds.HashPassword)
	cancel()
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// --- Initialize RabbitMQ Client ---
	// Events are optional: without a URL they are only counted.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	}

	app := server.New(server.Deps{
		DB:           db,
		Credentials:  creds,
		Events:       events,
		Metrics:      metrics.New(),
		AllowOrigins: cfg.AllowOrigins,
		AccessLog:    os.Stdout,
	})

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server gracefully stopped")
}

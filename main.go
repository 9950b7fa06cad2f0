// main.go
package main

import (
	"log"
	"time"

	"clinic-booking/cmd"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/wire"
	"clinic-booking/pkg/database"
	"clinic-booking/pkg/mailer"
	"clinic-booking/pkg/receipt"
	redisclient "clinic-booking/pkg/redis"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis; without it, webhook deliveries for the same payment
	// are serialized per-process only.
	var locker redisclient.Locker = redisclient.NoopLocker{}
	rdb, err := redisclient.NewRedisClient(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, running without distributed payment locks", zap.Error(err))
	} else {
		defer rdb.Close()
		locker = redisclient.NewRedisPaymentLocker(rdb, 30*time.Second)
		logger.Info("Redis connected successfully")
	}

	// Outbound email + receipt rendering
	mail := mailer.NewSMTPMailer(config.Email, logger)
	receipts := receipt.NewPDFRenderer(config.App.Name)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, mail, receipts, locker, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

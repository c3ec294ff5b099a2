package main

import (
	"fmt"
	"os"

	"github.com/abexp/abexp-backend/internal/db"
	"github.com/abexp/abexp-backend/internal/handlers"
	"github.com/abexp/abexp-backend/internal/middleware"
	"github.com/abexp/abexp-backend/internal/pkg/logger"
	"github.com/abexp/abexp-backend/internal/repos"
	"github.com/abexp/abexp-backend/internal/server"
	"github.com/abexp/abexp-backend/internal/services"
	"github.com/abexp/abexp-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	serverPort := utils.GetEnv("SERVER_PORT", "8080", log)
	authToken := utils.GetEnv("AUTH_TOKEN", "", log)
	if authToken == "" {
		log.Error("AUTH_TOKEN must be set")
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	experimentRepo := repos.NewExperimentRepo(thePG, log)
	deviceRepo := repos.NewDeviceRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	experimentService := services.NewExperimentService(thePG, log, experimentRepo, deviceRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	experimentHandler := handlers.NewExperimentHandler(log, experimentService)
	statisticsHandler := handlers.NewStatisticsHandler(log, experimentService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authToken)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ExperimentHandler: experimentHandler,
		StatisticsHandler: statisticsHandler,
		AuthMiddleware:    authMiddleware,
	})

	addr := fmt.Sprintf(":%s", serverPort)
	log.Info("Starting HTTP server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}

package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abexp/abexp-backend/internal/handlers"
	"github.com/abexp/abexp-backend/internal/middleware"
)

type RouterConfig struct {
	ExperimentHandler *handlers.ExperimentHandler
	StatisticsHandler *handlers.StatisticsHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Device-Id"},
		AllowCredentials: false,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/experiments", cfg.ExperimentHandler.ListExperiments)
		api.POST("/experiments", cfg.ExperimentHandler.CreateExperiment)
		api.GET("/statistics", cfg.StatisticsHandler.GetStatistics)

		// Finishing an experiment is the one privileged operation.
		api.PATCH("/experiments/:id", cfg.AuthMiddleware.RequireAuth(), cfg.ExperimentHandler.FinishExperiment)
	}

	return router
}

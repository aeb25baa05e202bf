package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yungbote/postpilot-backend/internal/handlers"
	"github.com/yungbote/postpilot-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	AutopilotHandler *handlers.AutopilotHandler
	WeekPlanHandler  *handlers.WeekPlanHandler
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Autopilot
	protected.POST("/autopilot/run", cfg.AutopilotHandler.RunBatch)
	protected.GET("/autopilot/buffer", cfg.AutopilotHandler.Buffer)
	protected.POST("/posts/:id/approve", cfg.AutopilotHandler.Approve)
	protected.POST("/posts/:id/reject", cfg.AutopilotHandler.Reject)
	// Planning
	protected.POST("/plan/week", cfg.WeekPlanHandler.Preview)

	return router
}

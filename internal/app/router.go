package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/postpilot-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:   middleware.Auth,
		AutopilotHandler: handlers.Autopilot,
		WeekPlanHandler:  handlers.WeekPlan,
		AllowOrigins:     cfg.AllowOrigins,
	})
}

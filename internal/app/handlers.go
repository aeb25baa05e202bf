package app

import (
	"github.com/yungbote/postpilot-backend/internal/handlers"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/services"
)

type Handlers struct {
	Autopilot *handlers.AutopilotHandler
	WeekPlan  *handlers.WeekPlanHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	batchDefaults := services.BatchConfig{
		PostsPerBatch:    cfg.PostsPerBatch,
		AutoPublish:      cfg.AutoPublish,
		AutoPublishDelay: cfg.AutoPublishDelay,
		LookbackDays:     cfg.LookbackDays,
		PerIdeaTimeout:   cfg.PerIdeaTimeout,
	}
	return Handlers{
		Autopilot: handlers.NewAutopilotHandler(log, serviceset.Autopilot, batchDefaults),
		WeekPlan:  handlers.NewWeekPlanHandler(log, serviceset.WeekPlan),
	}
}

package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Scorer    services.IdeaScorer
	Clock     services.SchedulingClock
	Writer    services.ContentWriterService
	Polisher  services.ContentPolisherService
	Brief     services.KnowledgeBriefService
	Autopilot services.AutopilotService
	WeekPlan  services.WeekPlanService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(log, cfg.JWTSecretKey)

	scorer := services.NewIdeaScorer()
	clock := services.NewSchedulingClock()
	embedder := services.NewEmbeddingProvider(clients.OpenaiClient)

	writer := services.NewContentWriterService(log, clients.OpenaiClient)
	polisher := services.NewContentPolisherService(log, clients.OpenaiClient)
	brief := services.NewKnowledgeBriefService(log, clients.OpenaiClient, clients.PineconeVectorStore)

	autopilot := services.NewAutopilotService(
		db, log,
		scorer, clock, writer, polisher, brief,
		repos.ContentIdea,
		repos.PipelinePost,
		repos.PostingSlot,
		repos.BrandProfile,
	)

	planner := services.NewWeekPlanner(log, scorer, embedder)
	weekPlan := services.NewWeekPlanService(
		log, planner,
		repos.ContentIdea,
		repos.ContentTemplate,
		repos.PostingSlot,
		repos.PipelinePost,
	)

	return Services{
		Auth:      authService,
		Scorer:    scorer,
		Clock:     clock,
		Writer:    writer,
		Polisher:  polisher,
		Brief:     brief,
		Autopilot: autopilot,
		WeekPlan:  weekPlan,
	}
}

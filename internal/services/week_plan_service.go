package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/repos"
	"github.com/yungbote/postpilot-backend/internal/types"
)

// WeekPlanService loads a user's pending ideas, templates and slots and runs
// the week planner over them.
type WeekPlanService interface {
	PlanWeek(ctx context.Context, userID uuid.UUID, brandProfileID *uuid.UUID, postsPerWeek int, dist types.CategoryDistribution) (*WeekPlan, error)
}

type weekPlanService struct {
	log          *logger.Logger
	planner      WeekPlanner
	ideaRepo     repos.ContentIdeaRepo
	templateRepo repos.ContentTemplateRepo
	slotRepo     repos.PostingSlotRepo
	postRepo     repos.PipelinePostRepo
}

func NewWeekPlanService(
	baseLog *logger.Logger,
	planner WeekPlanner,
	ideaRepo repos.ContentIdeaRepo,
	templateRepo repos.ContentTemplateRepo,
	slotRepo repos.PostingSlotRepo,
	postRepo repos.PipelinePostRepo,
) WeekPlanService {
	return &weekPlanService{
		log:          baseLog.With("service", "WeekPlanService"),
		planner:      planner,
		ideaRepo:     ideaRepo,
		templateRepo: templateRepo,
		slotRepo:     slotRepo,
		postRepo:     postRepo,
	}
}

func (wps *weekPlanService) PlanWeek(ctx context.Context, userID uuid.UUID, brandProfileID *uuid.UUID, postsPerWeek int, dist types.CategoryDistribution) (*WeekPlan, error) {
	if postsPerWeek <= 0 {
		postsPerWeek = 5
	}
	if dist == nil {
		dist = types.DefaultDistribution()
	}
	if !wps.planner.ValidateDistribution(dist) {
		return nil, fmt.Errorf("invalid category distribution: shares must be 0-100 and sum to 100")
	}

	ideas, err := wps.ideaRepo.ListExtracted(ctx, nil, userID, brandProfileID, batchIdeaLoadLimit)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	templates, err := wps.templateRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	slots, err := wps.slotRepo.ListActive(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load posting slots: %w", err)
	}

	since := time.Now().AddDate(0, 0, -defaultLookbackDays)
	titles, err := wps.postRepo.RecentIdeaTitles(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load recent titles: %w", err)
	}
	counts, err := wps.postRepo.CategoryCounts(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load category counts: %w", err)
	}

	sctx := ScoringContext{RecentTitles: titles, CategoryCounts: counts}
	plan := wps.planner.GenerateWeekPlan(ctx, ideas, templates, slots, postsPerWeek, dist, sctx)
	return &plan, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/repos"
	"github.com/yungbote/postpilot-backend/internal/types"
)

// BatchConfig carries every knob for one batch invocation. Nothing is read
// from process state so two callers can run with different settings.
type BatchConfig struct {
	UserID           uuid.UUID
	BrandProfileID   *uuid.UUID
	PostsPerBatch    int
	AutoPublish      bool
	AutoPublishDelay time.Duration
	LookbackDays     int
	PerIdeaTimeout   time.Duration
}

type BatchResult struct {
	PostsCreated   int      `json:"posts_created"`
	PostsScheduled int      `json:"posts_scheduled"`
	IdeasProcessed int      `json:"ideas_processed"`
	Errors         []string `json:"errors,omitempty"`
}

// AutopilotService runs one drafting batch and manages the post buffer. Ideas
// are processed strictly in ranked order: buffer positions depend on it, and a
// failure on one idea must not leak into the next.
type AutopilotService interface {
	RunBatch(ctx context.Context, cfg BatchConfig) *BatchResult
	Approve(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error)
	Reject(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error)
	BufferStatus(ctx context.Context, userID uuid.UUID) ([]*types.PipelinePost, error)
	BufferSize(ctx context.Context, userID uuid.UUID) (int, error)
}

type autopilotService struct {
	db     *gorm.DB
	log    *logger.Logger
	tracer trace.Tracer

	scorer   IdeaScorer
	clock    SchedulingClock
	writer   ContentWriterService
	polisher ContentPolisherService
	brief    KnowledgeBriefService

	ideaRepo    repos.ContentIdeaRepo
	postRepo    repos.PipelinePostRepo
	slotRepo    repos.PostingSlotRepo
	profileRepo repos.BrandProfileRepo
}

func NewAutopilotService(
	db *gorm.DB,
	baseLog *logger.Logger,
	scorer IdeaScorer,
	clock SchedulingClock,
	writer ContentWriterService,
	polisher ContentPolisherService,
	brief KnowledgeBriefService,
	ideaRepo repos.ContentIdeaRepo,
	postRepo repos.PipelinePostRepo,
	slotRepo repos.PostingSlotRepo,
	profileRepo repos.BrandProfileRepo,
) AutopilotService {
	return &autopilotService{
		db:          db,
		log:         baseLog.With("service", "AutopilotService"),
		tracer:      otel.Tracer("autopilot"),
		scorer:      scorer,
		clock:       clock,
		writer:      writer,
		polisher:    polisher,
		brief:       brief,
		ideaRepo:    ideaRepo,
		postRepo:    postRepo,
		slotRepo:    slotRepo,
		profileRepo: profileRepo,
	}
}

const (
	batchIdeaLoadLimit     = 50
	defaultPostsPerBatch   = 3
	defaultLookbackDays    = 14
	defaultPerIdeaTimeout  = 2 * time.Minute
	defaultAutoPublishWait = 2 * time.Hour
)

// RunBatch always returns a result object; per-idea problems land in
// result.Errors. Only a setup failure before processing starts short-circuits
// with a single batch-level error and zero counts.
func (as *autopilotService) RunBatch(ctx context.Context, cfg BatchConfig) *BatchResult {
	ctx, span := as.tracer.Start(ctx, "autopilot.run_batch",
		trace.WithAttributes(attribute.String("user_id", cfg.UserID.String())))
	defer span.End()

	result := &BatchResult{}
	now := time.Now()

	if cfg.PostsPerBatch <= 0 {
		cfg.PostsPerBatch = defaultPostsPerBatch
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}
	if cfg.PerIdeaTimeout <= 0 {
		cfg.PerIdeaTimeout = defaultPerIdeaTimeout
	}
	if cfg.AutoPublishDelay <= 0 {
		cfg.AutoPublishDelay = defaultAutoPublishWait
	}

	ideas, err := as.ideaRepo.ListExtracted(ctx, nil, cfg.UserID, cfg.BrandProfileID, batchIdeaLoadLimit)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load ideas: %v", err))
		return result
	}
	if len(ideas) == 0 {
		as.log.Info("No pending ideas, nothing to do", "user_id", cfg.UserID)
		return result
	}

	since := now.AddDate(0, 0, -cfg.LookbackDays)
	titles, err := as.postRepo.RecentIdeaTitles(ctx, nil, cfg.UserID, since)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load recent titles: %v", err))
		return result
	}
	counts, err := as.postRepo.CategoryCounts(ctx, nil, cfg.UserID, since)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load category counts: %v", err))
		return result
	}
	sctx := ScoringContext{RecentTitles: titles, CategoryCounts: counts}

	selected := as.scorer.TopN(as.scorer.Deduplicate(ideas), cfg.PostsPerBatch, sctx)

	slots, err := as.slotRepo.ListActive(ctx, nil, cfg.UserID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load posting slots: %v", err))
		return result
	}

	// Fetched once so two ideas in the same run can never be given the same
	// instant. Concurrent runs for one user are out of scope.
	instants, err := as.postRepo.ScheduledInstants(ctx, nil, cfg.UserID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load scheduled instants: %v", err))
		return result
	}

	startBufferSize, err := as.postRepo.BufferSize(ctx, nil, cfg.UserID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load buffer size: %v", err))
		return result
	}

	var voice *types.BrandProfile
	if cfg.BrandProfileID != nil {
		profiles, perr := as.profileRepo.GetByIDs(ctx, nil, []uuid.UUID{*cfg.BrandProfileID})
		if perr != nil {
			as.log.Warn("Voice profile lookup failed, writing without one", "brand_profile_id", *cfg.BrandProfileID, "error", perr)
		} else if len(profiles) > 0 {
			voice = profiles[0]
		}
	}

	as.log.Info("Starting autopilot batch",
		"user_id", cfg.UserID,
		"candidates", len(ideas),
		"selected", len(selected),
		"buffer_start", startBufferSize,
	)

	for idx, idea := range selected {
		ideaCtx, cancel := context.WithTimeout(ctx, cfg.PerIdeaTimeout)
		scheduled, persistFailed, ierr := as.processIdea(ideaCtx, cfg, idea, idx, startBufferSize, slots, instants, voice, sctx, now)
		cancel()

		result.IdeasProcessed++

		if ierr != nil {
			if errors.Is(ierr, context.DeadlineExceeded) {
				ierr = fmt.Errorf("timed out after %s: %w", cfg.PerIdeaTimeout, ierr)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("idea %s: %v", idea.ID, ierr))
			if persistFailed {
				// Post write failed after the idea was marked writing. Left as-is so
				// it cannot be re-picked and double-posted; recovery is manual.
				as.log.Error("Post persistence failed, idea left in writing state", "idea_id", idea.ID, "error", ierr)
				continue
			}
			if rbErr := as.ideaRepo.UpdateStatus(ctx, nil, idea.ID, types.IdeaStatusExtracted); rbErr != nil {
				as.log.Error("Failed to roll idea back to extracted", "idea_id", idea.ID, "error", rbErr)
			}
			continue
		}

		result.PostsCreated++
		if scheduled {
			result.PostsScheduled++
		}
	}

	as.log.Info("Autopilot batch finished",
		"user_id", cfg.UserID,
		"posts_created", result.PostsCreated,
		"posts_scheduled", result.PostsScheduled,
		"ideas_processed", result.IdeasProcessed,
		"errors", len(result.Errors),
	)
	return result
}

// processIdea runs steps for a single ranked idea. persistFailed reports that
// the failure happened at (or after) the post write, which changes how the
// caller treats the idea's status.
func (as *autopilotService) processIdea(
	ctx context.Context,
	cfg BatchConfig,
	idea *types.ContentIdea,
	idx int,
	startBufferSize int,
	slots []*types.PostingSlot,
	instants []time.Time,
	voice *types.BrandProfile,
	sctx ScoringContext,
	now time.Time,
) (scheduled bool, persistFailed bool, err error) {
	ctx, span := as.tracer.Start(ctx, "autopilot.process_idea",
		trace.WithAttributes(
			attribute.String("idea_id", idea.ID.String()),
			attribute.Int("batch_index", idx),
		))
	defer span.End()

	briefText := ""
	if as.brief != nil {
		text, berr := as.brief.BuildBrief(ctx, cfg.UserID, idea, BriefScope{})
		if berr != nil {
			as.log.Warn("Knowledge brief unavailable, continuing without it", "idea_id", idea.ID, "error", berr)
		} else {
			briefText = text
		}
	}

	score := as.scorer.Score(idea, sctx)
	fingerprint := as.scorer.SimilarityFingerprint(idea)

	if uerr := as.ideaRepo.UpdateStatus(ctx, nil, idea.ID, types.IdeaStatusWriting); uerr != nil {
		return false, false, fmt.Errorf("mark writing: %w", uerr)
	}
	if serr := as.ideaRepo.StampScoring(ctx, nil, idea.ID, score.Composite, fingerprint, now); serr != nil {
		return false, false, fmt.Errorf("stamp scoring: %w", serr)
	}

	draft, werr := as.writer.WriteDraft(ctx, idea, briefText, voice)
	if werr != nil {
		return false, false, fmt.Errorf("write draft: %w", werr)
	}
	polish, perr := as.polisher.PolishDraft(ctx, draft.Content)
	if perr != nil {
		return false, false, fmt.Errorf("polish draft: %w", perr)
	}

	post := &types.PipelinePost{
		ID:            uuid.New(),
		UserID:        cfg.UserID,
		ContentIdeaID: idea.ID,
		DraftContent:  draft.Content,
		FinalContent:  polish.Content,
		CTAWord:       draft.CTAWord,
		DMTemplate:    draft.DMTemplate,
		Variations:    datatypes.JSON(mustJSONBytes(draft.Variations)),
		HookScore:     &polish.HookScore,
		Status:        types.PostStatusReviewing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if idx == 0 {
		// The ready-now item: it gets a concrete publish instant immediately.
		instant := as.clock.NextAvailableSlot(slots, instants, now)
		post.ScheduledAt = &instant
		scheduled = true
		if cfg.AutoPublish {
			publishAt := now.Add(cfg.AutoPublishDelay)
			post.AutoPublishAt = &publishAt
		}
	} else {
		post.IsBuffer = true
		position := startBufferSize + (idx - 1)
		post.BufferPosition = &position
	}

	if _, cerr := as.postRepo.Create(ctx, nil, []*types.PipelinePost{post}); cerr != nil {
		return false, true, fmt.Errorf("persist post: %w", cerr)
	}

	if merr := as.ideaRepo.UpdateStatus(ctx, nil, idea.ID, types.IdeaStatusWritten); merr != nil {
		return scheduled, true, fmt.Errorf("mark written: %w", merr)
	}
	return scheduled, false, nil
}

// Approve moves a post to scheduled at a freshly computed next slot.
func (as *autopilotService) Approve(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error) {
	post, err := as.loadOwnedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	slots, err := as.slotRepo.ListActive(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load posting slots: %w", err)
	}
	instants, err := as.postRepo.ScheduledInstants(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load scheduled instants: %w", err)
	}

	instant := as.clock.NextAvailableSlot(slots, instants, time.Now())
	if err := as.postRepo.UpdateFields(ctx, nil, postID, map[string]interface{}{
		"status":          types.PostStatusScheduled,
		"scheduled_at":    instant,
		"is_buffer":       false,
		"buffer_position": nil,
	}); err != nil {
		return nil, fmt.Errorf("approve post: %w", err)
	}

	post.Status = types.PostStatusScheduled
	post.ScheduledAt = &instant
	post.IsBuffer = false
	post.BufferPosition = nil
	return post, nil
}

// Reject moves a post back to draft. If it held a buffer position the
// remaining buffered posts are compacted in the same transaction, through a
// single UPDATE, so concurrent rejects cannot lose updates.
func (as *autopilotService) Reject(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error) {
	post, err := as.loadOwnedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.postRepo.UpdateFields(ctx, tx, postID, map[string]interface{}{
			"status":          types.PostStatusDraft,
			"scheduled_at":    nil,
			"auto_publish_at": nil,
			"is_buffer":       false,
			"buffer_position": nil,
		}); err != nil {
			return fmt.Errorf("reject post: %w", err)
		}
		if post.IsBuffer && post.BufferPosition != nil {
			if err := as.postRepo.DecrementBufferPositionsAfter(ctx, tx, userID, *post.BufferPosition); err != nil {
				return fmt.Errorf("compact buffer: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	post.Status = types.PostStatusDraft
	post.ScheduledAt = nil
	post.AutoPublishAt = nil
	post.IsBuffer = false
	post.BufferPosition = nil
	return post, nil
}

func (as *autopilotService) BufferStatus(ctx context.Context, userID uuid.UUID) ([]*types.PipelinePost, error) {
	return as.postRepo.ListBuffered(ctx, nil, userID)
}

func (as *autopilotService) BufferSize(ctx context.Context, userID uuid.UUID) (int, error) {
	return as.postRepo.BufferSize(ctx, nil, userID)
}

func (as *autopilotService) loadOwnedPost(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error) {
	posts, err := as.postRepo.GetByIDs(ctx, nil, []uuid.UUID{postID})
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if len(posts) == 0 || posts[0] == nil || posts[0].UserID != userID {
		return nil, fmt.Errorf("post not found or not owned by user")
	}
	return posts[0], nil
}

func mustJSONBytes(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

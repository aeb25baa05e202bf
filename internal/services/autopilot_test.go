package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/postpilot-backend/internal/repos"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type stubWriter struct {
	err error
}

func (sw *stubWriter) WriteDraft(ctx context.Context, idea *types.ContentIdea, briefContext string, voice *types.BrandProfile) (*DraftResult, error) {
	if sw.err != nil {
		return nil, sw.err
	}
	return &DraftResult{
		Content:    "draft: " + idea.Title,
		DMTemplate: "dm template",
		CTAWord:    "GUIDE",
		Variations: []string{"alt opening"},
	}, nil
}

type stubPolisher struct {
	err error
}

func (sp *stubPolisher) PolishDraft(ctx context.Context, draft string) (*PolishResult, error) {
	if sp.err != nil {
		return nil, sp.err
	}
	return &PolishResult{Content: "polished " + draft, HookScore: 8}, nil
}

type autopilotFixture struct {
	db     *gorm.DB
	svc    AutopilotService
	ideas  repos.ContentIdeaRepo
	posts  repos.PipelinePostRepo
	slots  repos.PostingSlotRepo
	userID uuid.UUID
}

func newAutopilotFixture(t *testing.T, writer ContentWriterService, polisher ContentPolisherService) *autopilotFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.BrandProfile{},
		&types.ContentIdea{},
		&types.PipelinePost{},
		&types.PostingSlot{},
		&types.ContentTemplate{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	log := testLogger(t)
	ideaRepo := repos.NewContentIdeaRepo(db, log)
	postRepo := repos.NewPipelinePostRepo(db, log)
	slotRepo := repos.NewPostingSlotRepo(db, log)
	profileRepo := repos.NewBrandProfileRepo(db, log)

	svc := NewAutopilotService(
		db, log,
		NewIdeaScorer(), NewSchedulingClock(), writer, polisher, nil,
		ideaRepo, postRepo, slotRepo, profileRepo,
	)

	return &autopilotFixture{
		db:     db,
		svc:    svc,
		ideas:  ideaRepo,
		posts:  postRepo,
		slots:  slotRepo,
		userID: uuid.New(),
	}
}

func (f *autopilotFixture) seedIdeas(t *testing.T, n int) []*types.ContentIdea {
	t.Helper()
	now := time.Now()
	var ideas []*types.ContentIdea
	for i := 0; i < n; i++ {
		ideas = append(ideas, &types.ContentIdea{
			ID:          uuid.New(),
			UserID:      f.userID,
			Title:       fmt.Sprintf("distinct topic number %d about subject%d", i, i),
			CoreInsight: fmt.Sprintf("insight body long enough to count %d", i),
			Category:    types.CategoryOrder[i%len(types.CategoryOrder)],
			Status:      types.IdeaStatusExtracted,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
			UpdatedAt:   now,
		})
	}
	if _, err := f.ideas.Create(context.Background(), nil, ideas); err != nil {
		t.Fatalf("seed ideas: %v", err)
	}
	return ideas
}

func (f *autopilotFixture) seedSlot(t *testing.T) {
	t.Helper()
	if _, err := f.slots.Create(context.Background(), nil, []*types.PostingSlot{{
		ID:         uuid.New(),
		UserID:     f.userID,
		SlotNumber: 1,
		TimeOfDay:  "10:00",
		Timezone:   "UTC",
		Active:     true,
	}}); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
}

func (f *autopilotFixture) seedBufferedPost(t *testing.T, position int) *types.PipelinePost {
	t.Helper()
	idea := f.seedIdeas(t, 1)[0]
	if err := f.ideas.UpdateStatus(context.Background(), nil, idea.ID, types.IdeaStatusWritten); err != nil {
		t.Fatalf("mark idea written: %v", err)
	}
	pos := position
	post := &types.PipelinePost{
		ID:             uuid.New(),
		UserID:         f.userID,
		ContentIdeaID:  idea.ID,
		DraftContent:   "seeded draft",
		FinalContent:   "seeded final",
		Status:         types.PostStatusReviewing,
		IsBuffer:       true,
		BufferPosition: &pos,
	}
	if _, err := f.posts.Create(context.Background(), nil, []*types.PipelinePost{post}); err != nil {
		t.Fatalf("seed buffered post: %v", err)
	}
	return post
}

func TestRunBatchCreatesScheduledAndBufferedPosts(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	f.seedSlot(t)
	f.seedIdeas(t, 5)

	result := f.svc.RunBatch(context.Background(), BatchConfig{UserID: f.userID, PostsPerBatch: 3})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.PostsCreated != 3 || result.PostsScheduled != 1 || result.IdeasProcessed != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Exactly one post holds a concrete publish instant; the rest are buffered
	// at positions 0 and 1.
	var posts []*types.PipelinePost
	if err := f.db.Order("created_at ASC").Find(&posts).Error; err != nil {
		t.Fatalf("load posts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	scheduled := 0
	positions := map[int]bool{}
	for _, post := range posts {
		if post.Status != types.PostStatusReviewing {
			t.Fatalf("expected reviewing status, got %s", post.Status)
		}
		if post.IsBuffer {
			if post.BufferPosition == nil {
				t.Fatalf("buffered post missing position")
			}
			positions[*post.BufferPosition] = true
		} else {
			scheduled++
			if post.ScheduledAt == nil {
				t.Fatalf("scheduled post missing instant")
			}
		}
	}
	if scheduled != 1 {
		t.Fatalf("expected exactly one scheduled post, got %d", scheduled)
	}
	if !positions[0] || !positions[1] || len(positions) != 2 {
		t.Fatalf("expected buffer positions 0 and 1, got %v", positions)
	}

	// Processed ideas end written; the two unpicked ones stay extracted.
	var writtenCount, extractedCount int64
	f.db.Model(&types.ContentIdea{}).Where("status = ?", types.IdeaStatusWritten).Count(&writtenCount)
	f.db.Model(&types.ContentIdea{}).Where("status = ?", types.IdeaStatusExtracted).Count(&extractedCount)
	if writtenCount != 3 || extractedCount != 2 {
		t.Fatalf("expected 3 written / 2 extracted, got %d / %d", writtenCount, extractedCount)
	}
}

func TestRunBatchAppendsToExistingBuffer(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	f.seedSlot(t)
	f.seedBufferedPost(t, 0)
	f.seedIdeas(t, 3)

	result := f.svc.RunBatch(context.Background(), BatchConfig{UserID: f.userID, PostsPerBatch: 3})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	buffered, err := f.svc.BufferStatus(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("buffer status: %v", err)
	}
	if len(buffered) != 3 {
		t.Fatalf("expected 3 buffered posts, got %d", len(buffered))
	}
	for i, post := range buffered {
		if post.BufferPosition == nil || *post.BufferPosition != i {
			t.Fatalf("expected contiguous positions, post %d has %v", i, post.BufferPosition)
		}
	}
}

func TestRunBatchRollsIdeaBackOnWriterFailure(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{err: fmt.Errorf("model offline")}, &stubPolisher{})
	f.seedSlot(t)
	f.seedIdeas(t, 2)

	result := f.svc.RunBatch(context.Background(), BatchConfig{UserID: f.userID, PostsPerBatch: 2})
	if result.PostsCreated != 0 {
		t.Fatalf("expected no posts, got %d", result.PostsCreated)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected an error per idea, got %v", result.Errors)
	}

	var extractedCount int64
	f.db.Model(&types.ContentIdea{}).Where("status = ?", types.IdeaStatusExtracted).Count(&extractedCount)
	if extractedCount != 2 {
		t.Fatalf("expected both ideas back in extracted, got %d", extractedCount)
	}
}

func TestRunBatchSetsAutoPublishTime(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	f.seedSlot(t)
	f.seedIdeas(t, 1)

	before := time.Now()
	result := f.svc.RunBatch(context.Background(), BatchConfig{
		UserID:           f.userID,
		PostsPerBatch:    1,
		AutoPublish:      true,
		AutoPublishDelay: time.Hour,
	})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	var post types.PipelinePost
	if err := f.db.First(&post).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}
	if post.AutoPublishAt == nil {
		t.Fatalf("expected auto publish time")
	}
	if post.AutoPublishAt.Before(before.Add(time.Hour).Add(-time.Minute)) {
		t.Fatalf("auto publish time too early: %s", post.AutoPublishAt)
	}
}

func TestApproveSchedulesBufferedPost(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	f.seedSlot(t)
	post := f.seedBufferedPost(t, 0)

	approved, err := f.svc.Approve(context.Background(), f.userID, post.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != types.PostStatusScheduled || approved.ScheduledAt == nil {
		t.Fatalf("expected scheduled post, got %+v", approved)
	}
	if approved.IsBuffer || approved.BufferPosition != nil {
		t.Fatalf("expected post out of the buffer")
	}

	// Approving does not renumber the remaining buffer.
	var stored types.PipelinePost
	if err := f.db.First(&stored, "id = ?", post.ID).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}
	if stored.IsBuffer {
		t.Fatalf("expected persisted post out of the buffer")
	}
}

func TestRejectCompactsBufferBehindIt(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	var posts []*types.PipelinePost
	for i := 0; i < 4; i++ {
		posts = append(posts, f.seedBufferedPost(t, i))
	}

	rejected, err := f.svc.Reject(context.Background(), f.userID, posts[1].ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != types.PostStatusDraft || rejected.IsBuffer {
		t.Fatalf("expected draft outside the buffer, got %+v", rejected)
	}

	buffered, err := f.svc.BufferStatus(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("buffer status: %v", err)
	}
	if len(buffered) != 3 {
		t.Fatalf("expected 3 buffered posts, got %d", len(buffered))
	}
	// Former positions 2 and 3 slid down to 1 and 2; position 0 is untouched.
	wantOrder := []uuid.UUID{posts[0].ID, posts[2].ID, posts[3].ID}
	for i, post := range buffered {
		if post.ID != wantOrder[i] {
			t.Fatalf("unexpected buffer order at %d", i)
		}
		if post.BufferPosition == nil || *post.BufferPosition != i {
			t.Fatalf("expected position %d, got %v", i, post.BufferPosition)
		}
	}
}

func TestRejectUnknownPost(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	if _, err := f.svc.Reject(context.Background(), f.userID, uuid.New()); err == nil {
		t.Fatalf("expected error for unknown post")
	}
}

func TestApproveRefusesForeignPost(t *testing.T) {
	f := newAutopilotFixture(t, &stubWriter{}, &stubPolisher{})
	post := f.seedBufferedPost(t, 0)

	if _, err := f.svc.Approve(context.Background(), uuid.New(), post.ID); err == nil {
		t.Fatalf("expected ownership error")
	}
}

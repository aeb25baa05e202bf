package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type stubEmbedder struct {
	configured bool
	embed      func(inputs []string) ([][]float32, error)
}

func (se *stubEmbedder) Configured() bool { return se.configured }

func (se *stubEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return se.embed(inputs)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestPlanner(t *testing.T, embedder EmbeddingProvider) WeekPlanner {
	t.Helper()
	return NewWeekPlanner(testLogger(t), NewIdeaScorer(), embedder)
}

func plannerIdea(title, category string) *types.ContentIdea {
	return &types.ContentIdea{ID: uuid.New(), Title: title, Category: category, Status: types.IdeaStatusExtracted}
}

func TestValidateDistribution(t *testing.T) {
	planner := newTestPlanner(t, nil)

	cases := []struct {
		name string
		dist types.CategoryDistribution
		want bool
	}{
		{"default", types.DefaultDistribution(), true},
		{"single category", types.CategoryDistribution{types.CategoryGrowth: 100}, true},
		{"sums over 100", types.CategoryDistribution{types.CategoryGrowth: 30, types.CategoryAuthority: 30, types.CategoryConnection: 30, types.CategoryConversion: 30}, false},
		{"negative share", types.CategoryDistribution{types.CategoryGrowth: 120, types.CategoryAuthority: -20}, false},
		{"empty", types.CategoryDistribution{}, false},
	}
	for _, tc := range cases {
		if got := planner.ValidateDistribution(tc.dist); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestQuotaPerCategory(t *testing.T) {
	planner := newTestPlanner(t, nil)

	quotas := planner.QuotaPerCategory(10, types.DefaultDistribution())
	want := map[string]int{
		types.CategoryGrowth:     2,
		types.CategoryAuthority:  4, // 3 from the floor, +1 from the remainder
		types.CategoryConnection: 2,
		types.CategoryConversion: 2,
	}
	for category, expect := range want {
		if quotas[category] != expect {
			t.Fatalf("category %s: expected %d, got %d", category, expect, quotas[category])
		}
	}

	// Quotas must always sum to the requested total.
	for _, total := range []int{1, 3, 5, 7, 12} {
		quotas := planner.QuotaPerCategory(total, types.DefaultDistribution())
		sum := 0
		for _, q := range quotas {
			sum += q
		}
		if sum != total {
			t.Fatalf("total %d: quotas sum to %d", total, sum)
		}
	}
}

func TestWeekSlots(t *testing.T) {
	planner := newTestPlanner(t, nil)

	// No slots defaults to 09:00 daily.
	defaults := planner.WeekSlots(nil)
	if len(defaults) != 7 {
		t.Fatalf("expected 7 default slots, got %d", len(defaults))
	}
	for i, ws := range defaults {
		if ws.Day != i || ws.Time != "09:00" {
			t.Fatalf("unexpected default slot %+v", ws)
		}
	}

	monday := int(1)
	slots := []*types.PostingSlot{
		{TimeOfDay: "18:00", Active: true},                     // every day
		{TimeOfDay: "08:00", DayOfWeek: &monday, Active: true}, // Monday only
		{TimeOfDay: "12:00", Active: false},                    // ignored
	}
	expanded := planner.WeekSlots(slots)
	if len(expanded) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(expanded))
	}
	// Sorted day then time: Monday 08:00 before Monday 18:00.
	if expanded[1].Day != 1 || expanded[1].Time != "08:00" {
		t.Fatalf("expected Monday 08:00 second, got %+v", expanded[1])
	}
}

func TestGenerateWeekPlanSharedCursor(t *testing.T) {
	planner := newTestPlanner(t, nil)

	var ideas []*types.ContentIdea
	for i := 0; i < 3; i++ {
		ideas = append(ideas, plannerIdea(fmt.Sprintf("growth idea number %d", i), types.CategoryGrowth))
		ideas = append(ideas, plannerIdea(fmt.Sprintf("authority idea number %d", i), types.CategoryAuthority))
	}

	plan := planner.GenerateWeekPlan(context.Background(), ideas, nil, nil, 5, types.DefaultDistribution(), ScoringContext{})
	if len(plan.Posts) == 0 {
		t.Fatalf("expected planned posts")
	}

	// The slot cursor is shared across categories: no two posts on one slot.
	seen := map[string]bool{}
	for _, post := range plan.Posts {
		key := fmt.Sprintf("%d/%s", post.Day, post.Time)
		if seen[key] {
			t.Fatalf("slot %s double-booked", key)
		}
		seen[key] = true
	}
}

func TestGenerateWeekPlanBackfillsShortCategories(t *testing.T) {
	planner := newTestPlanner(t, nil)

	// Only growth ideas exist; every other pillar must backfill.
	var ideas []*types.ContentIdea
	for i := 0; i < 10; i++ {
		ideas = append(ideas, plannerIdea(fmt.Sprintf("growth take number %d", i), types.CategoryGrowth))
	}

	plan := planner.GenerateWeekPlan(context.Background(), ideas, nil, nil, 4, types.DefaultDistribution(), ScoringContext{})
	if len(plan.Posts) != 4 {
		t.Fatalf("expected 4 posts, got %d", len(plan.Posts))
	}
	backfilled := false
	for _, note := range plan.Notes {
		if strings.Contains(note, "backfilled") {
			backfilled = true
		}
	}
	if !backfilled {
		t.Fatalf("expected a backfill note, got %v", plan.Notes)
	}
}

func TestGenerateWeekPlanReportsShortfall(t *testing.T) {
	planner := newTestPlanner(t, nil)

	ideas := []*types.ContentIdea{plannerIdea("the only idea around", types.CategoryGrowth)}
	plan := planner.GenerateWeekPlan(context.Background(), ideas, nil, nil, 5, types.DefaultDistribution(), ScoringContext{})
	if len(plan.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(plan.Posts))
	}
	found := false
	for _, note := range plan.Notes {
		if strings.Contains(note, "planned 1 of 5") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected shortfall note, got %v", plan.Notes)
	}
}

func TestMatchTemplatesSkipsWhenUnconfigured(t *testing.T) {
	planner := newTestPlanner(t, &stubEmbedder{configured: false})

	ideas := []*types.ContentIdea{plannerIdea("some idea text", types.CategoryGrowth)}
	templates := []*types.ContentTemplate{{ID: uuid.New()}}
	if matches := planner.MatchTemplates(context.Background(), ideas, templates); len(matches) != 0 {
		t.Fatalf("expected no matches without an embedder, got %d", len(matches))
	}
}

func TestMatchTemplatesDegradesOnEmbedFailure(t *testing.T) {
	embedder := &stubEmbedder{
		configured: true,
		embed: func(inputs []string) ([][]float32, error) {
			return nil, fmt.Errorf("provider down")
		},
	}
	planner := newTestPlanner(t, embedder)

	ideas := []*types.ContentIdea{plannerIdea("some idea text", types.CategoryGrowth)}
	templates := []*types.ContentTemplate{{ID: uuid.New()}}
	if matches := planner.MatchTemplates(context.Background(), ideas, templates); len(matches) != 0 {
		t.Fatalf("expected graceful degradation, got %d matches", len(matches))
	}
}

func TestMatchTemplatesPicksBestAboveThreshold(t *testing.T) {
	// Texts mentioning "growth" embed along one axis, everything else the other.
	embedder := &stubEmbedder{
		configured: true,
		embed: func(inputs []string) ([][]float32, error) {
			vecs := make([][]float32, len(inputs))
			for i, input := range inputs {
				if strings.Contains(strings.ToLower(input), "growth") {
					vecs[i] = []float32{1, 0}
				} else {
					vecs[i] = []float32{0, 1}
				}
			}
			return vecs, nil
		},
	}
	planner := newTestPlanner(t, embedder)

	idea := plannerIdea("growth playbook breakdown", types.CategoryGrowth)
	growthTemplate := &types.ContentTemplate{ID: uuid.New(), Name: "growth story arc"}
	otherTemplate := &types.ContentTemplate{ID: uuid.New(), Name: "listicle"}

	matches := planner.MatchTemplates(context.Background(), []*types.ContentIdea{idea}, []*types.ContentTemplate{otherTemplate, growthTemplate})
	match, ok := matches[idea.ID]
	if !ok {
		t.Fatalf("expected a template match")
	}
	if match.TemplateID != growthTemplate.ID {
		t.Fatalf("expected the growth template, got %s", match.TemplateID)
	}
	if match.Score <= templateMatchThreshold {
		t.Fatalf("expected score above threshold, got %f", match.Score)
	}
}

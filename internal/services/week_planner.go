package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
)

// PlannedPost is one planned assignment in a weekly plan. It is ephemeral:
// only the batch runner persists records.
type PlannedPost struct {
	Day        int        `json:"day"`
	Time       string     `json:"time"`
	IdeaID     uuid.UUID  `json:"idea_id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	Category   string     `json:"category"`
	MatchScore *float64   `json:"match_score,omitempty"`
}

type WeekPlan struct {
	Posts []PlannedPost `json:"posts"`
	Notes []string      `json:"notes,omitempty"`
}

type WeekSlot struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

type TemplateMatch struct {
	TemplateID uuid.UUID
	Score      float64
}

type WeekPlanner interface {
	ValidateDistribution(dist types.CategoryDistribution) bool
	QuotaPerCategory(total int, dist types.CategoryDistribution) map[string]int
	WeekSlots(slots []*types.PostingSlot) []WeekSlot
	MatchTemplates(ctx context.Context, ideas []*types.ContentIdea, templates []*types.ContentTemplate) map[uuid.UUID]TemplateMatch
	GenerateWeekPlan(ctx context.Context, ideas []*types.ContentIdea, templates []*types.ContentTemplate, slots []*types.PostingSlot, postsPerWeek int, dist types.CategoryDistribution, sctx ScoringContext) WeekPlan
}

type weekPlanner struct {
	log      *logger.Logger
	scorer   IdeaScorer
	embedder EmbeddingProvider
}

func NewWeekPlanner(baseLog *logger.Logger, scorer IdeaScorer, embedder EmbeddingProvider) WeekPlanner {
	return &weekPlanner{
		log:      baseLog.With("service", "WeekPlanner"),
		scorer:   scorer,
		embedder: embedder,
	}
}

const templateMatchThreshold = 0.5

func (wp *weekPlanner) ValidateDistribution(dist types.CategoryDistribution) bool {
	sum := 0
	for _, category := range types.CategoryOrder {
		pct := dist[category]
		if pct < 0 || pct > 100 {
			return false
		}
		sum += pct
	}
	return sum == 100
}

// QuotaPerCategory floor-divides the weekly total by percentage share, then
// hands the remainder out one post at a time to the largest shares first.
func (wp *weekPlanner) QuotaPerCategory(total int, dist types.CategoryDistribution) map[string]int {
	quotas := make(map[string]int, len(types.CategoryOrder))
	assigned := 0
	for _, category := range types.CategoryOrder {
		q := total * dist[category] / 100
		quotas[category] = q
		assigned += q
	}

	ordered := make([]string, len(types.CategoryOrder))
	copy(ordered, types.CategoryOrder)
	sort.SliceStable(ordered, func(i, j int) bool {
		return dist[ordered[i]] > dist[ordered[j]]
	})

	remainder := total - assigned
	for i := 0; remainder > 0; i++ {
		quotas[ordered[i%len(ordered)]]++
		remainder--
	}
	return quotas
}

// WeekSlots expands active slots into concrete (day, time) pairs for one week.
// A slot pinned to a weekday emits once; an unpinned slot emits every day. No
// active slots at all defaults to 09:00 daily.
func (wp *weekPlanner) WeekSlots(slots []*types.PostingSlot) []WeekSlot {
	var out []WeekSlot
	for _, slot := range slots {
		if !slot.Active {
			continue
		}
		if slot.DayOfWeek != nil {
			out = append(out, WeekSlot{Day: *slot.DayOfWeek, Time: slot.TimeOfDay})
			continue
		}
		for day := 0; day < 7; day++ {
			out = append(out, WeekSlot{Day: day, Time: slot.TimeOfDay})
		}
	}
	if len(out) == 0 {
		for day := 0; day < 7; day++ {
			out = append(out, WeekSlot{Day: day, Time: "09:00"})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// MatchTemplates pairs each idea with its most similar template by embedding
// cosine similarity. Missing templates, an unconfigured embedder or any
// embedding failure all degrade to "no matches" instead of erroring.
func (wp *weekPlanner) MatchTemplates(ctx context.Context, ideas []*types.ContentIdea, templates []*types.ContentTemplate) map[uuid.UUID]TemplateMatch {
	matches := make(map[uuid.UUID]TemplateMatch)
	if len(ideas) == 0 || len(templates) == 0 {
		return matches
	}
	if wp.embedder == nil || !wp.embedder.Configured() {
		wp.log.Debug("Embedding provider not configured, skipping template matching")
		return matches
	}

	ideaTexts := make([]string, len(ideas))
	for i, idea := range ideas {
		ideaTexts[i] = idea.Title + "\n" + idea.Hook + "\n" + idea.CoreInsight
	}
	templateTexts := make([]string, len(templates))
	for i, tmpl := range templates {
		templateTexts[i] = tmpl.ComposedText()
	}

	var ideaVecs, templateVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := wp.embedder.Embed(gctx, ideaTexts)
		if err != nil {
			return fmt.Errorf("embed ideas: %w", err)
		}
		ideaVecs = vecs
		return nil
	})
	g.Go(func() error {
		vecs, err := wp.embedder.Embed(gctx, templateTexts)
		if err != nil {
			return fmt.Errorf("embed templates: %w", err)
		}
		templateVecs = vecs
		return nil
	})
	if err := g.Wait(); err != nil {
		wp.log.Warn("Template matching degraded to unmatched", "error", err)
		return make(map[uuid.UUID]TemplateMatch)
	}
	if len(ideaVecs) != len(ideas) || len(templateVecs) != len(templates) {
		wp.log.Warn("Template matching degraded to unmatched", "reason", "embedding count mismatch")
		return make(map[uuid.UUID]TemplateMatch)
	}

	for i, idea := range ideas {
		bestScore := -1.0
		bestIdx := -1
		for j := range templates {
			if sim := cosineSimilarity(ideaVecs[i], templateVecs[j]); sim > bestScore {
				bestScore = sim
				bestIdx = j
			}
		}
		if bestIdx >= 0 && bestScore > templateMatchThreshold {
			matches[idea.ID] = TemplateMatch{TemplateID: templates[bestIdx].ID, Score: bestScore}
		}
	}
	return matches
}

// GenerateWeekPlan picks a double-size ranked pool, fills per-category quotas
// (backfilling across categories when a pillar runs dry) and lays the result
// onto the week's slots. The slot cursor is shared across every category; a
// per-category cursor would double-book the earliest slots.
func (wp *weekPlanner) GenerateWeekPlan(ctx context.Context, ideas []*types.ContentIdea, templates []*types.ContentTemplate, slots []*types.PostingSlot, postsPerWeek int, dist types.CategoryDistribution, sctx ScoringContext) WeekPlan {
	plan := WeekPlan{}
	if postsPerWeek <= 0 {
		return plan
	}

	pool := wp.scorer.TopN(ideas, 2*postsPerWeek, sctx)
	quotas := wp.QuotaPerCategory(postsPerWeek, dist)
	weekSlots := wp.WeekSlots(slots)
	matches := wp.MatchTemplates(ctx, pool, templates)

	used := make(map[uuid.UUID]bool, len(pool))
	cursor := 0
	slotsExhausted := false

	for _, category := range types.CategoryOrder {
		if slotsExhausted {
			break
		}
		quota := quotas[category]
		if quota == 0 {
			continue
		}

		var selected []*types.ContentIdea
		for _, idea := range pool {
			if len(selected) == quota {
				break
			}
			if used[idea.ID] || idea.Category != category {
				continue
			}
			used[idea.ID] = true
			selected = append(selected, idea)
		}
		if shortfall := quota - len(selected); shortfall > 0 {
			for _, idea := range pool {
				if len(selected) == quota {
					break
				}
				if used[idea.ID] {
					continue
				}
				used[idea.ID] = true
				selected = append(selected, idea)
			}
			plan.Notes = append(plan.Notes, fmt.Sprintf("category %s short by %d ideas; backfilled from top-ranked pool", category, shortfall))
		}

		for _, idea := range selected {
			if cursor >= len(weekSlots) {
				slotsExhausted = true
				break
			}
			slot := weekSlots[cursor%len(weekSlots)]
			cursor++

			planned := PlannedPost{
				Day:      slot.Day,
				Time:     slot.Time,
				IdeaID:   idea.ID,
				Category: idea.Category,
			}
			if match, ok := matches[idea.ID]; ok {
				templateID := match.TemplateID
				score := match.Score
				planned.TemplateID = &templateID
				planned.MatchScore = &score
			}
			plan.Posts = append(plan.Posts, planned)
		}
	}

	sort.SliceStable(plan.Posts, func(i, j int) bool {
		if plan.Posts[i].Day != plan.Posts[j].Day {
			return plan.Posts[i].Day < plan.Posts[j].Day
		}
		return plan.Posts[i].Time < plan.Posts[j].Time
	})

	if len(plan.Posts) < postsPerWeek {
		plan.Notes = append(plan.Notes, fmt.Sprintf("planned %d of %d posts for the week", len(plan.Posts), postsPerWeek))
	}
	return plan
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

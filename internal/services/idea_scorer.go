package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/yungbote/postpilot-backend/internal/types"
)

// ScoringContext is the recent-activity window a batch scores against. It is
// rebuilt fresh for every scoring call.
type ScoringContext struct {
	RecentTitles   []string
	CategoryCounts map[string]int
}

type IdeaScore struct {
	Relevance       float64
	Freshness       float64
	CategoryBalance float64
	HookStrength    float64
	Composite       float64
}

// IdeaScorer ranks and deduplicates content ideas. Pure, no I/O.
type IdeaScorer interface {
	SimilarityFingerprint(idea *types.ContentIdea) string
	Score(idea *types.ContentIdea, sctx ScoringContext) IdeaScore
	Rank(ideas []*types.ContentIdea, sctx ScoringContext) []*types.ContentIdea
	TopN(ideas []*types.ContentIdea, n int, sctx ScoringContext) []*types.ContentIdea
	Deduplicate(ideas []*types.ContentIdea) []*types.ContentIdea
	SuggestedCategory(counts map[string]int) string
}

type ideaScorer struct{}

func NewIdeaScorer() IdeaScorer {
	return &ideaScorer{}
}

const (
	weightRelevance       = 0.35
	weightFreshness       = 0.25
	weightCategoryBalance = 0.25
	weightHookStrength    = 0.15

	fingerprintMaxWords = 10
	fingerprintMinLen   = 4
)

// SimilarityFingerprint collapses near-duplicate ideas: same topic in a
// different word order or with minor wording changes yields the same value.
func (is *ideaScorer) SimilarityFingerprint(idea *types.ContentIdea) string {
	if idea == nil {
		return ""
	}
	text := strings.ToLower(idea.Title + " " + idea.CoreInsight)

	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) >= fingerprintMinLen {
			kept = append(kept, w)
		}
	}
	sort.Strings(kept)

	unique := make([]string, 0, len(kept))
	for i, w := range kept {
		if i > 0 && kept[i-1] == w {
			continue
		}
		unique = append(unique, w)
		if len(unique) == fingerprintMaxWords {
			break
		}
	}
	return strings.Join(unique, "-")
}

func (is *ideaScorer) Score(idea *types.ContentIdea, sctx ScoringContext) IdeaScore {
	score := IdeaScore{
		Relevance:       relevanceScore(idea),
		Freshness:       freshnessScore(idea, sctx.RecentTitles),
		CategoryBalance: categoryBalanceScore(idea, sctx.CategoryCounts),
		HookStrength:    hookStrengthScore(idea),
	}
	composite := weightRelevance*score.Relevance +
		weightFreshness*score.Freshness +
		weightCategoryBalance*score.CategoryBalance +
		weightHookStrength*score.HookStrength
	score.Composite = clampScore(composite)
	return score
}

// Rank sorts descending by composite score; ties keep their original order.
func (is *ideaScorer) Rank(ideas []*types.ContentIdea, sctx ScoringContext) []*types.ContentIdea {
	ranked := make([]*types.ContentIdea, len(ideas))
	copy(ranked, ideas)

	composites := make(map[*types.ContentIdea]float64, len(ranked))
	for _, idea := range ranked {
		composites[idea] = is.Score(idea, sctx).Composite
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return composites[ranked[i]] > composites[ranked[j]]
	})
	return ranked
}

func (is *ideaScorer) TopN(ideas []*types.ContentIdea, n int, sctx ScoringContext) []*types.ContentIdea {
	ranked := is.Rank(ideas, sctx)
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Deduplicate keeps the first idea seen per fingerprint, preserving order.
func (is *ideaScorer) Deduplicate(ideas []*types.ContentIdea) []*types.ContentIdea {
	seen := make(map[string]bool, len(ideas))
	survivors := make([]*types.ContentIdea, 0, len(ideas))
	for _, idea := range ideas {
		fp := is.SimilarityFingerprint(idea)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		survivors = append(survivors, idea)
	}
	return survivors
}

// SuggestedCategory returns the least-used category; ties resolve in canonical
// category order.
func (is *ideaScorer) SuggestedCategory(counts map[string]int) string {
	best := types.CategoryOrder[0]
	bestCount := counts[best]
	for _, category := range types.CategoryOrder[1:] {
		if counts[category] < bestCount {
			best = category
			bestCount = counts[category]
		}
	}
	return best
}

func relevanceScore(idea *types.ContentIdea) float64 {
	if idea == nil || idea.RelevanceScore == nil {
		return 5
	}
	return clampScore(*idea.RelevanceScore)
}

func freshnessScore(idea *types.ContentIdea, recentTitles []string) float64 {
	if idea == nil || len(recentTitles) == 0 {
		return 10
	}
	ideaWords := wordSet(idea.Title + " " + idea.CoreInsight)
	maxSimilarity := 0.0
	for _, title := range recentTitles {
		if sim := jaccard(ideaWords, wordSet(title)); sim > maxSimilarity {
			maxSimilarity = sim
		}
	}
	fresh := 10 - 15*maxSimilarity
	if fresh < 0 {
		return 0
	}
	return fresh
}

func categoryBalanceScore(idea *types.ContentIdea, counts map[string]int) float64 {
	if idea == nil || idea.Category == "" {
		return 5
	}
	total := 0
	for _, category := range types.CategoryOrder {
		total += counts[category]
	}
	avg := float64(total) / float64(len(types.CategoryOrder))
	count := counts[idea.Category]
	switch {
	case count == 0:
		return 10
	case float64(count) < avg:
		return 8
	case float64(count) == avg:
		return 5
	case float64(count) > 1.5*avg:
		return 2
	default:
		return 4
	}
}

func hookStrengthScore(idea *types.ContentIdea) float64 {
	if idea == nil {
		return 5
	}
	score := 5.0
	if len(idea.CoreInsight) > 20 {
		score++
	}
	if strings.ContainsFunc(idea.Title, unicode.IsDigit) {
		score++
	}
	if idea.ContentType == "contrarian" || idea.ContentType == "question" {
		score++
	}
	if len(idea.WhyPostWorthy) > 10 {
		score++
	}
	if idea.Ready {
		score++
	}
	if score > 10 {
		return 10
	}
	return score
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

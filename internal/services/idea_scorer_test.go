package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/types"
)

func ideaWith(title, insight string) *types.ContentIdea {
	return &types.ContentIdea{ID: uuid.New(), Title: title, CoreInsight: insight}
}

func TestSimilarityFingerprint(t *testing.T) {
	scorer := NewIdeaScorer()

	fp := scorer.SimilarityFingerprint(ideaWith("Why Most Startups Fail", ""))
	if fp != "fail-most-startups" {
		t.Fatalf("unexpected fingerprint: %s", fp)
	}

	// Word order, case and punctuation must not matter.
	reordered := scorer.SimilarityFingerprint(ideaWith("STARTUPS fail... most!", ""))
	if reordered != fp {
		t.Fatalf("expected stable fingerprint, got %s and %s", fp, reordered)
	}

	// Words shorter than four characters are dropped.
	short := scorer.SimilarityFingerprint(ideaWith("a an the or it", ""))
	if short != "" {
		t.Fatalf("expected empty fingerprint for short words, got %s", short)
	}

	// Duplicates collapse across title and insight.
	dup := scorer.SimilarityFingerprint(ideaWith("pricing pricing power", "power pricing"))
	if dup != "power-pricing" {
		t.Fatalf("expected deduped fingerprint, got %s", dup)
	}
}

func TestSimilarityFingerprintCapsAtTenWords(t *testing.T) {
	scorer := NewIdeaScorer()
	idea := ideaWith("alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima", "")
	fp := scorer.SimilarityFingerprint(idea)
	want := "alpha-bravo-charlie-delta-echo-foxtrot-golf-hotel-india-juliett"
	if fp != want {
		t.Fatalf("expected first ten sorted words, got %s", fp)
	}
}

func TestScoreCompositeStaysInRange(t *testing.T) {
	scorer := NewIdeaScorer()
	high := 10.0
	low := 0.0

	ideas := []*types.ContentIdea{
		{Title: "5 lessons from scaling to 10k users", CoreInsight: "distribution beats product in the early days", WhyPostWorthy: "counterintuitive and specific", ContentType: "contrarian", Category: types.CategoryGrowth, RelevanceScore: &high, Ready: true},
		{Title: "", CoreInsight: "", RelevanceScore: &low},
		{Title: "untitled", Category: types.CategoryConversion},
	}
	sctx := ScoringContext{
		RecentTitles:   []string{"scaling to 10k users"},
		CategoryCounts: map[string]int{types.CategoryGrowth: 9},
	}
	for _, idea := range ideas {
		score := scorer.Score(idea, sctx)
		if score.Composite < 0 || score.Composite > 10 {
			t.Fatalf("composite out of range for %q: %f", idea.Title, score.Composite)
		}
	}
}

func TestFreshnessScore(t *testing.T) {
	if got := freshnessScore(ideaWith("anything goes", ""), nil); got != 10 {
		t.Fatalf("expected 10 with no recent titles, got %f", got)
	}

	// Exact overlap with a recent post floors the score at zero.
	idea := ideaWith("alpha beta gamma delta", "")
	if got := freshnessScore(idea, []string{"alpha beta gamma delta"}); got != 0 {
		t.Fatalf("expected 0 for identical recent title, got %f", got)
	}

	// Partial overlap lands in between.
	partial := freshnessScore(idea, []string{"alpha beta something else entirely"})
	if partial <= 0 || partial >= 10 {
		t.Fatalf("expected partial overlap between 0 and 10, got %f", partial)
	}

	// A nil idea is neutral even when recent titles exist.
	if got := freshnessScore(nil, []string{"alpha beta gamma delta"}); got != 10 {
		t.Fatalf("expected 10 for nil idea, got %f", got)
	}
}

func TestScoreNilIdea(t *testing.T) {
	scorer := NewIdeaScorer()
	sctx := ScoringContext{
		RecentTitles:   []string{"some recent post title"},
		CategoryCounts: map[string]int{types.CategoryGrowth: 2},
	}
	score := scorer.Score(nil, sctx)
	if score.Composite < 0 || score.Composite > 10 {
		t.Fatalf("composite out of range for nil idea: %f", score.Composite)
	}
}

func TestCategoryBalanceScore(t *testing.T) {
	idea := &types.ContentIdea{Category: types.CategoryGrowth}

	cases := []struct {
		name   string
		counts map[string]int
		want   float64
	}{
		{"unused category", map[string]int{types.CategoryAuthority: 4}, 10},
		{"below average", map[string]int{types.CategoryGrowth: 1, types.CategoryAuthority: 4, types.CategoryConnection: 2, types.CategoryConversion: 1}, 8},
		{"at average", map[string]int{types.CategoryGrowth: 2, types.CategoryAuthority: 2, types.CategoryConnection: 2, types.CategoryConversion: 2}, 5},
		{"far above average", map[string]int{types.CategoryGrowth: 7, types.CategoryAuthority: 1}, 2},
		{"slightly above average", map[string]int{types.CategoryGrowth: 5, types.CategoryAuthority: 4, types.CategoryConnection: 4, types.CategoryConversion: 3}, 4},
	}
	for _, tc := range cases {
		if got := categoryBalanceScore(idea, tc.counts); got != tc.want {
			t.Fatalf("%s: expected %f, got %f", tc.name, tc.want, got)
		}
	}

	if got := categoryBalanceScore(&types.ContentIdea{}, map[string]int{}); got != 5 {
		t.Fatalf("expected neutral 5 for missing category, got %f", got)
	}
}

func TestRankIsStableAndDescending(t *testing.T) {
	scorer := NewIdeaScorer()
	high := 9.0
	low := 2.0

	a := &types.ContentIdea{ID: uuid.New(), Title: "first tie", RelevanceScore: &low}
	b := &types.ContentIdea{ID: uuid.New(), Title: "second tie", RelevanceScore: &low}
	c := &types.ContentIdea{ID: uuid.New(), Title: "clear winner", RelevanceScore: &high}

	ranked := scorer.Rank([]*types.ContentIdea{a, b, c}, ScoringContext{})
	if ranked[0].ID != c.ID {
		t.Fatalf("expected highest relevance first, got %s", ranked[0].Title)
	}
	if ranked[1].ID != a.ID || ranked[2].ID != b.ID {
		t.Fatalf("expected ties to keep input order, got %s then %s", ranked[1].Title, ranked[2].Title)
	}

	top := scorer.TopN([]*types.ContentIdea{a, b, c}, 2, ScoringContext{})
	if len(top) != 2 || top[0].ID != c.ID {
		t.Fatalf("unexpected TopN result")
	}
	if got := scorer.TopN([]*types.ContentIdea{a}, 5, ScoringContext{}); len(got) != 1 {
		t.Fatalf("expected TopN to cap at available ideas, got %d", len(got))
	}
}

func TestDeduplicateKeepsFirstPerFingerprint(t *testing.T) {
	scorer := NewIdeaScorer()

	a := ideaWith("Why founders should blog weekly", "")
	b := ideaWith("Hiring your first engineer", "")
	aReworded := ideaWith("founders blog weekly... WHY should they?", "")

	survivors := scorer.Deduplicate([]*types.ContentIdea{a, b, aReworded})
	if len(survivors) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(survivors))
	}
	if survivors[0].ID != a.ID || survivors[1].ID != b.ID {
		t.Fatalf("expected first occurrences to survive in order")
	}
}

func TestSuggestedCategory(t *testing.T) {
	scorer := NewIdeaScorer()

	counts := map[string]int{
		types.CategoryGrowth:     3,
		types.CategoryAuthority:  1,
		types.CategoryConnection: 1,
		types.CategoryConversion: 2,
	}
	// Ties resolve in canonical order: authority comes before connection.
	if got := scorer.SuggestedCategory(counts); got != types.CategoryAuthority {
		t.Fatalf("expected authority, got %s", got)
	}
	if got := scorer.SuggestedCategory(map[string]int{}); got != types.CategoryGrowth {
		t.Fatalf("expected growth for empty counts, got %s", got)
	}
}

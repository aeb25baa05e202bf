package types

// The four content pillars every account posts against. CategoryOrder is the
// canonical tie-break order used by quota distribution and category suggestion.
const (
	CategoryGrowth     = "growth"
	CategoryAuthority  = "authority"
	CategoryConnection = "connection"
	CategoryConversion = "conversion"
)

var CategoryOrder = []string{
	CategoryGrowth,
	CategoryAuthority,
	CategoryConnection,
	CategoryConversion,
}

// CategoryDistribution maps each pillar to an integer percentage of the weekly
// quota. Valid distributions sum to exactly 100 with every share in [0,100].
type CategoryDistribution map[string]int

func DefaultDistribution() CategoryDistribution {
	return CategoryDistribution{
		CategoryGrowth:     25,
		CategoryAuthority:  35,
		CategoryConnection: 20,
		CategoryConversion: 20,
	}
}

func IsKnownCategory(category string) bool {
	for _, c := range CategoryOrder {
		if c == category {
			return true
		}
	}
	return false
}

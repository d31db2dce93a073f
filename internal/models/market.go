package models

// MarketKey identifies a bettable market. Player-prop keys name the stat the
// line is drawn over; match-level keys name the outcome being predicted.
type MarketKey string

const (
	MarketShots         MarketKey = "shots"
	MarketShotsOnTarget MarketKey = "shots_on_target"
	MarketGoals         MarketKey = "goals"
	MarketAssists       MarketKey = "assists"
	MarketPasses        MarketKey = "passes"
	MarketTackles       MarketKey = "tackles"
	MarketCards         MarketKey = "cards"
	MarketOverUnder25   MarketKey = "over_under_2.5"
	MarketBTTS          MarketKey = "btts"
)

// MarketCategory tags a market with the statistical regime its counts follow.
// Frequent markets are high-count stats where the tree model dominates the
// blend; Rare markets are low-count stats where the Poisson assumption holds
// better; Match markets are probability targets rather than counts.
type MarketCategory int

const (
	CategoryFrequent MarketCategory = iota
	CategoryRare
	CategoryMatch
)

// marketCategories is the single source of truth for blend-weight selection.
// Resolved once per key, never re-derived from the key string.
var marketCategories = map[MarketKey]MarketCategory{
	MarketShots:         CategoryFrequent,
	MarketShotsOnTarget: CategoryFrequent,
	MarketPasses:        CategoryFrequent,
	MarketTackles:       CategoryFrequent,
	MarketGoals:         CategoryRare,
	MarketAssists:       CategoryRare,
	MarketCards:         CategoryRare,
	MarketOverUnder25:   CategoryMatch,
	MarketBTTS:          CategoryMatch,
}

// ParseMarketKey validates a raw market string from a stored prop line.
func ParseMarketKey(raw string) (MarketKey, error) {
	key := MarketKey(raw)
	if _, ok := marketCategories[key]; !ok {
		return "", ErrUnknownMarket
	}
	return key, nil
}

// Category returns the market's statistical category.
func (k MarketKey) Category() MarketCategory {
	if cat, ok := marketCategories[k]; ok {
		return cat
	}
	return CategoryFrequent
}

// IsPlayerProp reports whether the market is a per-player line rather than a
// match-level outcome.
func (k MarketKey) IsPlayerProp() bool {
	return k.Category() != CategoryMatch
}

// String implements fmt.Stringer.
func (k MarketKey) String() string {
	return string(k)
}

func (c MarketCategory) String() string {
	switch c {
	case CategoryFrequent:
		return "frequent"
	case CategoryRare:
		return "rare"
	case CategoryMatch:
		return "match"
	default:
		return "unknown"
	}
}

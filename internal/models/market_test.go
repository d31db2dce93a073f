package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketKey(t *testing.T) {
	key, err := ParseMarketKey("shots")
	require.NoError(t, err)
	assert.Equal(t, MarketShots, key)

	_, err = ParseMarketKey("corners")
	assert.ErrorIs(t, err, ErrUnknownMarket)

	// Category is resolved from the taxonomy, not from the key text.
	_, err = ParseMarketKey("shots_on_goal")
	assert.ErrorIs(t, err, ErrUnknownMarket)
}

func TestMarketCategories(t *testing.T) {
	assert.Equal(t, CategoryFrequent, MarketShots.Category())
	assert.Equal(t, CategoryFrequent, MarketPasses.Category())
	assert.Equal(t, CategoryRare, MarketGoals.Category())
	assert.Equal(t, CategoryRare, MarketCards.Category())
	assert.Equal(t, CategoryMatch, MarketOverUnder25.Category())
	assert.Equal(t, CategoryMatch, MarketBTTS.Category())
}

func TestIsPlayerProp(t *testing.T) {
	assert.True(t, MarketShots.IsPlayerProp())
	assert.True(t, MarketCards.IsPlayerProp())
	assert.False(t, MarketOverUnder25.IsPlayerProp())
	assert.False(t, MarketBTTS.IsPlayerProp())
}

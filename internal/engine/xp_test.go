package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevelInfoInvariants(t *testing.T) {
	for xp := 0; xp <= 5000; xp++ {
		info := GetLevelInfo(xp)
		require.GreaterOrEqual(t, info.Progress, 0)
		require.Less(t, info.Progress, XPPerLevel)
		require.Equal(t, xp, info.Level*XPPerLevel+info.Progress, "xp=%d", xp)
		require.GreaterOrEqual(t, info.Pct, 0)
		require.LessOrEqual(t, info.Pct, 100)
	}
}

func TestGetLevelInfoValues(t *testing.T) {
	tests := []struct {
		xp       int
		level    int
		progress int
		pct      int
	}{
		{0, 0, 0, 0},
		{1, 0, 1, 1},
		{75, 0, 75, 50},
		{149, 0, 149, 99},
		{150, 1, 0, 0},
		{451, 3, 1, 1},
	}
	for _, tt := range tests {
		info := GetLevelInfo(tt.xp)
		assert.Equal(t, tt.level, info.Level, "level for %d", tt.xp)
		assert.Equal(t, tt.progress, info.Progress, "progress for %d", tt.xp)
		assert.Equal(t, tt.pct, info.Pct, "pct for %d", tt.xp)
		assert.Equal(t, XPPerLevel, info.NextLevelXP)
		assert.Equal(t, XPPerLevel-tt.progress, info.ToNext())
	}
}

func TestGetLevelInfoNegativeClamped(t *testing.T) {
	assert.Equal(t, GetLevelInfo(0), GetLevelInfo(-30))
}

func TestBadges(t *testing.T) {
	assert.Empty(t, EarnedBadges(149))

	earned := EarnedBadges(400)
	require.Len(t, earned, 2)
	assert.Equal(t, "Bronze", earned[0].Name)
	assert.Equal(t, "Silver", earned[1].Name)

	assert.Len(t, EarnedBadges(2000), len(Badges))

	next, ok := NextBadge(401)
	require.True(t, ok)
	assert.Equal(t, "Gold", next.Name)

	_, ok = NextBadge(5000)
	assert.False(t, ok)
}

func TestBadgesAscending(t *testing.T) {
	for i := 1; i < len(Badges); i++ {
		assert.Greater(t, Badges[i].Threshold, Badges[i-1].Threshold)
	}
}

func TestTotalXP(t *testing.T) {
	quests := []Quest{
		{XP: 50, Done: true},
		{XP: 100, Done: false},
		{XP: 25, Done: true},
	}
	assert.Equal(t, 105, TotalXP(quests, 30))
	assert.Equal(t, 0, TotalXP(nil, 0))
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	cases := []struct {
		xp       int
		level    string
		next     string // "" for none
		progress int
	}{
		{0, "Yangi", "O'quvchi", 0},
		{49, "Yangi", "O'quvchi", 98},
		{50, "O'quvchi", "Kitobxon", 0},
		{100, "O'quvchi", "Kitobxon", 50},
		{150, "Kitobxon", "Bilimdon", 0},
		{350, "Bilimdon", "Ustoz", 0},
		{600, "Ustoz", "Akademik", 0},
		{1000, "Akademik", "Legenda", 0},
		{1999, "Akademik", "Legenda", 100}, // 999/1000 rounds up
		{2000, "Legenda", "", 100},
		{99999, "Legenda", "", 100},
	}

	for _, tc := range cases {
		info := GetLevel(tc.xp)
		assert.Equalf(t, tc.level, info.Level.Name, "xp=%d", tc.xp)
		if tc.next == "" {
			assert.Nilf(t, info.NextLevel, "xp=%d", tc.xp)
		} else {
			require.NotNilf(t, info.NextLevel, "xp=%d", tc.xp)
			assert.Equalf(t, tc.next, info.NextLevel.Name, "xp=%d", tc.xp)
		}
		assert.Equalf(t, tc.progress, info.Progress, "xp=%d", tc.xp)
	}
}

func TestLevelsSorted(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		assert.Greater(t, Levels[i].MinXP, Levels[i-1].MinXP)
	}
}

func TestBadgeCatalogue(t *testing.T) {
	assert.Len(t, Badges, 16)

	seen := map[string]bool{}
	for _, def := range Badges {
		assert.False(t, seen[def.Key], "duplicate key %s", def.Key)
		seen[def.Key] = true
		assert.NotNil(t, def.Earned)
	}

	assert.NotNil(t, BadgeByKey("streak_30"))
	assert.Nil(t, BadgeByKey("no_such_badge"))
}

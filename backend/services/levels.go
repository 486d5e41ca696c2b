package services

import "math"

type LevelTier struct {
	Name  string `json:"name"`
	MinXP int    `json:"minXP"`
	Icon  string `json:"icon"`
}

type LevelInfo struct {
	Level     LevelTier  `json:"level"`
	NextLevel *LevelTier `json:"nextLevel"`
	Progress  int        `json:"progress"` // 0-100 towards the next tier
}

// Levels must stay sorted by MinXP ascending.
var Levels = []LevelTier{
	{Name: "Yangi", MinXP: 0, Icon: "🌱"},
	{Name: "O'quvchi", MinXP: 50, Icon: "📖"},
	{Name: "Kitobxon", MinXP: 150, Icon: "📚"},
	{Name: "Bilimdon", MinXP: 350, Icon: "🎓"},
	{Name: "Ustoz", MinXP: 600, Icon: "🏅"},
	{Name: "Akademik", MinXP: 1000, Icon: "🏆"},
	{Name: "Legenda", MinXP: 2000, Icon: "👑"},
}

// GetLevel returns the highest tier whose MinXP does not exceed xp, the next
// tier if any, and the integer progress percentage between the two.
func GetLevel(xp int) LevelInfo {
	current := Levels[0]
	var next *LevelTier
	for i := range Levels {
		if Levels[i].MinXP <= xp {
			current = Levels[i]
			if i+1 < len(Levels) {
				tier := Levels[i+1]
				next = &tier
			} else {
				next = nil
			}
		}
	}

	progress := 100
	if next != nil {
		span := next.MinXP - current.MinXP
		progress = int(math.Round(float64(xp-current.MinXP) / float64(span) * 100))
	}

	return LevelInfo{Level: current, NextLevel: next, Progress: progress}
}

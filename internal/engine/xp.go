package engine

import "math"

// XPPerLevel is the flat amount of XP needed to advance one level.
const XPPerLevel = 150

// LevelInfo describes where a cumulative XP total sits on the level curve.
type LevelInfo struct {
	Level       int
	Progress    int // XP earned inside the current level
	NextLevelXP int // XP span of one level
	Pct         int // Progress as a rounded percentage in [0,100]
}

// ToNext returns the XP still missing before the next level.
func (l LevelInfo) ToNext() int {
	return l.NextLevelXP - l.Progress
}

// GetLevelInfo converts total XP into level data. Negative totals are treated as 0.
func GetLevelInfo(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	progress := totalXP % XPPerLevel
	pct := int(math.Round(float64(progress) / XPPerLevel * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return LevelInfo{
		Level:       totalXP / XPPerLevel,
		Progress:    progress,
		NextLevelXP: XPPerLevel,
		Pct:         pct,
	}
}

// Badge is an XP milestone.
type Badge struct {
	Name      string
	Threshold int
	Color     string
}

// Badges lists every milestone in ascending threshold order.
var Badges = []Badge{
	{Name: "Bronze", Threshold: 150, Color: "#CD7F32"},
	{Name: "Silver", Threshold: 400, Color: "#C0C0C0"},
	{Name: "Gold", Threshold: 800, Color: "#FFD700"},
	{Name: "Epic", Threshold: 1200, Color: "#9B59B6"},
	{Name: "Legendary", Threshold: 2000, Color: "#FF6B6B"},
}

func (b Badge) Earned(totalXP int) bool {
	return totalXP >= b.Threshold
}

// EarnedBadges returns the badges unlocked at totalXP, lowest first.
func EarnedBadges(totalXP int) []Badge {
	var earned []Badge
	for _, b := range Badges {
		if b.Earned(totalXP) {
			earned = append(earned, b)
		}
	}
	return earned
}

// NextBadge returns the lowest badge not yet earned, or false when all are earned.
func NextBadge(totalXP int) (Badge, bool) {
	for _, b := range Badges {
		if !b.Earned(totalXP) {
			return b, true
		}
	}
	return Badge{}, false
}

// TotalXP sums the XP of done quests and the XP already awarded by progress sessions.
func TotalXP(quests []Quest, progressXP int) int {
	total := progressXP
	for _, q := range quests {
		total += q.EarnedXP()
	}
	return total
}

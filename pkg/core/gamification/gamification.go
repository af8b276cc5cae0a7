package gamification

import (
	"strings"
)

// Levels holds the cumulative experience needed to reach each level.
// Levels[i] is the floor of level i+1.
var Levels = []int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 12000}

// MaxLevel is the highest reachable level
var MaxLevel = len(Levels)

// Progress describes where an experience total sits within its level
type Progress struct {
	Level        int
	Exp          int
	LevelFloor   int
	NextLevelExp int // zero at max level
	Percent      int // 0..100
	IsMax        bool
}

// LevelForExp returns the level for a cumulative experience total
func LevelForExp(exp int) int {
	level := 1
	for i, floor := range Levels {
		if exp >= floor {
			level = i + 1
		}
	}
	return level
}

// ProgressFor computes progress towards the next level
func ProgressFor(exp int) Progress {
	if exp < 0 {
		exp = 0
	}

	level := LevelForExp(exp)
	p := Progress{
		Level:      level,
		Exp:        exp,
		LevelFloor: Levels[level-1],
	}

	if level == MaxLevel {
		p.IsMax = true
		p.Percent = 100
		return p
	}

	p.NextLevelExp = Levels[level]
	span := p.NextLevelExp - p.LevelFloor
	p.Percent = (exp - p.LevelFloor) * 100 / span

	return p
}

// Remaining returns the experience still needed for the next level
func (p Progress) Remaining() int {
	if p.IsMax {
		return 0
	}
	return p.NextLevelExp - p.Exp
}

// Bar renders progress as a fixed-width text bar, e.g. "[#####-----]"
func Bar(p Progress, width int) string {
	if width <= 0 {
		return "[]"
	}

	filled := p.Percent * width / 100
	if filled > width {
		filled = width
	}

	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Tier is the display tier for a streak or level badge
type Tier string

const (
	StreakNone    Tier = "none"
	StreakWarm    Tier = "warm"
	StreakHot     Tier = "hot"
	StreakBlazing Tier = "blazing"

	TierBronze  Tier = "bronze"
	TierSilver  Tier = "silver"
	TierGold    Tier = "gold"
	TierDiamond Tier = "diamond"
)

// StreakTier classifies a consecutive-days streak
func StreakTier(days int) Tier {
	switch {
	case days >= 30:
		return StreakBlazing
	case days >= 7:
		return StreakHot
	case days >= 3:
		return StreakWarm
	default:
		return StreakNone
	}
}

// Translator renders localized messages
type Translator interface {
	T(key string, data map[string]any) string
}

// StreakLabel returns the localized streak caption
func StreakLabel(tr Translator, days int) string {
	return tr.T("streak."+string(StreakTier(days)), map[string]any{"Days": days})
}

// LevelBadge returns the badge tier shown next to a level
func LevelBadge(level int) Tier {
	switch {
	case level >= 10:
		return TierDiamond
	case level >= 7:
		return TierGold
	case level >= 4:
		return TierSilver
	default:
		return TierBronze
	}
}

// LevelBadgeLabel returns the localized badge tier name
func LevelBadgeLabel(tr Translator, level int) string {
	return tr.T("tier."+string(LevelBadge(level)), nil)
}

// WorkScoreGrade maps a 0..100 work score to a letter grade
func WorkScoreGrade(score float64) string {
	switch {
	case score >= 95:
		return "S"
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

// Package badges evaluates achievement unlocks from log aggregates.
package badges

import (
	"github.com/aditiintechk/CraveCount/internal/models"
)

type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Badge is one achievement with its unlock state and progress toward the
// target. Progress is clamped to [0, Total].
type Badge struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Tier        Tier
	Unlocked    bool
	Progress    int
	Total       int
}

// Evaluate recomputes the full fixed badge list from current aggregates.
// It is a pure function of the log slice: calling it twice on unchanged
// logs yields identical results, and a badge stays unlocked as long as the
// underlying cumulative counts do not shrink.
func Evaluate(logs []models.Log) []Badge {
	totalLogs := len(logs)
	resisted := 0
	reflections := 0
	categories := make(map[models.Category]bool)
	for _, l := range logs {
		if l.Type == models.LogTypeResisted {
			resisted++
		}
		if l.Reflection != nil && len(*l.Reflection) > 0 {
			reflections++
		}
		categories[l.Category] = true
	}

	resistRate := 0
	if totalLogs > 0 {
		resistRate = int(float64(resisted)/float64(totalLogs)*100 + 0.5)
	}

	return []Badge{
		// Beginner
		{
			ID:          "first_step",
			Title:       "First Step",
			Description: "Log your first moment of awareness",
			Icon:        "🌱",
			Tier:        TierBeginner,
			Unlocked:    totalLogs >= 1,
			Progress:    clamp(totalLogs, 1),
			Total:       1,
		},
		{
			ID:          "self_aware",
			Title:       "Self Aware",
			Description: "Build awareness with 5 moments",
			Icon:        "👁️",
			Tier:        TierBeginner,
			Unlocked:    totalLogs >= 5,
			Progress:    clamp(totalLogs, 5),
			Total:       5,
		},
		{
			ID:          "reflective",
			Title:       "Reflective",
			Description: "Write 3 thoughtful reflections",
			Icon:        "📝",
			Tier:        TierBeginner,
			Unlocked:    reflections >= 3,
			Progress:    clamp(reflections, 3),
			Total:       3,
		},
		{
			ID:          "first_resistance",
			Title:       "First Resistance",
			Description: "Choose differently for the first time",
			Icon:        "🛡️",
			Tier:        TierBeginner,
			Unlocked:    resisted >= 1,
			Progress:    clamp(resisted, 1),
			Total:       1,
		},

		// Intermediate
		{
			ID:          "committed",
			Title:       "Committed",
			Description: "Track 25 moments of awareness",
			Icon:        "💪",
			Tier:        TierIntermediate,
			Unlocked:    totalLogs >= 25,
			Progress:    clamp(totalLogs, 25),
			Total:       25,
		},
		{
			ID:          "resistance_rising",
			Title:       "Resistance Rising",
			Description: "Achieve 50% resistance rate (min 10 logs)",
			Icon:        "⚡",
			Tier:        TierIntermediate,
			// Unrounded comparison: 49.6% rounds to 50 but does not unlock.
			Unlocked:    totalLogs >= 10 && resisted*2 >= totalLogs,
			Progress:    rateProgress(totalLogs, resistRate),
			Total:       50,
		},
		{
			ID:          "deep_thinker",
			Title:       "Deep Thinker",
			Description: "Write 10 reflections",
			Icon:        "🧠",
			Tier:        TierIntermediate,
			Unlocked:    reflections >= 10,
			Progress:    clamp(reflections, 10),
			Total:       10,
		},
		{
			ID:          "explorer",
			Title:       "Explorer",
			Description: "Log moments across 4 different categories",
			Icon:        "🗺️",
			Tier:        TierIntermediate,
			Unlocked:    len(categories) >= 4,
			Progress:    clamp(len(categories), 4),
			Total:       4,
		},

		// Advanced
		{
			ID:          "pattern_master",
			Title:       "Pattern Master",
			Description: "Reach 50 total moments logged",
			Icon:        "🎯",
			Tier:        TierAdvanced,
			Unlocked:    totalLogs >= 50,
			Progress:    clamp(totalLogs, 50),
			Total:       50,
		},
		{
			ID:          "balanced_growth",
			Title:       "Balanced Growth",
			Description: "Log all 6 categories",
			Icon:        "🌈",
			Tier:        TierAdvanced,
			Unlocked:    len(categories) >= 6,
			Progress:    clamp(len(categories), 6),
			Total:       6,
		},
		{
			ID:          "wisdom_keeper",
			Title:       "Wisdom Keeper",
			Description: "Write 25 reflections",
			Icon:        "📚",
			Tier:        TierAdvanced,
			Unlocked:    reflections >= 25,
			Progress:    clamp(reflections, 25),
			Total:       25,
		},
		{
			ID:          "centurion",
			Title:       "Centurion",
			Description: "Log 100 moments of awareness",
			Icon:        "💯",
			Tier:        TierAdvanced,
			Unlocked:    totalLogs >= 100,
			Progress:    clamp(totalLogs, 100),
			Total:       100,
		},
	}
}

func clamp(v, total int) int {
	if v < 0 {
		return 0
	}
	if v > total {
		return total
	}
	return v
}

// rateProgress mirrors the resistance_rising badge: no progress until the
// minimum sample of 10 logs exists.
func rateProgress(totalLogs, resistRate int) int {
	if totalLogs < 10 {
		return 0
	}
	return clamp(resistRate, 50)
}

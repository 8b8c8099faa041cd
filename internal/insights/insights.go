// Package insights mines the craving log for behavioral patterns.
//
// Each detector is a pure function of the log slice and is gated by a
// minimum sample size plus a minimum effect size. Habit data is sparse per
// user, and an ungated correlation over a dozen points produces claims the
// user rightly distrusts, so every detector trades recall for precision.
package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aditiintechk/CraveCount/internal/models"
)

type InsightType string

const (
	TypeCorrelation  InsightType = "correlation"
	TypeContext      InsightType = "context"
	TypeSubstitution InsightType = "substitution"
	TypeKeywords     InsightType = "keywords"
	TypeGrowth       InsightType = "growth"
)

// Insight is one surfaced pattern, templated into user-facing text.
type Insight struct {
	ID         string
	Title      string
	Message    string
	Type       InsightType
	TypeLabel  string
	Actionable string
}

// minLogsForInsights is the global floor below which no detector runs.
const minLogsForInsights = 5

// Generate runs every detector in a fixed order and returns at most one
// insight per detector. Output order is stable.
func Generate(logs []models.Log) []Insight {
	var out []Insight
	if len(logs) < minLogsForInsights {
		return out
	}

	if in := detectEmotionCategoryCorrelation(logs); in != nil {
		out = append(out, *in)
	}
	if in := detectTimeOfDayContrast(logs); in != nil {
		out = append(out, *in)
	}
	if in := detectSubstitutionPattern(logs); in != nil {
		out = append(out, *in)
	}
	if in := detectReflectionKeywords(logs); in != nil {
		out = append(out, *in)
	}
	if in := detectGrowthTrend(logs); in != nil {
		out = append(out, *in)
	}
	return out
}

// detectEmotionCategoryCorrelation finds the (emotion, category) pair with
// the highest conditional frequency among emotion-bearing logs.
func detectEmotionCategoryCorrelation(logs []models.Log) *Insight {
	var withEmotion []models.Log
	for _, l := range logs {
		if l.Emotion != nil && *l.Emotion != "" {
			withEmotion = append(withEmotion, l)
		}
	}
	if len(withEmotion) < 15 {
		return nil
	}

	// emotion -> category -> count
	byEmotion := make(map[string]map[models.Category]int)
	totals := make(map[string]int)
	for _, l := range withEmotion {
		e := *l.Emotion
		if byEmotion[e] == nil {
			byEmotion[e] = make(map[models.Category]int)
		}
		byEmotion[e][l.Category]++
		totals[e]++
	}

	var bestEmotion string
	var bestCategory models.Category
	bestPercent := -1
	for e, categories := range byEmotion {
		for c, count := range categories {
			pct := roundPercent(count, totals[e])
			if pct > bestPercent || (pct == bestPercent && tieBreak(e, c, bestEmotion, bestCategory)) {
				bestEmotion, bestCategory, bestPercent = e, c, pct
			}
		}
	}

	if bestPercent < 40 {
		return nil
	}

	return &Insight{
		ID:        "emotion_category_correlation",
		Title:     fmt.Sprintf("Emotional Trigger • %s", bestCategory),
		Message:   fmt.Sprintf("%d%% of your %s cravings happen when you're %s. %s is directly driving this craving.", bestPercent, bestCategory, bestEmotion, bestEmotion),
		Type:      TypeCorrelation,
		TypeLabel: "Emotional Pattern",
		Actionable: fmt.Sprintf("When you notice feeling %s: breathe deeply for 2 minutes, take a 5-minute walk, or text a friend. The craving will pass in 10-15 minutes.", bestEmotion),
	}
}

// Fixed local-time bands for the time-of-day detector: morning 06-12,
// afternoon 12-18, evening 18-21, night 21-06.
var timeBands = []string{"morning", "afternoon", "evening", "night"}

func bandFor(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// detectTimeOfDayContrast reports the gap between the strongest and
// weakest resistance-rate time bands. Bands with fewer than 3 logs are
// excluded; a spread under 20 points is suppressed.
func detectTimeOfDayContrast(logs []models.Log) *Insight {
	if len(logs) < 20 {
		return nil
	}
	resisted := 0
	for _, l := range logs {
		if l.Type == models.LogTypeResisted {
			resisted++
		}
	}
	if resisted < 5 {
		return nil
	}

	type bandStats struct{ total, resisted int }
	bands := make(map[string]*bandStats, len(timeBands))
	for _, name := range timeBands {
		bands[name] = &bandStats{}
	}
	for _, l := range logs {
		b := bands[bandFor(l.Timestamp.In(time.Local).Hour())]
		b.total++
		if l.Type == models.LogTypeResisted {
			b.resisted++
		}
	}

	var strongTime, weakTime string
	strongRate, weakRate := -1, 101
	for _, name := range timeBands {
		s := bands[name]
		if s.total < 3 {
			continue
		}
		rate := roundPercent(s.resisted, s.total)
		if rate > strongRate {
			strongTime, strongRate = name, rate
		}
		if rate < weakRate {
			weakTime, weakRate = name, rate
		}
	}
	if strongRate < 0 || weakRate > 100 {
		return nil
	}
	if strongRate-weakRate < 20 {
		return nil
	}

	delta := strongRate - weakRate
	var explanation string
	switch weakTime {
	case "night":
		explanation = "Your willpower depletes throughout the day. By night you're running on empty. This is biology, not weakness."
	case "evening":
		explanation = "Decision fatigue hits hard in the evening. After a full day of choices, your resistance drops naturally."
	default:
		explanation = fmt.Sprintf("%d%% difference in resistance. %s: %d%% success, %s: %d%% success.", delta, strongTime, strongRate, weakTime, weakRate)
	}

	return &Insight{
		ID:        "context_success_rate",
		Title:     "Time Pattern • Willpower",
		Message:   fmt.Sprintf("You resist %d%% in the %s but only %d%% at %s. %s", strongRate, strongTime, weakRate, weakTime, explanation),
		Type:      TypeContext,
		TypeLabel: "Time-Based",
		Actionable: fmt.Sprintf("Schedule smart: put important decisions and tough tasks in the %s, and remove temptations before %s. Don't rely on willpower when it's depleted.", strongTime, weakTime),
	}
}

// substitutionWindow is how long after a resisted craving another category
// counts as a substitute.
const substitutionWindow = 120 * time.Minute

// detectSubstitutionPattern looks for a different-category craving shortly
// after each resisted log and reports the most frequent transition.
func detectSubstitutionPattern(logs []models.Log) *Insight {
	if len(logs) < 25 {
		return nil
	}
	var resisted []models.Log
	for _, l := range logs {
		if l.Type == models.LogTypeResisted {
			resisted = append(resisted, l)
		}
	}
	if len(resisted) < 10 {
		return nil
	}

	type transition struct{ from, to models.Category }
	counts := make(map[transition]int)
	for _, r := range resisted {
		for _, l := range logs {
			if l.Category == r.Category {
				continue
			}
			diff := l.Timestamp.Sub(r.Timestamp)
			if diff > 0 && diff <= substitutionWindow {
				counts[transition{r.Category, l.Category}]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	var best transition
	bestCount := -1
	for t, c := range counts {
		if c > bestCount || (c == bestCount && (t.from < best.from || (t.from == best.from && t.to < best.to))) {
			best, bestCount = t, c
		}
	}

	percent := roundPercent(bestCount, len(resisted))
	if percent < 20 {
		return nil
	}

	return &Insight{
		ID:        "substitution_pattern",
		Title:     fmt.Sprintf("Substitution • %s → %s", best.from, best.to),
		Message:   fmt.Sprintf("%d%% of the time you resist %s, you reach for %s within 2 hours. You're not beating cravings, you're switching them. Same impulse, different target.", percent, best.from, best.to),
		Type:      TypeSubstitution,
		TypeLabel: "Habit Chain",
		Actionable: "Address the real need. Connection: call someone. Stimulation: go outside. Rest: take a real break. Anything that isn't another craving.",
	}
}

// triggerKeywords are matched case-insensitively against reflections.
var triggerKeywords = []struct {
	word  string
	label string
}{
	{"work", "Work Stress"},
	{"tired", "Fatigue"},
	{"alone", "Loneliness"},
	{"bored", "Boredom"},
	{"anxious", "Anxiety"},
	{"stress", "Stress"},
	{"bed", "Evening Routine"},
	{"waiting", "Idle Time"},
}

// detectReflectionKeywords tallies trigger words across substantial
// reflections (>10 characters) and reports the dominant one together with
// its most frequent category.
func detectReflectionKeywords(logs []models.Log) *Insight {
	var reflective []models.Log
	for _, l := range logs {
		if l.Reflection != nil && len(*l.Reflection) > 10 {
			reflective = append(reflective, l)
		}
	}
	if len(reflective) < 10 {
		return nil
	}

	type match struct {
		count      int
		label      string
		categories map[models.Category]int
	}
	matches := make(map[string]*match)
	for _, l := range reflective {
		text := strings.ToLower(*l.Reflection)
		for _, kw := range triggerKeywords {
			if !strings.Contains(text, kw.word) {
				continue
			}
			m := matches[kw.word]
			if m == nil {
				m = &match{label: kw.label, categories: make(map[models.Category]int)}
				matches[kw.word] = m
			}
			m.count++
			m.categories[l.Category]++
		}
	}
	if len(matches) == 0 {
		return nil
	}

	var topWord string
	var top *match
	for _, kw := range triggerKeywords { // fixed order keeps ties stable
		if m, ok := matches[kw.word]; ok && (top == nil || m.count > top.count) {
			topWord, top = kw.word, m
		}
	}

	percent := roundPercent(top.count, len(reflective))
	if percent < 20 {
		return nil
	}

	topCategory := dominantCategory(top.categories)

	var advice string
	switch topWord {
	case "work", "stress":
		advice = fmt.Sprintf("The real problem is unmanaged work stress. Can you add more breaks, set boundaries, or change your environment? %s is just the symptom.", topCategory)
	case "tired":
		advice = fmt.Sprintf("Your body needs rest, not %s. Sleep more, schedule real downtime, take actual naps. Stop reaching for quick fixes.", topCategory)
	case "alone", "bored":
		advice = fmt.Sprintf("%s temporarily numbs loneliness. Text 3 friends right now, join a local group, schedule social time. Connection is the real solution.", topCategory)
	case "anxious":
		advice = fmt.Sprintf("Anxiety is the driver. Try therapy, meditation, or journaling the specific worry. %s makes it worse long-term.", topCategory)
	default:
		advice = fmt.Sprintf("%s is your real trigger. %s is just the symptom.", top.label, topCategory)
	}

	return &Insight{
		ID:         "reflection_keywords",
		Title:      fmt.Sprintf("Hidden Trigger • %s", topCategory),
		Message:    fmt.Sprintf("You wrote %q in %d%% of reflections, followed by %s cravings. This word is your emotional alarm bell.", topWord, percent, topCategory),
		Type:       TypeKeywords,
		TypeLabel:  "Root Cause",
		Actionable: advice,
	}
}

// detectGrowthTrend splits the chronologically sorted log in half and
// compares resistance rates. Only a relative change beyond ±20% is worth
// reporting.
func detectGrowthTrend(logs []models.Log) *Insight {
	if len(logs) < 20 {
		return nil
	}

	sorted := make([]models.Log, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	mid := len(sorted) / 2
	olderRate := resistFraction(sorted[:mid])
	recentRate := resistFraction(sorted[mid:])

	base := olderRate
	if base == 0 {
		base = 0.01
	}
	change := (recentRate - olderRate) / base * 100

	oldPct := int(olderRate*100 + 0.5)
	newPct := int(recentRate*100 + 0.5)

	if change > 20 {
		pct := int(change + 0.5)
		return &Insight{
			ID:         "growth_pattern",
			Title:      fmt.Sprintf("Progress • %d%% Stronger", pct),
			Message:    fmt.Sprintf("Your resistance went from %d%% to %d%%. This isn't luck. You're rewiring your brain.", oldPct, newPct),
			Type:       TypeGrowth,
			TypeLabel:  "Growth Tracking",
			Actionable: "What's working? Double down on it. Maintain your tracking habit, notice which strategies work, protect this progress.",
		}
	}
	if change < -20 {
		pct := int(-change + 0.5)
		return &Insight{
			ID:         "growth_pattern",
			Title:      fmt.Sprintf("Warning • %d%% Decline", pct),
			Message:    fmt.Sprintf("Your resistance went from %d%% to %d%%. This isn't failure, it's data.", oldPct, newPct),
			Type:       TypeGrowth,
			TypeLabel:  "Growth Tracking",
			Actionable: "What changed? More stress, less sleep, a different environment? Fix the context, not just the behavior. Keep tracking; awareness alone will reverse this.",
		}
	}
	return nil
}

func resistFraction(logs []models.Log) float64 {
	if len(logs) == 0 {
		return 0
	}
	resisted := 0
	for _, l := range logs {
		if l.Type == models.LogTypeResisted {
			resisted++
		}
	}
	return float64(resisted) / float64(len(logs))
}

func dominantCategory(counts map[models.Category]int) models.Category {
	var best models.Category
	bestCount := -1
	for c, n := range counts {
		if n > bestCount || (n == bestCount && c < best) {
			best, bestCount = c, n
		}
	}
	return best
}

func tieBreak(e string, c models.Category, bestE string, bestC models.Category) bool {
	if e != bestE {
		return e < bestE
	}
	return c < bestC
}

func roundPercent(num, den int) int {
	return int(float64(num)/float64(den)*100 + 0.5)
}

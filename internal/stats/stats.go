// Package stats computes derived statistics over the craving log.
//
// Every function is pure and recomputes from the full log slice on each
// call. At habit-tracker volumes (hundreds to low thousands of logs) that
// is cheaper than maintaining incremental aggregates, and it keeps the
// figures authoritative: percentages are never drift-corrected against a
// stored running value.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/aditiintechk/CraveCount/internal/models"
)

// maxStreakScan bounds the backward walk in CurrentStreak.
const maxStreakScan = 365

// AwarenessCount returns the number of observed logs.
func AwarenessCount(logs []models.Log) int {
	count := 0
	for _, l := range logs {
		if l.Type == models.LogTypeObserved {
			count++
		}
	}
	return count
}

// ResistedCount returns the number of resisted logs.
func ResistedCount(logs []models.Log) int {
	count := 0
	for _, l := range logs {
		if l.Type == models.LogTypeResisted {
			count++
		}
	}
	return count
}

// ResistanceRate returns resisted/total as a rounded integer percentage.
// An empty log set yields 0, not NaN.
func ResistanceRate(logs []models.Log) int {
	if len(logs) == 0 {
		return 0
	}
	return roundPercent(ResistedCount(logs), len(logs))
}

// CurrentStreak walks backward from today counting consecutive calendar
// days with at least one log. A gap on today itself does not break the
// streak; any earlier gap does. This asymmetry is deliberate: the user has
// not lost today's streak just because they have not logged yet.
func CurrentStreak(logs []models.Log, now time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		days[dayKey(l.Timestamp)] = true
	}

	streak := 0
	for i := 0; i < maxStreakScan; i++ {
		check := now.AddDate(0, 0, -i)
		if days[dayKey(check)] {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

// LongestStreak finds the longest run of consecutive calendar days that
// each have at least one log. Returns 0 for an empty log set, else at
// least 1.
func LongestStreak(logs []models.Log) int {
	if len(logs) == 0 {
		return 0
	}

	days := make(map[string]time.Time, len(logs))
	for _, l := range logs {
		d := startOfDay(l.Timestamp)
		days[dayKey(l.Timestamp)] = d
	}

	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest := 0
	current := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Equal(dates[i-1].AddDate(0, 0, 1)) {
			current++
		} else {
			if current > longest {
				longest = current
			}
			current = 1
		}
	}
	if current > longest {
		longest = current
	}
	return longest
}

// TreeLevel is a named band of willpower points. Max is nil on the
// terminal band; on every other band it is the exclusive upper bound used
// to compute points remaining to the next level.
type TreeLevel struct {
	Level int
	Name  string
	Emoji string
	Min   int
	Max   *int
}

// PointsToNext returns how many points remain until the next level, or 0
// on the terminal band.
func (t TreeLevel) PointsToNext(points int) int {
	if t.Max == nil {
		return 0
	}
	remaining := *t.Max - points
	if remaining < 0 {
		return 0
	}
	return remaining
}

func bound(v int) *int { return &v }

// LevelFor maps a willpower-point total onto its progression tier.
func LevelFor(points int) TreeLevel {
	switch {
	case points < 100:
		return TreeLevel{Level: 1, Name: "Aware", Emoji: "🌱", Min: 0, Max: bound(100)}
	case points < 300:
		return TreeLevel{Level: 2, Name: "Steady", Emoji: "🌿", Min: 100, Max: bound(300)}
	case points < 600:
		return TreeLevel{Level: 3, Name: "Grounded", Emoji: "🌳", Min: 300, Max: bound(600)}
	case points < 1000:
		return TreeLevel{Level: 4, Name: "Resilient", Emoji: "🌲", Min: 600, Max: bound(1000)}
	default:
		return TreeLevel{Level: 5, Name: "Unshakeable", Emoji: "🌲✨", Min: 1000, Max: nil}
	}
}

// DayBucket is one calendar day of chart data.
type DayBucket struct {
	Date     string // YYYY-MM-DD
	Observed int
	Resisted int
	Total    int
}

// ChartDataForPeriod builds exactly `days` calendar-day buckets ending
// today, oldest first. Days with no logs appear with zero counts so chart
// consumers always receive a dense series.
func ChartDataForPeriod(logs []models.Log, days int, now time.Time) []DayBucket {
	buckets := make([]DayBucket, 0, days)
	index := make(map[string]int, days)
	for i := days - 1; i >= 0; i-- {
		key := dayKey(now.AddDate(0, 0, -i))
		index[key] = len(buckets)
		buckets = append(buckets, DayBucket{Date: key})
	}

	for _, l := range logs {
		i, ok := index[dayKey(l.Timestamp)]
		if !ok {
			continue
		}
		if l.Type == models.LogTypeObserved {
			buckets[i].Observed++
		} else {
			buckets[i].Resisted++
		}
		buckets[i].Total++
	}
	return buckets
}

// WeekStats summarizes the trailing 7-day window. The two percentages are
// rounded independently and may not sum to 100.
type WeekStats struct {
	Observed        int
	Resisted        int
	Total           int
	ObservedPercent int
	ResistedPercent int
}

// Past7DaysStats aggregates the trailing 7 calendar days including today.
func Past7DaysStats(logs []models.Log, now time.Time) WeekStats {
	var stats WeekStats
	for _, b := range ChartDataForPeriod(logs, 7, now) {
		stats.Observed += b.Observed
		stats.Resisted += b.Resisted
		stats.Total += b.Total
	}
	if stats.Total > 0 {
		stats.ObservedPercent = roundPercent(stats.Observed, stats.Total)
		stats.ResistedPercent = roundPercent(stats.Resisted, stats.Total)
	}
	return stats
}

// roundPercent computes num/den as an integer percentage, rounded half-up.
func roundPercent(num, den int) int {
	return int(math.Round(float64(num) / float64(den) * 100))
}

// Calendar bucketing is always done in local time, so an instant lands on
// the same day no matter which location its time.Time happens to carry
// (fresh logs are local, reloaded ones arrive from the wire).
func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func dayKey(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}

package stats

import (
	"testing"
	"time"

	"github.com/aditiintechk/CraveCount/internal/models"
	"github.com/aditiintechk/CraveCount/internal/snapshot"
)

// noon returns a log at 12:00 local time, daysAgo days before now.
func noon(now time.Time, daysAgo int, logType models.LogType) models.Log {
	day := now.AddDate(0, 0, -daysAgo)
	ts := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local)
	return models.Log{
		ID:        models.NewLogID(ts),
		Category:  models.CategorySugar,
		Type:      logType,
		Timestamp: ts,
		Points:    models.PointsFor(logType),
	}
}

func TestCounts(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)
	logs := []models.Log{
		noon(now, 0, models.LogTypeObserved),
		noon(now, 0, models.LogTypeResisted),
		noon(now, 1, models.LogTypeResisted),
	}

	if got := AwarenessCount(logs); got != 1 {
		t.Errorf("AwarenessCount = %d, want 1", got)
	}
	if got := ResistedCount(logs); got != 2 {
		t.Errorf("ResistedCount = %d, want 2", got)
	}
}

func TestResistanceRate(t *testing.T) {
	if got := ResistanceRate(nil); got != 0 {
		t.Errorf("ResistanceRate(empty) = %d, want 0", got)
	}

	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)
	logs := []models.Log{
		noon(now, 0, models.LogTypeResisted),
		noon(now, 0, models.LogTypeObserved),
		noon(now, 0, models.LogTypeObserved),
	}
	// 1/3 rounds to 33
	if got := ResistanceRate(logs); got != 33 {
		t.Errorf("ResistanceRate = %d, want 33", got)
	}

	logs = append(logs, noon(now, 0, models.LogTypeResisted))
	if got := ResistanceRate(logs); got != 50 {
		t.Errorf("ResistanceRate = %d, want 50", got)
	}
}

func TestResistanceRateBounds(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)
	for n := 0; n <= 10; n++ {
		var logs []models.Log
		for i := 0; i < n; i++ {
			logType := models.LogTypeObserved
			if i%2 == 0 {
				logType = models.LogTypeResisted
			}
			logs = append(logs, noon(now, i, logType))
		}
		rate := ResistanceRate(logs)
		if rate < 0 || rate > 100 {
			t.Errorf("ResistanceRate with %d logs = %d, out of [0,100]", n, rate)
		}
	}
}

// TestCurrentStreak pins the literal boundary behavior: a gap on today
// never breaks the streak, any gap on a prior day does.
func TestCurrentStreak(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		logDays []int // days ago with at least one log
		want    int
	}{
		{"no logs", nil, 0},
		{"only today", []int{0}, 1},
		{"today and yesterday", []int{0, 1}, 2},
		{"three day run", []int{0, 1, 2}, 3},
		{"today missing, yesterday logged", []int{1}, 1},
		{"today missing, two day run before", []int{1, 2}, 2},
		{"today and yesterday missing", []int{2, 3}, 0},
		{"gap before yesterday", []int{0, 1, 3, 4}, 2},
		{"gap after today", []int{0, 2, 3}, 1},
		{"duplicate logs one day", []int{0, 0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []models.Log
			for _, d := range tt.logDays {
				logs = append(logs, noon(now, d, models.LogTypeObserved))
			}
			if got := CurrentStreak(logs, now); got != tt.want {
				t.Errorf("CurrentStreak(%v) = %d, want %d", tt.logDays, got, tt.want)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		logDays []int
		want    int
	}{
		{"no logs", nil, 0},
		{"single day", []int{5}, 1},
		{"two separate days", []int{5, 10}, 1},
		{"three day run in the past", []int{10, 11, 12}, 3},
		{"longest run not the most recent", []int{0, 5, 6, 7, 8}, 4},
		{"duplicates do not inflate", []int{3, 3, 4, 4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []models.Log
			for _, d := range tt.logDays {
				logs = append(logs, noon(now, d, models.LogTypeResisted))
			}
			if got := LongestStreak(logs); got != tt.want {
				t.Errorf("LongestStreak(%v) = %d, want %d", tt.logDays, got, tt.want)
			}
		})
	}
}

func TestLongestStreakAtLeastCurrent(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)

	cases := [][]int{
		{0}, {0, 1}, {0, 1, 2, 5, 6}, {1, 2}, {3, 4, 5},
	}
	for _, days := range cases {
		var logs []models.Log
		for _, d := range days {
			logs = append(logs, noon(now, d, models.LogTypeObserved))
		}
		current := CurrentStreak(logs, now)
		longest := LongestStreak(logs)
		if longest < current {
			t.Errorf("days %v: longest %d < current %d", days, longest, current)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points    int
		wantLevel int
		wantName  string
	}{
		{0, 1, "Aware"},
		{99, 1, "Aware"},
		{100, 2, "Steady"},
		{299, 2, "Steady"},
		{300, 3, "Grounded"},
		{599, 3, "Grounded"},
		{600, 4, "Resilient"},
		{999, 4, "Resilient"},
		{1000, 5, "Unshakeable"},
		{50000, 5, "Unshakeable"},
	}

	for _, tt := range tests {
		level := LevelFor(tt.points)
		if level.Level != tt.wantLevel || level.Name != tt.wantName {
			t.Errorf("LevelFor(%d) = level %d %q, want %d %q", tt.points, level.Level, level.Name, tt.wantLevel, tt.wantName)
		}
	}

	if LevelFor(1000).Max != nil {
		t.Error("terminal level should have no upper bound")
	}
	if got := LevelFor(40).PointsToNext(40); got != 60 {
		t.Errorf("PointsToNext(40) = %d, want 60", got)
	}
	if got := LevelFor(1500).PointsToNext(1500); got != 0 {
		t.Errorf("PointsToNext at terminal level = %d, want 0", got)
	}
}

func TestChartDataDensity(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)
	logs := []models.Log{
		noon(now, 0, models.LogTypeObserved),
		noon(now, 2, models.LogTypeResisted),
		noon(now, 2, models.LogTypeObserved),
		noon(now, 30, models.LogTypeObserved), // outside every window below
	}

	for _, days := range []int{1, 7, 14} {
		buckets := ChartDataForPeriod(logs, days, now)
		if len(buckets) != days {
			t.Fatalf("ChartDataForPeriod(%d) returned %d buckets", days, len(buckets))
		}

		total := 0
		inWindow := 0
		for _, b := range buckets {
			total += b.Total
		}
		for _, l := range logs {
			diff := now.Sub(l.Timestamp)
			if diff >= 0 && diff < time.Duration(days)*24*time.Hour {
				inWindow++
			}
		}
		if total != inWindow {
			t.Errorf("ChartDataForPeriod(%d): bucket total %d, want %d logs in window", days, total, inWindow)
		}
	}

	// Oldest first, ending today.
	buckets := ChartDataForPeriod(logs, 7, now)
	if buckets[6].Date != "2024-03-15" {
		t.Errorf("last bucket is %s, want today", buckets[6].Date)
	}
	if buckets[0].Date != "2024-03-09" {
		t.Errorf("first bucket is %s, want 2024-03-09", buckets[0].Date)
	}
	if buckets[4].Observed != 1 || buckets[4].Resisted != 1 || buckets[4].Total != 2 {
		t.Errorf("bucket for 2 days ago = %+v, want 1 observed 1 resisted", buckets[4])
	}
}

// Day bucketing must see the same calendar day for an instant whether the
// log was just created (local zone) or reloaded from storage (wire UTC).
func TestDayBucketingStableAcrossSaveLoad(t *testing.T) {
	zone := time.FixedZone("UTC+5:30", 5*3600+1800)
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, zone)
	// 02:00 in this zone is still the previous day in UTC.
	logs := []models.Log{
		{
			ID:        "1",
			Category:  models.CategorySugar,
			Type:      models.LogTypeObserved,
			Timestamp: time.Date(2024, 3, 15, 2, 0, 0, 0, zone),
			Points:    models.PointsObserved,
		},
		{
			ID:        "2",
			Category:  models.CategorySugar,
			Type:      models.LogTypeResisted,
			Timestamp: time.Date(2024, 3, 14, 2, 0, 0, 0, zone),
			Points:    models.PointsResisted,
		},
	}

	encoded, err := snapshot.Capture(40, logs, nil, nil, nil).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := snapshot.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	reloaded, err := decoded.NativeLogs()
	if err != nil {
		t.Fatalf("NativeLogs: %v", err)
	}

	if before, after := CurrentStreak(logs, now), CurrentStreak(reloaded, now); before != after {
		t.Errorf("streak changed across save/load: before=%d after=%d", before, after)
	}
	if before, after := LongestStreak(logs), LongestStreak(reloaded); before != after {
		t.Errorf("longest streak changed across save/load: before=%d after=%d", before, after)
	}

	beforeBuckets := ChartDataForPeriod(logs, 7, now)
	afterBuckets := ChartDataForPeriod(reloaded, 7, now)
	for i := range beforeBuckets {
		if beforeBuckets[i] != afterBuckets[i] {
			t.Errorf("bucket %s changed across save/load: before=%+v after=%+v",
				beforeBuckets[i].Date, beforeBuckets[i], afterBuckets[i])
		}
	}
}

func TestPast7DaysStats(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)

	empty := Past7DaysStats(nil, now)
	if empty.ObservedPercent != 0 || empty.ResistedPercent != 0 {
		t.Errorf("empty stats percentages = %d/%d, want 0/0", empty.ObservedPercent, empty.ResistedPercent)
	}

	// 3 logs: 1 observed, 2 resisted. 33% + 67% = 100 here, but both are
	// rounded independently.
	logs := []models.Log{
		noon(now, 0, models.LogTypeObserved),
		noon(now, 1, models.LogTypeResisted),
		noon(now, 2, models.LogTypeResisted),
	}
	week := Past7DaysStats(logs, now)
	if week.Total != 3 || week.Observed != 1 || week.Resisted != 2 {
		t.Fatalf("week counts = %+v", week)
	}
	if week.ObservedPercent != 33 || week.ResistedPercent != 67 {
		t.Errorf("percentages = %d/%d, want 33/67", week.ObservedPercent, week.ResistedPercent)
	}

	// Half-up rounding can push the pair past 100: 3 observed, 3 resisted,
	// and 1 more observed = 4/7 observed (57.14 -> 57), 3/7 resisted
	// (42.86 -> 43); 57+43=100. Use 1/8 + 7/8: 13 + 88 = 101.
	logs = nil
	for i := 0; i < 7; i++ {
		logs = append(logs, noon(now, i%3, models.LogTypeResisted))
	}
	logs = append(logs, noon(now, 0, models.LogTypeObserved))
	week = Past7DaysStats(logs, now)
	if week.ObservedPercent+week.ResistedPercent != 101 {
		t.Errorf("independently rounded percentages sum to %d, want 101", week.ObservedPercent+week.ResistedPercent)
	}
}

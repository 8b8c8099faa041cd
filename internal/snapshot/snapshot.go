// Package snapshot defines the serialized form of the full app state.
//
// Local storage and the remote document store both receive this shape: one
// JSON document holding points, logs, planned joys and the custom selection
// sets. Date fields travel as RFC 3339 strings and optional fields are
// written as explicit null, never omitted, because the remote document
// schema has no notion of an undefined field.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aditiintechk/CraveCount/internal/models"
)

// StorageKey is the local blob-store key holding the snapshot document.
const StorageKey = "crave_count_data"

// Snapshot is the wire form of the whole store state.
type Snapshot struct {
	WillpowerPoints int          `json:"willpowerPoints"`
	Logs            []LogRecord  `json:"logs"`
	PlannedJoys     []JoyRecord  `json:"plannedJoys"`
	CustomCravings  []string     `json:"customCravings"`
	CustomEmotions  []string     `json:"customEmotions"`
}

// LogRecord mirrors models.Log with the timestamp flattened to a string.
// Optional fields keep their json tags null-emitting on purpose.
type LogRecord struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Type       string  `json:"type"`
	Emotion    *string `json:"emotion"`
	Reflection *string `json:"reflection"`
	Timestamp  string  `json:"timestamp"`
	Points     int     `json:"points"`
}

// JoyRecord mirrors models.PlannedJoy on the wire.
type JoyRecord struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Date           string  `json:"date"`
	NotificationID *string `json:"notificationId"`
}

// Document is the remote store's shape: a snapshot stamped with the epoch
// milliseconds of the write that produced it.
type Document struct {
	Snapshot
	LastSyncedAt int64 `json:"lastSyncedAt"`
}

// Capture converts native state into its wire form.
func Capture(points int, logs []models.Log, joys []models.PlannedJoy, cravings []models.Category, emotions []string) Snapshot {
	snap := Snapshot{
		WillpowerPoints: points,
		Logs:            make([]LogRecord, 0, len(logs)),
		PlannedJoys:     make([]JoyRecord, 0, len(joys)),
		CustomCravings:  make([]string, 0, len(cravings)),
		CustomEmotions:  make([]string, 0, len(emotions)),
	}
	for _, l := range logs {
		snap.Logs = append(snap.Logs, LogRecord{
			ID:         l.ID,
			Category:   string(l.Category),
			Type:       string(l.Type),
			Emotion:    l.Emotion,
			Reflection: l.Reflection,
			Timestamp:  l.Timestamp.UTC().Format(time.RFC3339),
			Points:     l.Points,
		})
	}
	for _, j := range joys {
		snap.PlannedJoys = append(snap.PlannedJoys, JoyRecord{
			ID:             j.ID,
			Title:          j.Title,
			Description:    j.Description,
			Date:           j.Date.UTC().Format(time.RFC3339),
			NotificationID: j.NotificationID,
		})
	}
	for _, c := range cravings {
		snap.CustomCravings = append(snap.CustomCravings, string(c))
	}
	snap.CustomEmotions = append(snap.CustomEmotions, emotions...)
	return snap
}

// NativeLogs converts the snapshot's log records back to native models.
func (s Snapshot) NativeLogs() ([]models.Log, error) {
	logs := make([]models.Log, 0, len(s.Logs))
	for _, r := range s.Logs {
		ts, err := parseTime(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("log %s: %w", r.ID, err)
		}
		logs = append(logs, models.Log{
			ID:         r.ID,
			Category:   models.Category(r.Category),
			Type:       models.LogType(r.Type),
			Emotion:    r.Emotion,
			Reflection: r.Reflection,
			Timestamp:  ts,
			Points:     r.Points,
		})
	}
	return logs, nil
}

// NativeJoys converts the snapshot's planned joys back to native models,
// sorted ascending by date as the store requires.
func (s Snapshot) NativeJoys() ([]models.PlannedJoy, error) {
	joys := make([]models.PlannedJoy, 0, len(s.PlannedJoys))
	for _, r := range s.PlannedJoys {
		d, err := parseTime(r.Date)
		if err != nil {
			return nil, fmt.Errorf("planned joy %s: %w", r.ID, err)
		}
		joys = append(joys, models.PlannedJoy{
			ID:             r.ID,
			Title:          r.Title,
			Description:    r.Description,
			Date:           d,
			NotificationID: r.NotificationID,
		})
	}
	sort.Slice(joys, func(i, j int) bool { return joys[i].Date.Before(joys[j].Date) })
	return joys, nil
}

// NativeCravings returns the custom craving selection as typed categories.
func (s Snapshot) NativeCravings() []models.Category {
	cravings := make([]models.Category, 0, len(s.CustomCravings))
	for _, c := range s.CustomCravings {
		cravings = append(cravings, models.Category(c))
	}
	return cravings
}

// parseTime returns the instant in local time. The wire stores UTC, but
// everything downstream (day keys, time bands, display) works in the
// user's zone, so reloaded times must match freshly created ones.
func parseTime(v string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", v, err)
	}
	return ts.In(time.Local), nil
}

// Encode marshals the snapshot for the local blob store.
func (s Snapshot) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return string(data), nil
}

// Decode parses a snapshot previously produced by Encode.
func Decode(data string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return s, nil
}

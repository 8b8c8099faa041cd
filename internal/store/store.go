// Package store owns the canonical in-memory state: the craving log, the
// planned joys, the custom selection sets and the running willpower total.
//
// Every mutation follows the same protocol: validate, apply the in-memory
// transition atomically, write the full snapshot through to local storage,
// and enqueue the same snapshot for the remote write-through. Persistence
// failures are logged and swallowed; the in-memory state is the source of
// truth for the session.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aditiintechk/CraveCount/internal/badges"
	"github.com/aditiintechk/CraveCount/internal/cloudsync"
	"github.com/aditiintechk/CraveCount/internal/insights"
	"github.com/aditiintechk/CraveCount/internal/models"
	"github.com/aditiintechk/CraveCount/internal/notify"
	"github.com/aditiintechk/CraveCount/internal/snapshot"
	"github.com/aditiintechk/CraveCount/internal/stats"
	"github.com/aditiintechk/CraveCount/internal/storage"
)

// Selection-set bounds, enforced before any state change.
const (
	MinSelection = 1
	MaxSelection = 10
	// MaxLabelLen bounds free-text category labels at input time.
	MaxLabelLen = 24
)

// ErrInvalidSelection is returned when a selection-set mutation violates
// the size or label bounds. No state changes and nothing is persisted.
var ErrInvalidSelection = errors.New("invalid selection")

// Syncer is the sync-coordinator surface the store depends on.
type Syncer interface {
	Bootstrap(ctx context.Context) error
	Load(ctx context.Context) (snapshot.Snapshot, error)
	Push(snapshot.Snapshot)
	Status() cloudsync.Status
	Close()
}

// Store is the single mutable source of truth. All reads and mutations go
// through it; collaborators only ever see serialized snapshots.
type Store struct {
	mu             sync.Mutex
	points         int
	logs           []models.Log         // newest first
	joys           []models.PlannedJoy  // ascending by date
	customCravings []models.Category
	customEmotions []string

	local    storage.Provider
	syncer   Syncer
	notifier notify.Scheduler

	now func() time.Time
}

// New constructs a store. Nothing is loaded until Init.
func New(local storage.Provider, syncer Syncer, notifier notify.Scheduler) *Store {
	return &Store{
		local:    local,
		syncer:   syncer,
		notifier: notifier,
		now:      time.Now,
	}
}

// Init bootstraps the identity and loads state: remote wins if present,
// otherwise local, otherwise empty defaults. Startup failures never abort
// a session; they are logged and the store proceeds from the best
// reachable tier, down to empty defaults.
func (s *Store) Init(ctx context.Context) error {
	if err := s.syncer.Bootstrap(ctx); err != nil {
		log.Printf("store: sync bootstrap failed, continuing without cloud sync: %v", err)
	}

	snap, err := s.syncer.Load(ctx)
	if err != nil {
		log.Printf("store: load failed, starting from defaults: %v", err)
		snap = snapshot.Snapshot{}
	}

	logs, err := snap.NativeLogs()
	if err != nil {
		log.Printf("store: discarding malformed logs: %v", err)
		logs = nil
	}
	joys, err := snap.NativeJoys()
	if err != nil {
		log.Printf("store: discarding malformed planned joys: %v", err)
		joys = nil
	}

	s.mu.Lock()
	s.points = snap.WillpowerPoints
	s.logs = logs
	s.joys = joys
	s.customCravings = snap.NativeCravings()
	s.customEmotions = append([]string(nil), snap.CustomEmotions...)
	s.mu.Unlock()
	return nil
}

// Close flushes the write-through queue and releases resources.
func (s *Store) Close() {
	s.syncer.Close()
	if err := s.local.Close(); err != nil {
		log.Printf("store: closing local storage: %v", err)
	}
}

// AddLog records a craving event. Points are fixed by type at creation
// time. A nil timestamp means "now"; backdating is allowed.
func (s *Store) AddLog(category models.Category, logType models.LogType, emotion *models.Emotion, reflection *string, timestamp *time.Time) (models.Log, error) {
	if err := validateCategory(category); err != nil {
		return models.Log{}, err
	}
	if logType != models.LogTypeObserved && logType != models.LogTypeResisted {
		return models.Log{}, fmt.Errorf("invalid log type: %s", logType)
	}

	s.mu.Lock()
	ts := s.now()
	if timestamp != nil {
		ts = *timestamp
	}
	entry := models.Log{
		ID:         s.uniqueLogID(),
		Category:   category,
		Type:       logType,
		Emotion:    emotion,
		Reflection: reflection,
		Timestamp:  ts,
		Points:     models.PointsFor(logType),
	}
	s.points += entry.Points
	s.logs = append([]models.Log{entry}, s.logs...)
	s.mu.Unlock()

	s.persist()
	return entry, nil
}

// UpdateLog rewrites a log in place, recomputing points and applying the
// exact delta to the running total. An unknown id is a silent no-op.
func (s *Store) UpdateLog(id string, category models.Category, logType models.LogType, emotion *models.Emotion, reflection *string, timestamp *time.Time) error {
	if err := validateCategory(category); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.logIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("store: update for unknown log %s ignored", id)
		return nil
	}

	existing := s.logs[idx]
	newPoints := models.PointsFor(logType)
	s.points += newPoints - existing.Points

	ts := existing.Timestamp
	if timestamp != nil {
		ts = *timestamp
	}
	s.logs[idx] = models.Log{
		ID:         existing.ID,
		Category:   category,
		Type:       logType,
		Emotion:    emotion,
		Reflection: reflection,
		Timestamp:  ts,
		Points:     newPoints,
	}
	s.mu.Unlock()

	s.persist()
	return nil
}

// DeleteLog removes a log and reverses its exact stored points
// contribution. An unknown id is a silent no-op.
func (s *Store) DeleteLog(id string) error {
	s.mu.Lock()
	idx := s.logIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("store: delete for unknown log %s ignored", id)
		return nil
	}
	s.points -= s.logs[idx].Points
	s.logs = append(s.logs[:idx], s.logs[idx+1:]...)
	s.mu.Unlock()

	s.persist()
	return nil
}

// AddPlannedJoy creates a future self-reward and schedules a best-effort
// reminder. A failed or nil scheduling result is stored as "no reminder".
func (s *Store) AddPlannedJoy(title string, description *string, date time.Time) (models.PlannedJoy, error) {
	if title == "" {
		return models.PlannedJoy{}, fmt.Errorf("planned joy needs a title")
	}

	id := uuid.New().String()
	handle, err := s.notifier.Schedule(id, title, date)
	if err != nil {
		log.Printf("store: reminder scheduling failed for %s: %v", id, err)
		handle = nil
	}

	joy := models.PlannedJoy{
		ID:             id,
		Title:          title,
		Description:    description,
		Date:           date,
		NotificationID: handle,
	}

	s.mu.Lock()
	s.joys = append(s.joys, joy)
	sortJoys(s.joys)
	s.mu.Unlock()

	s.persist()
	return joy, nil
}

// UpdatePlannedJoy rewrites a planned joy and reschedules its reminder.
// An unknown id is a silent no-op.
func (s *Store) UpdatePlannedJoy(id, title string, description *string, date time.Time) error {
	s.mu.Lock()
	idx := s.joyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("store: update for unknown planned joy %s ignored", id)
		return nil
	}
	oldHandle := s.joys[idx].NotificationID
	s.mu.Unlock()

	handle, err := s.notifier.Reschedule(oldHandle, id, title, date)
	if err != nil {
		log.Printf("store: reminder rescheduling failed for %s: %v", id, err)
		handle = nil
	}

	s.mu.Lock()
	// Re-check under lock; the joy may have been deleted meanwhile.
	idx = s.joyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.joys[idx].Title = title
	s.joys[idx].Description = description
	s.joys[idx].Date = date
	s.joys[idx].NotificationID = handle
	sortJoys(s.joys)
	s.mu.Unlock()

	s.persist()
	return nil
}

// DeletePlannedJoy removes a planned joy and cancels its reminder if one
// is active. An unknown id is a silent no-op.
func (s *Store) DeletePlannedJoy(id string) error {
	s.mu.Lock()
	idx := s.joyIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("store: delete for unknown planned joy %s ignored", id)
		return nil
	}
	handle := s.joys[idx].NotificationID
	s.joys = append(s.joys[:idx], s.joys[idx+1:]...)
	s.mu.Unlock()

	if handle != nil {
		if err := s.notifier.Cancel(*handle); err != nil {
			log.Printf("store: reminder cancel failed for %s: %v", id, err)
		}
	}

	s.persist()
	return nil
}

// SetCustomCravings replaces the craving selection set. Bounds are
// enforced before any state change.
func (s *Store) SetCustomCravings(cravings []models.Category) error {
	if len(cravings) < MinSelection || len(cravings) > MaxSelection {
		return fmt.Errorf("%w: need between %d and %d cravings, got %d", ErrInvalidSelection, MinSelection, MaxSelection, len(cravings))
	}
	for _, c := range cravings {
		if err := validateCategory(c); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.customCravings = append([]models.Category(nil), cravings...)
	s.mu.Unlock()

	s.persist()
	return nil
}

// SetCustomEmotions replaces the emotion selection set.
func (s *Store) SetCustomEmotions(emotions []string) error {
	if len(emotions) < MinSelection || len(emotions) > MaxSelection {
		return fmt.Errorf("%w: need between %d and %d emotions, got %d", ErrInvalidSelection, MinSelection, MaxSelection, len(emotions))
	}
	for _, e := range emotions {
		if e == "" {
			return fmt.Errorf("%w: empty emotion", ErrInvalidSelection)
		}
	}

	s.mu.Lock()
	s.customEmotions = append([]string(nil), emotions...)
	s.mu.Unlock()

	s.persist()
	return nil
}

// --- Read access ---

// WillpowerPoints returns the running total. The invariant that it equals
// the sum of points over the surviving log set is maintained incrementally
// by the mutations above and never recomputed on load.
func (s *Store) WillpowerPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// Logs returns a copy of the log collection, newest first.
func (s *Store) Logs() []models.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Log(nil), s.logs...)
}

// PlannedJoys returns a copy of the planned joys, ascending by date.
func (s *Store) PlannedJoys() []models.PlannedJoy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PlannedJoy(nil), s.joys...)
}

func (s *Store) CustomCravings() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.customCravings...)
}

func (s *Store) CustomEmotions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.customEmotions...)
}

// SyncStatus reports the coordinator's isSyncing/lastSyncedAt pair.
func (s *Store) SyncStatus() cloudsync.Status {
	return s.syncer.Status()
}

// ForceSync re-runs the write-through for the current state without any
// mutation, for recovering cloud durability after offline sessions.
func (s *Store) ForceSync() {
	s.persist()
}

// --- Derived views ---

func (s *Store) AwarenessCount() int { return stats.AwarenessCount(s.Logs()) }
func (s *Store) ResistedCount() int  { return stats.ResistedCount(s.Logs()) }
func (s *Store) ResistanceRate() int { return stats.ResistanceRate(s.Logs()) }
func (s *Store) LongestStreak() int  { return stats.LongestStreak(s.Logs()) }

func (s *Store) CurrentStreak() int {
	return stats.CurrentStreak(s.Logs(), s.now())
}

func (s *Store) TreeLevel() stats.TreeLevel {
	return stats.LevelFor(s.WillpowerPoints())
}

func (s *Store) ChartDataForPeriod(days int) []stats.DayBucket {
	return stats.ChartDataForPeriod(s.Logs(), days, s.now())
}

func (s *Store) Past7DaysStats() stats.WeekStats {
	return stats.Past7DaysStats(s.Logs(), s.now())
}

func (s *Store) Insights() []insights.Insight {
	return insights.Generate(s.Logs())
}

func (s *Store) Badges() []badges.Badge {
	return badges.Evaluate(s.Logs())
}

// --- internals ---

// persist serializes the entire current state, writes it through to local
// storage, and enqueues the remote write. Local failures are logged and
// swallowed: the session keeps running on in-memory state.
func (s *Store) persist() {
	s.mu.Lock()
	snap := snapshot.Capture(s.points, s.logs, s.joys, s.customCravings, s.customEmotions)
	s.mu.Unlock()

	encoded, err := snap.Encode()
	if err != nil {
		log.Printf("store: snapshot serialization failed: %v", err)
		return
	}
	if err := s.local.Set(snapshot.StorageKey, encoded); err != nil {
		log.Printf("store: local write failed: %v", err)
	}

	s.syncer.Push(snap)
}

func (s *Store) logIndex(id string) int {
	for i, l := range s.logs {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) joyIndex(id string) int {
	for i, j := range s.joys {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// uniqueLogID derives a creation-time id, bumping by a millisecond when
// two logs land in the same instant. Caller holds s.mu.
func (s *Store) uniqueLogID() string {
	t := s.now()
	for {
		id := models.NewLogID(t)
		if s.logIndex(id) < 0 {
			return id
		}
		t = t.Add(time.Millisecond)
	}
}

func validateCategory(c models.Category) error {
	if c == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidSelection)
	}
	if utf8.RuneCountInString(string(c)) > MaxLabelLen {
		return fmt.Errorf("%w: category %q exceeds %d characters", ErrInvalidSelection, c, MaxLabelLen)
	}
	return nil
}

func sortJoys(joys []models.PlannedJoy) {
	sort.Slice(joys, func(i, j int) bool { return joys[i].Date.Before(joys[j].Date) })
}

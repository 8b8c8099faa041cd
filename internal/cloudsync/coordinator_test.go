package cloudsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aditiintechk/CraveCount/internal/snapshot"
	"github.com/aditiintechk/CraveCount/internal/storage"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Init() error  { return nil }
func (m *memStore) Close() error { return nil }

func (m *memStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) GetPath() string { return ":memory:" }

type fakeRemote struct {
	mu     sync.Mutex
	docs   map[string]snapshot.Document
	sets   int
	setErr error
	subFn  func(snapshot.Document)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string]snapshot.Document)}
}

func (f *fakeRemote) Get(ctx context.Context, userID string) (snapshot.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[userID]
	if !ok {
		return snapshot.Document{}, ErrNoDocument
	}
	return doc, nil
}

func (f *fakeRemote) Set(ctx context.Context, userID string, doc snapshot.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.docs[userID] = doc
	return nil
}

func (f *fakeRemote) Subscribe(ctx context.Context, userID string, fn func(snapshot.Document)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subFn = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subFn = nil
	}, nil
}

func (f *fakeRemote) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func (f *fakeRemote) docFor(userID string) (snapshot.Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[userID]
	return doc, ok
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBootstrapReusesStoredIdentity(t *testing.T) {
	local := newMemStore()
	if err := local.Set(identityKey, "stored-user"); err != nil {
		t.Fatal(err)
	}
	c := New(local, newFakeRemote(), NewFileIdentity(local))
	defer c.Close()

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := c.UserID(); got != "stored-user" {
		t.Errorf("UserID = %q, want stored-user", got)
	}
}

func TestBootstrapCreatesIdentityWhenMissing(t *testing.T) {
	local := newMemStore()
	c := New(local, newFakeRemote(), NewFileIdentity(local))
	defer c.Close()

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	id := c.UserID()
	if id == "" {
		t.Fatal("Bootstrap left UserID empty")
	}

	persisted, err := local.Get(identityKey)
	if err != nil || persisted != id {
		t.Errorf("identity not persisted: got %q, %v", persisted, err)
	}
}

func TestLoadPrefersRemote(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()

	// Local copy is stale; remote should win.
	stale := snapshot.Snapshot{WillpowerPoints: 30}
	encoded, err := stale.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := local.Set(snapshot.StorageKey, encoded); err != nil {
		t.Fatal(err)
	}
	syncedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	remote.docs["stored-user"] = snapshot.Document{
		Snapshot:     snapshot.Snapshot{WillpowerPoints: 200},
		LastSyncedAt: syncedAt,
	}

	if err := local.Set(identityKey, "stored-user"); err != nil {
		t.Fatal(err)
	}
	c := New(local, remote, NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.WillpowerPoints != 200 {
		t.Errorf("loaded points = %d, want remote's 200", snap.WillpowerPoints)
	}

	// The remote document was mirrored into local storage.
	raw, err := local.Get(snapshot.StorageKey)
	if err != nil {
		t.Fatalf("local mirror missing: %v", err)
	}
	mirrored, err := snapshot.Decode(raw)
	if err != nil {
		t.Fatalf("local mirror malformed: %v", err)
	}
	if mirrored.WillpowerPoints != 200 {
		t.Errorf("mirrored points = %d, want 200", mirrored.WillpowerPoints)
	}

	st := c.Status()
	if st.LastSyncedAt == nil || st.LastSyncedAt.UnixMilli() != syncedAt {
		t.Errorf("LastSyncedAt = %v, want %d", st.LastSyncedAt, syncedAt)
	}
}

func TestLoadPromotesLocalWhenRemoteEmpty(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()

	existing := snapshot.Snapshot{WillpowerPoints: 120}
	encoded, err := existing.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := local.Set(snapshot.StorageKey, encoded); err != nil {
		t.Fatal(err)
	}

	c := New(local, remote, NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.WillpowerPoints != 120 {
		t.Errorf("loaded points = %d, want local's 120", snap.WillpowerPoints)
	}

	// The local copy is promoted with exactly one remote write.
	waitFor(t, "promotion write", func() bool { return remote.setCount() == 1 })
	doc, ok := remote.docFor(c.UserID())
	if !ok {
		t.Fatal("no remote document after promotion")
	}
	if doc.WillpowerPoints != 120 {
		t.Errorf("promoted points = %d, want 120", doc.WillpowerPoints)
	}
	if doc.LastSyncedAt <= 0 {
		t.Errorf("promoted document missing sync stamp: %d", doc.LastSyncedAt)
	}
}

func TestLoadDefaultsWhenNothingStored(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()
	c := New(local, remote, NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.WillpowerPoints != 0 || len(snap.Logs) != 0 || len(snap.PlannedJoys) != 0 {
		t.Errorf("expected empty defaults, got %+v", snap)
	}
	if remote.setCount() != 0 {
		t.Errorf("empty defaults should not be promoted, saw %d writes", remote.setCount())
	}
}

func TestLoadFallsBackWhenLocalMalformed(t *testing.T) {
	local := newMemStore()
	if err := local.Set(snapshot.StorageKey, "{corrupt"); err != nil {
		t.Fatal(err)
	}
	c := New(local, newFakeRemote(), NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.WillpowerPoints != 0 {
		t.Errorf("malformed local data should yield defaults, got %d points", snap.WillpowerPoints)
	}
}

func TestPushLastWriteWins(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()
	c := New(local, remote, NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	for points := 10; points <= 100; points += 10 {
		c.Push(snapshot.Snapshot{WillpowerPoints: points})
	}

	waitFor(t, "final snapshot to land", func() bool {
		doc, ok := remote.docFor(c.UserID())
		return ok && doc.WillpowerPoints == 100
	})
	if remote.setCount() > 10 {
		t.Errorf("%d writes for 10 pushes; superseded snapshots must not add writes", remote.setCount())
	}
}

func TestFailedWriteLeavesSyncTimeUnset(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()
	remote.setErr = errors.New("transport down")
	c := New(local, remote, NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	c.Push(snapshot.Snapshot{WillpowerPoints: 10})
	waitFor(t, "write attempt", func() bool { return remote.setCount() >= 1 })
	waitFor(t, "syncing to settle", func() bool { return !c.Status().IsSyncing })

	if st := c.Status(); st.LastSyncedAt != nil {
		t.Errorf("LastSyncedAt = %v after a failed write, want nil", st.LastSyncedAt)
	}
}

func TestCloseFlushesPendingSnapshot(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()
	c := New(local, remote, NewFileIdentity(local))
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	c.Push(snapshot.Snapshot{WillpowerPoints: 70})
	c.Close()

	doc, ok := remote.docFor(c.UserID())
	if !ok {
		t.Fatal("pending snapshot lost on Close")
	}
	if doc.WillpowerPoints != 70 {
		t.Errorf("flushed points = %d, want 70", doc.WillpowerPoints)
	}
}

func TestWatchDeliversRemoteDocuments(t *testing.T) {
	local := newMemStore()
	remote := newFakeRemote()
	c := New(local, remote, NewFileIdentity(local))
	defer c.Close()
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	var mu sync.Mutex
	var received []snapshot.Snapshot
	cancel, err := c.Watch(context.Background(), func(s snapshot.Snapshot) {
		mu.Lock()
		received = append(received, s)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer cancel()

	remote.mu.Lock()
	fn := remote.subFn
	remote.mu.Unlock()
	if fn == nil {
		t.Fatal("Watch did not subscribe")
	}
	fn(snapshot.Document{Snapshot: snapshot.Snapshot{WillpowerPoints: 90}})

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0].WillpowerPoints != 90 {
		t.Errorf("received %+v, want one snapshot with 90 points", received)
	}
}

func TestFileIdentityStableAcrossSessions(t *testing.T) {
	local := newMemStore()
	first := NewFileIdentity(local)

	if _, err := first.Current(context.Background()); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("Current on fresh store: err = %v, want ErrNoIdentity", err)
	}

	id, err := first.SignInAnonymously(context.Background())
	if err != nil {
		t.Fatalf("SignInAnonymously: %v", err)
	}

	second := NewFileIdentity(local)
	got, err := second.Current(context.Background())
	if err != nil {
		t.Fatalf("Current after sign-in: %v", err)
	}
	if got != id {
		t.Errorf("identity changed across sessions: %q vs %q", got, id)
	}
}

func TestFileIdentityOnChange(t *testing.T) {
	local := newMemStore()
	ident := NewFileIdentity(local)

	var notified string
	unsubscribe := ident.OnChange(func(id string) { notified = id })

	id, err := ident.SignInAnonymously(context.Background())
	if err != nil {
		t.Fatalf("SignInAnonymously: %v", err)
	}
	if notified != id {
		t.Errorf("listener saw %q, want %q", notified, id)
	}

	unsubscribe()
	notified = ""
	if _, err := ident.SignInAnonymously(context.Background()); err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if notified != "" {
		t.Error("listener fired after unsubscribe")
	}
}

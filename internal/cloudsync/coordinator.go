// Package cloudsync reconciles local state with the remote document store.
//
// Session state machine: Uninitialized → AuthPending → Loading → Idle ⇄
// Syncing. Bootstrap establishes an anonymous identity, Load decides which
// copy of the data wins on startup, and Push runs the write-through behind
// every store mutation. Failures on the write path silently return to
// Idle without touching lastSyncedAt; the next mutation's write-through is
// the implicit retry.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aditiintechk/CraveCount/internal/snapshot"
	"github.com/aditiintechk/CraveCount/internal/storage"
)

const (
	// authTimeout bounds the wait for an existing identity before falling
	// back to a fresh anonymous sign-in.
	authTimeout = 5 * time.Second
	// writeTimeout bounds a single remote write-through.
	writeTimeout = 10 * time.Second
)

// Status is the observable sync state: whether a remote write is in
// flight, and when the last one succeeded (nil if never).
type Status struct {
	IsSyncing    bool
	LastSyncedAt *time.Time
}

// Coordinator owns the identity, the load-on-start merge policy, and a
// single-flight write-through queue. Writes are serialized per identity so
// the underlying transport cannot reorder superseding snapshots; a newer
// snapshot pushed while one is pending simply replaces it.
type Coordinator struct {
	local    storage.Provider
	remote   Remote
	identity Identity

	mu           sync.Mutex
	userID       string
	syncing      bool
	lastSyncedAt *time.Time

	queue chan snapshot.Snapshot
	done  chan struct{}
	wg    sync.WaitGroup
}

func New(local storage.Provider, remote Remote, identity Identity) *Coordinator {
	c := &Coordinator{
		local:    local,
		remote:   remote,
		identity: identity,
		queue:    make(chan snapshot.Snapshot, 1),
		done:     make(chan struct{}),
	}
	c.wg.Add(1)
	go c.worker()
	return c
}

// Bootstrap obtains the anonymous identity, waiting a few seconds for an
// existing one before requesting a fresh identity rather than blocking
// indefinitely.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	id, err := c.identity.Current(waitCtx)
	if err != nil {
		if !errors.Is(err, ErrNoIdentity) {
			log.Printf("cloudsync: identity lookup failed, creating a fresh one: %v", err)
		}
		id, err = c.identity.SignInAnonymously(ctx)
		if err != nil {
			return fmt.Errorf("failed to establish identity: %w", err)
		}
	}

	c.mu.Lock()
	c.userID = id
	c.mu.Unlock()
	return nil
}

// UserID returns the identity established by Bootstrap.
func (c *Coordinator) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Load runs the startup merge policy and returns the winning snapshot:
//
//   - remote document exists: remote is authoritative; it is mirrored into
//     local storage as a cache.
//   - no remote, local exists: local wins and is promoted to remote via a
//     queued write-through.
//   - neither: empty defaults.
//
// Load never fails the session: fetch and parse errors degrade to the next
// fallback tier.
func (c *Coordinator) Load(ctx context.Context) (snapshot.Snapshot, error) {
	doc, err := c.remote.Get(ctx, c.UserID())
	switch {
	case err == nil:
		if doc.LastSyncedAt > 0 {
			t := time.UnixMilli(doc.LastSyncedAt)
			c.mu.Lock()
			c.lastSyncedAt = &t
			c.mu.Unlock()
		}
		if encoded, encErr := doc.Snapshot.Encode(); encErr == nil {
			if setErr := c.local.Set(snapshot.StorageKey, encoded); setErr != nil {
				log.Printf("cloudsync: failed to mirror remote data locally: %v", setErr)
			}
		}
		return doc.Snapshot, nil
	case errors.Is(err, ErrNoDocument):
		// New user remotely; fall through to local.
	default:
		log.Printf("cloudsync: remote load failed, falling back to local: %v", err)
	}

	raw, err := c.local.Get(snapshot.StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cloudsync: local load failed, starting from defaults: %v", err)
		}
		return snapshot.Snapshot{}, nil
	}

	snap, err := snapshot.Decode(raw)
	if err != nil {
		log.Printf("cloudsync: local data malformed, starting from defaults: %v", err)
		return snapshot.Snapshot{}, nil
	}

	// Local data with no cloud copy: promote it.
	c.Push(snap)
	return snap, nil
}

// Push enqueues a snapshot for remote write-through. It never blocks the
// caller: if a write is already pending, the newer snapshot replaces it,
// which is correct under last-writer-wins.
func (c *Coordinator) Push(snap snapshot.Snapshot) {
	for {
		select {
		case c.queue <- snap:
			return
		default:
			// Drop the superseded pending snapshot and retry.
			select {
			case <-c.queue:
			default:
			}
		}
	}
}

// Watch subscribes to documents written by other sessions for this
// identity. The callback runs on the transport's goroutine.
func (c *Coordinator) Watch(ctx context.Context, fn func(snapshot.Snapshot)) (func(), error) {
	return c.remote.Subscribe(ctx, c.UserID(), func(doc snapshot.Document) {
		fn(doc.Snapshot)
	})
}

// Status reports whether a write-through is in flight and the time of the
// last successful one.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{IsSyncing: c.syncing, LastSyncedAt: c.lastSyncedAt}
}

// Close stops the write-through worker. A snapshot still queued is given
// one final write attempt so a quick mutate-and-exit is not lost.
func (c *Coordinator) Close() {
	close(c.done)
	c.wg.Wait()
}

func (c *Coordinator) worker() {
	defer c.wg.Done()
	for {
		select {
		case snap := <-c.queue:
			c.write(snap)
		case <-c.done:
			select {
			case snap := <-c.queue:
				c.write(snap)
			default:
			}
			return
		}
	}
}

func (c *Coordinator) write(snap snapshot.Snapshot) {
	c.mu.Lock()
	c.syncing = true
	userID := c.userID
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	doc := snapshot.Document{Snapshot: snap, LastSyncedAt: time.Now().UnixMilli()}
	err := c.remote.Set(ctx, userID, doc)

	c.mu.Lock()
	c.syncing = false
	if err == nil {
		t := time.UnixMilli(doc.LastSyncedAt)
		c.lastSyncedAt = &t
	}
	c.mu.Unlock()

	if err != nil && !errors.Is(err, ErrUnavailable) {
		log.Printf("cloudsync: write-through failed for %s: %v", userID, err)
	}
}

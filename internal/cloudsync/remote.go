package cloudsync

import (
	"context"
	"errors"

	"github.com/aditiintechk/CraveCount/internal/snapshot"
)

// ErrNoDocument is returned by Remote.Get when the identity has no stored
// document yet (a new user).
var ErrNoDocument = errors.New("no remote document")

// ErrUnavailable is returned when no remote store is configured.
var ErrUnavailable = errors.New("remote store unavailable")

// Remote is the cloud document store, keyed by opaque user identity.
// Writes are last-writer-wins at whole-document granularity: there is no
// per-field merge and no conflict detection, which is acceptable only
// under the single-active-writer-per-identity assumption. Multi-device
// support would need version-stamped conflict resolution here.
type Remote interface {
	Get(ctx context.Context, userID string) (snapshot.Document, error)
	Set(ctx context.Context, userID string, doc snapshot.Document) error
	// Subscribe delivers documents written by other sessions. The returned
	// function cancels the subscription.
	Subscribe(ctx context.Context, userID string, fn func(snapshot.Document)) (func(), error)
}

// Disabled is the Remote used when no cloud backend is configured. Loads
// see a new user; writes fail and are swallowed upstream, leaving the
// local store as the only durable copy.
type Disabled struct{}

func (Disabled) Get(ctx context.Context, userID string) (snapshot.Document, error) {
	return snapshot.Document{}, ErrNoDocument
}

func (Disabled) Set(ctx context.Context, userID string, doc snapshot.Document) error {
	return ErrUnavailable
}

func (Disabled) Subscribe(ctx context.Context, userID string, fn func(snapshot.Document)) (func(), error) {
	return nil, ErrUnavailable
}

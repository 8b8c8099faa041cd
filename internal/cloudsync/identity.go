package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/aditiintechk/CraveCount/internal/storage"
)

// ErrNoIdentity is returned by Current when no identity has been
// established on this device.
var ErrNoIdentity = errors.New("no identity")

// Identity provides the opaque anonymous user id that keys the remote
// document. Identities are stable strings; the core never inspects them.
type Identity interface {
	Current(ctx context.Context) (string, error)
	SignInAnonymously(ctx context.Context) (string, error)
	OnChange(fn func(id string)) (unsubscribe func())
}

// identityKey is the local blob-store key holding the persisted user id.
const identityKey = "crave_count_user_id"

// FileIdentity persists a generated anonymous id in the local blob store,
// so the same device keeps the same identity across sessions.
type FileIdentity struct {
	local storage.Provider

	mu        sync.Mutex
	listeners map[int]func(string)
	nextID    int
}

func NewFileIdentity(local storage.Provider) *FileIdentity {
	return &FileIdentity{
		local:     local,
		listeners: make(map[int]func(string)),
	}
}

func (f *FileIdentity) Current(ctx context.Context) (string, error) {
	id, err := f.local.Get(identityKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNoIdentity
		}
		return "", fmt.Errorf("failed to read identity: %w", err)
	}
	if id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}

func (f *FileIdentity) SignInAnonymously(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if err := f.local.Set(identityKey, id); err != nil {
		return "", fmt.Errorf("failed to persist identity: %w", err)
	}

	f.mu.Lock()
	listeners := make([]func(string), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(id)
	}

	return id, nil
}

func (f *FileIdentity) OnChange(fn func(id string)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.nextID
	f.nextID++
	f.listeners[key] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, key)
	}
}

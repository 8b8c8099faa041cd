package storage

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Provider is a string-keyed durable blob store. The core writes one JSON
// document per key; the provider never inspects the value.
//
// Providers assume single-process access: there is no cross-process
// locking, and sharing one store path between processes may corrupt data.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Blobs
	Get(key string) (string, error)
	Set(key, value string) error

	// Utils
	GetPath() string
}

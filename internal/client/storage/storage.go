// Package storage is the client's durable key/value store. It replaces the
// browser localStorage the AdConnect web client used: each key holds one
// JSON document (accounts under "users", the session under "auth").
package storage

import "context"

// Well-known keys.
const (
	KeyUsers         = "users"
	KeyAuth          = "auth"
	KeyListings      = "listings"
	KeySessionSecret = "session_secret"
)

// Store is a byte-oriented key/value store. Get returns (nil, nil) for an
// absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// Update atomically replaces the value of key with the result of fn.
	// fn receives nil when the key is absent. If fn fails nothing is written.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

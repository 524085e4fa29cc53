// Package store holds the key-value state the ticket engine operates on.
// Records are JSON-encoded under composite string keys (event:{id},
// ticket:{event_id}:{holder}).
package store

import "context"

// Store is the engine's state backend. The engine is its only writer.
//
// No method returns a recoverable error: a backend that cannot complete
// an operation (out of space, corruption, lost connection) panics, which
// is a host failure, not a per-command condition. Absence is reported
// with an explicit bool, never with a sentinel field in the value.
type Store interface {
	// Get returns the value at key and whether the key is present.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Put inserts or overwrites, with no existence check.
	Put(ctx context.Context, key string, value []byte)
	// Contains reports key presence without reading the value.
	Contains(ctx context.Context, key string) bool
	// Swap exchanges the values (and presence) at two keys: after the
	// call each key holds what the other held, a vacant side becoming
	// vacant on the other key.
	Swap(ctx context.Context, keyA, keyB string)
	// KeysWithPrefix enumerates the stored keys under a prefix in
	// store-defined order.
	KeysWithPrefix(ctx context.Context, prefix string) []string
}

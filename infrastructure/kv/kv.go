// Package kv is the persistence port used by the template store: a flat
// string key-value space holding JSON documents.
package kv

import "context"

// Store gets, sets and removes string values by key. Get reports ok=false
// for a missing key instead of an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

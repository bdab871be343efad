package kv

import (
	"context"
	"fmt"

	"odinpos/infrastructure/sqlite"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Open builds the store for backend. The returned close func releases any
// connection the store owns; it never closes db.
func Open(ctx context.Context, backend string, db *sqlite.DB, redisURL, redisPrefix string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case BackendSQLite:
		if db == nil {
			return nil, nil, fmt.Errorf("kv backend %s needs a database", backend)
		}
		return NewSQLiteStore(db), noop, nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, redisURL, redisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	}
	return nil, nil, fmt.Errorf("unsupported kv backend %q", backend)
}

package kv

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"odinpos/infrastructure/sqlite"
)

func openKVTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kv-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

// fakeRedis answers the three commands RedisStore issues from a map.
type fakeRedis struct {
	values map[string]string
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "templates", `[{"id":"a"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "templates", `[{"id":"b"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := store.Get(ctx, "templates")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `[{"id":"b"}]` {
		t.Fatalf("expected overwritten value, got %q", v)
	}
	if err := store.Remove(ctx, "templates"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "templates"); ok {
		t.Fatalf("expected key removed")
	}
	if err := store.Remove(ctx, "templates"); err != nil {
		t.Fatalf("removing a missing key must not fail: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, NewSQLiteStore(openKVTestDB(t)))
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	fake := &fakeRedis{values: map[string]string{}}
	store := &RedisStore{client: fake, prefix: "odin"}
	exerciseStore(t, store)

	if err := store.Set(context.Background(), "overrides", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.values["odin:overrides"]; !ok {
		t.Fatalf("expected namespaced key, have %v", fake.values)
	}
}

func TestNewRedisStoreRequiresURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), " ", "odin"); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, BackendMemory, nil, "", "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close memory: %v", err)
	}

	s, _, err = Open(ctx, BackendSQLite, openKVTestDB(t), "", "")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", s)
	}

	if _, _, err := Open(ctx, BackendSQLite, nil, "", ""); err == nil {
		t.Fatalf("expected sqlite backend without db to fail")
	}
	if _, _, err := Open(ctx, BackendRedis, nil, "", "odin"); err == nil {
		t.Fatalf("expected redis backend without url to fail")
	}
	if _, _, err := Open(ctx, "etcd", nil, "", ""); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"odinpos/infrastructure/config"
	"odinpos/infrastructure/kv"
	"odinpos/infrastructure/printtemplate"
	"odinpos/infrastructure/sqlite"
)

func main() {
	reset := flag.Bool("reset", false, "discard stored templates and overrides before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.SQLite.MigrationsDir == "" {
		dir, err := resolveMigrationsDir()
		if err != nil {
			log.Fatalf("resolve migrations dir: %v", err)
		}
		cfg.SQLite.MigrationsDir = dir
	}

	n, err := seed(context.Background(), cfg, *reset)
	if err != nil {
		log.Fatalf("seed templates: %v", err)
	}
	fmt.Printf("%d templates ready (backend=%s)\n", n, cfg.KV.Backend)
}

func seed(ctx context.Context, cfg *config.Config, reset bool) (n int, err error) {
	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if err := sqlite.ApplyMigrations(ctx, db, cfg.SQLite.MigrationsDir); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	backing, closeKV, err := kv.Open(ctx, cfg.KV.Backend, db, cfg.Redis.URL, cfg.Redis.Prefix)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, closeKV()) }()

	store := printtemplate.NewStore(backing)
	if reset {
		if err := store.ResetAll(ctx); err != nil {
			return 0, err
		}
	}
	all, err := store.ListTemplates(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		filepath.Join("infrastructure", "sqlite", "migrations"),
		filepath.Join("..", "..", "infrastructure", "sqlite", "migrations"),
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations"))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)
		if info, err := os.Stat(absPath); err == nil && info.IsDir() {
			return absPath, nil
		}
	}
	return "", fmt.Errorf("migrations dir not found; tried: %s", strings.Join(tried, ", "))
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"odinpos/frontend/templates"
	"odinpos/infrastructure/audit"
	"odinpos/infrastructure/cache"
	"odinpos/infrastructure/config"
	httpserver "odinpos/infrastructure/http"
	"odinpos/infrastructure/kv"
	"odinpos/infrastructure/metrics"
	"odinpos/infrastructure/printtemplate"
	"odinpos/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.SlogLevel()})))

	if err := run(cfg); err != nil {
		slog.Error("odinpos stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) (err error) {
	ctx := context.Background()

	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if err := sqlite.ApplyMigrations(ctx, db, cfg.SQLite.MigrationsDir); err != nil {
		return err
	}

	backing, closeKV, err := kv.Open(ctx, cfg.KV.Backend, db, cfg.Redis.URL, cfg.Redis.Prefix)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeKV()) }()

	store := printtemplate.NewStore(cache.NewKVCache(backing))
	if cfg.App.SeedOnStart {
		all, err := store.ListTemplates(ctx)
		if err != nil {
			return err
		}
		slog.Info("templates ready", slog.Int("count", len(all)), slog.String("kv_backend", cfg.KV.Backend))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := templates.Deps{
		Store:    store,
		Sessions: cache.NewEditorSessionCache(),
		Audit:    audit.NewService(),
		DB:       db,
		Metrics:  metrics.New(reg),
	}

	httpserver.ShutdownTimeout = cfg.App.ShutdownTimeout
	server := httpserver.NewServer(cfg.App.Addr, deps, reg)
	if err := server.Start(); err != nil {
		return err
	}
	slog.Info("odinpos listening", slog.String("addr", cfg.App.Addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown error", slog.Any("err", err))
	}
	return nil
}

package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name TEXT PRIMARY KEY,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// ApplyMigrations executes *.sql files in lexical order, skipping files
// already recorded in schema_migrations.
//
// If migrationsDir is empty, embedded migrations are applied.
func ApplyMigrations(ctx context.Context, db *DB, migrationsDir string) error {
	if strings.TrimSpace(migrationsDir) == "" {
		return ApplyEmbeddedMigrations(ctx, db)
	}
	return applyMigrationsFromFS(ctx, db, os.DirFS(migrationsDir), ".")
}

// ApplyEmbeddedMigrations executes the migrations compiled into the binary.
func ApplyEmbeddedMigrations(ctx context.Context, db *DB) error {
	return applyMigrationsFromFS(ctx, db, embeddedMigrations, "migrations")
}

func applyMigrationsFromFS(ctx context.Context, db *DB, migrationsFS fs.FS, root string) error {
	entries, err := fs.ReadDir(migrationsFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".sql" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.WriteSQL.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range files {
		if _, done := applied[name]; done {
			continue
		}
		sqlBytes, err := fs.ReadFile(migrationsFS, pathJoin(root, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applySingleMigration(ctx, db, name, sqlBytes); err != nil {
			return err
		}
	}
	return nil
}

func appliedMigrations(ctx context.Context, db *DB) (map[string]struct{}, error) {
	var names []string
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT name FROM schema_migrations`).Scan(ctx, &names)
	})
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out, nil
}

func applySingleMigration(ctx context.Context, db *DB, name string, sqlBytes []byte) error {
	sqlText := string(sqlBytes)
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlText); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

// pathJoin joins fs.FS paths, which always use forward slashes.
func pathJoin(root, name string) string {
	if root == "." || root == "" {
		return name
	}
	return root + "/" + name
}

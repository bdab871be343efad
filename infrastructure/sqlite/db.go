package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/multierr"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps split read/write Bun connections.
type DB struct {
	WriteSQL *sql.DB
	ReadSQL  *sql.DB
	W        *bun.DB
	R        *bun.DB
}

// OpenDB initializes sqlite handles for immediate writer tx and pooled reads.
func OpenDB(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	writeDSN := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", path)
	readDSN := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&mode=ro&_query_only=1", path)

	wsql, err := sql.Open("sqlite3", writeDSN)
	if err != nil {
		return nil, fmt.Errorf("open write db: %w", err)
	}
	wsql.SetMaxOpenConns(1)
	wsql.SetConnMaxLifetime(15 * time.Minute)

	// The writer creates the file so the read-only handle below can attach to it.
	if err := wsql.Ping(); err != nil {
		wsql.Close()
		return nil, fmt.Errorf("ping write db: %w", err)
	}

	rsql, err := sql.Open("sqlite3", readDSN)
	if err != nil {
		wsql.Close()
		return nil, fmt.Errorf("open read db: %w", err)
	}
	rsql.SetMaxOpenConns(8)
	rsql.SetConnMaxIdleTime(5 * time.Minute)
	rsql.SetConnMaxLifetime(15 * time.Minute)

	if err := rsql.Ping(); err != nil && strings.Contains(err.Error(), "unable to open database file") {
		rsql.Close()
		rsql, err = sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_query_only=1", path))
		if err != nil {
			wsql.Close()
			return nil, fmt.Errorf("open fallback read db: %w", err)
		}
	}

	if _, err := rsql.Exec("PRAGMA query_only = ON"); err != nil {
		return nil, multierr.Combine(fmt.Errorf("enable read query_only: %w", err), wsql.Close(), rsql.Close())
	}

	return &DB{
		WriteSQL: wsql,
		ReadSQL:  rsql,
		W:        bun.NewDB(wsql, sqlitedialect.New()),
		R:        bun.NewDB(rsql, sqlitedialect.New()),
	}, nil
}

// Close closes read and write handles and reports every failure.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}
	var err error
	if db.W != nil {
		err = multierr.Append(err, db.W.Close())
	}
	if db.R != nil {
		err = multierr.Append(err, db.R.Close())
	}
	return err
}

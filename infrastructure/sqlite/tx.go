package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var (
	ErrWriterClosed = errors.New("write db is not initialized")
	ErrReaderClosed = errors.New("read db is not initialized")
)

// WithWriteTx runs fn in an explicit write transaction. The transaction
// is rolled back when fn returns an error.
func (db *DB) WithWriteTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil || db.W == nil {
		return ErrWriterClosed
	}
	return db.W.RunInTx(ctx, &sql.TxOptions{}, fn)
}

// WithReadTx runs fn in a read-only transaction on the pooled reader.
func (db *DB) WithReadTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil || db.R == nil {
		return ErrReaderClosed
	}
	return db.R.RunInTx(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

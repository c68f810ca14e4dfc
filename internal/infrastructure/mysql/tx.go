package mysql

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories take it so the same method runs inside or outside a
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is an in-flight transaction. *sql.Tx satisfies it.
type Tx interface {
	DBTX
	Commit() error
	Rollback() error
}

// TxBeginner starts transactions. Services depend on this rather than
// *sql.DB so tests can substitute a fake.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// DB adapts *sql.DB to TxBeginner.
type DB struct {
	*sql.DB
}

func NewDB(db *sql.DB) DB {
	return DB{DB: db}
}

func (d DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return d.DB.BeginTx(ctx, opts)
}

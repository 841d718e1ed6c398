// Package store provides SQLite persistence for the translation schema:
// database setup, goose migrations, and hand-written queries over the
// ddt_fields, ddt_items, ddt_languages and ddt_translations tables.
//
// None of the insert queries have a bulk variant. Item and Translation rows
// are created one at a time so that every insert yields the generated
// primary key needed to create dependent rows; a bulk insert would bypass
// the cascade reactions in the service package.
package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the queries use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries exposes one method per SQL query. Lookups that match no row
// return sql.ErrNoRows.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to a database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

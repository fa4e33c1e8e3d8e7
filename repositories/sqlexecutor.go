package repositories

import (
	"context"
	"database/sql"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, letting every
// repository method run either standalone or inside a caller-managed
// transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

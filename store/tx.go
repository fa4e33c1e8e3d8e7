// Package store provides the single serializable-transaction helper
// every write path (C6, C7, C8) runs its work inside (spec §5).
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTransaction begins a serializable transaction, runs fn, and
// commits or rolls back based on fn's error — recovering and
// re-panicking on panic so the transaction is never left open. This is
// the teacher's withTransaction pattern generalized into a shared
// helper instead of being duplicated per service.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}

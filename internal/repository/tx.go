package repository

import (
	"context"
	"database/sql"
)

// TxRunner is the explicit unit-of-work used by the booking core.  It
// opens one transaction per call, runs fn inside it, and commits only
// when fn returns nil; any error (or panic) rolls everything back, so
// callers never observe partial state.
type TxRunner struct {
	DB *sql.DB
}

// NewTxRunner returns a TxRunner bound to the given database.
func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{DB: db} }

// RunTx executes fn within a single transaction.
func (r *TxRunner) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// TxObserver receives the outcome and duration of every transaction.
type TxObserver interface {
	ObserveTx(outcome string, elapsed time.Duration)
}

// Transaction outcomes reported to a TxObserver.
const (
	TxCommitted  = "commit"
	TxRolledBack = "rollback"
	TxFailed     = "error"
)

// Transactor runs units of work inside a single database transaction.
type Transactor struct {
	db       *sqlx.DB
	observer TxObserver
}

// NewTransactor builds a Transactor over db. observer may be nil.
func NewTransactor(db *sqlx.DB, observer TxObserver) *Transactor {
	return &Transactor{db: db, observer: observer}
}

// WithinTx executes fn with a context carrying an open transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Nested
// calls join the outer transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	start := time.Now()
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		t.observe(TxFailed, start)
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			t.observe(TxRolledBack, start)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.observe(TxFailed, start)
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		t.observe(TxRolledBack, start)
		return err
	}

	if err := tx.Commit(); err != nil {
		t.observe(TxFailed, start)
		return fmt.Errorf("commit tx: %w", err)
	}
	t.observe(TxCommitted, start)
	return nil
}

func (t *Transactor) observe(outcome string, start time.Time) {
	if t.observer != nil {
		t.observer.ObserveTx(outcome, time.Since(start))
	}
}

// TxFromContext returns the transaction opened by WithinTx, if any.
func TxFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// Conn returns the transaction carried by ctx or falls back to db.
func Conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

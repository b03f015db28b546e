package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/pgerrors"
)

const defaultSerializableAttempts = 3

var (
	// ErrBeginTx failed to open a transaction
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit failed to commit
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrSerialization serializable transaction kept failing after all re-runs
	ErrSerialization = errors.New("txmanager: serialization failure")

	// ErrTransient storage timeout or lost connection, safe to retry
	ErrTransient = errors.New("txmanager: transient storage error")
)

// TransactionManager runs callbacks inside a transaction carried by the context.
// Repositories pick the transaction up through dbmetrics.GetExecutor.
type TransactionManager struct {
	db          dbmetrics.TxBeginner
	maxAttempts int
}

type Option func(*TransactionManager)

// WithSerializableAttempts bounds how many times DoSerializable re-runs fn
func WithSerializableAttempts(n int) Option {
	return func(m *TransactionManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

func NewTransactionManager(db dbmetrics.TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{db: db, maxAttempts: defaultSerializableAttempts}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn in a READ COMMITTED transaction
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly runs fn in a read-only transaction
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// DoSerializable runs fn in a SERIALIZABLE transaction.
// Serialization failures and deadlocks re-run fn from scratch up to the configured attempts.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}
		if !pgerrors.IsSerializationFailure(err) {
			return err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %w", ErrSerialization, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// nested call joins the outer transaction
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return classify(fmt.Errorf("%w: %w", ErrBeginTx, err))
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return classify(fmt.Errorf("%w: %w", ErrCommit, err))
	}
	return nil
}

func classify(err error) error {
	if pgerrors.IsSerializationFailure(err) || errors.Is(err, ErrTransient) {
		return err
	}
	if pgerrors.IsTransient(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}

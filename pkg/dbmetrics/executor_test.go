package dbmetrics

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct{ DBExecutor }

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct{ DBExecutor }

func TestGetExecutor(t *testing.T) {
	db := &fakeDB{}
	tx := &fakeTx{}

	ctx := context.Background()
	assert.Same(t, db, GetExecutor(ctx, db))
	assert.False(t, IsInTransaction(ctx))

	txCtx := WithTx(ctx, tx)
	assert.Same(t, tx, GetExecutor(txCtx, db))
	assert.True(t, IsInTransaction(txCtx))
}

func TestOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM bookings":           "select",
		"  insert into bookings VALUES ($1)": "insert",
		"UPDATE bookings SET status = $1":   "update",
		"DELETE FROM bookings":              "delete",
		"SELECT pg_advisory_xact_lock($1)":  "select",
		"commit":                            "commit",
		"VACUUM":                            "other",
		"":                                  "unknown",
	}

	for query, want := range tests {
		assert.Equal(t, want, operation(query), query)
	}
}

func TestObserve_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		observe(nil, "SELECT 1", time.Time{}, sql.ErrNoRows)
	})
}

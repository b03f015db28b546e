package pgerrors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert booking: %w", &pq.Error{Code: pq.ErrorCode(code)})
	}

	assert.True(t, IsExclusionViolation(wrap("23P01")))
	assert.True(t, IsUniqueViolation(wrap("23505")))
	assert.True(t, IsForeignKeyViolation(wrap("23503")))
	assert.True(t, IsSerializationFailure(wrap("40001")))
	assert.True(t, IsSerializationFailure(wrap("40P01")))
	assert.False(t, IsSerializationFailure(wrap("23P01")))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: true},
		{name: "bad conn", err: driver.ErrBadConn, want: true},
		{name: "connection failure class", err: &pq.Error{Code: "08006"}, want: true},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}, want: true},
		{name: "statement timeout", err: &pq.Error{Code: "57014"}, want: true},
		{name: "exclusion violation", err: &pq.Error{Code: "23P01"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

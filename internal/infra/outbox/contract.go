package outbox

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Sink delivers one event to the outside world
type Sink interface {
	Name() string
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Repository pending events storage.
// FetchUnpublished returns only events whose retry time has come.
type Repository interface {
	FetchUnpublished(ctx context.Context, limit uint64, maxAttempts int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, cause error, retryAt time.Time) error
}

// TransactionManager holds the row locks of one batch
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics relay counters
type Metrics interface {
	ObserveOutbox(sink, status string)
}

// Logger logging interface
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

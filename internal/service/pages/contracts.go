package pages

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// PageRepository page blocks storage
type PageRepository interface {
	ListBlocks(ctx context.Context, businessID int64) ([]domain.Block, error)
	ReplaceBlocks(ctx context.Context, businessID int64, blocks []domain.Block) error
	DeleteBlock(ctx context.Context, businessID, blockID int64) error
}

// TransactionManager runs the block replacement atomically
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccessGuard resolves businesses and checks ownership
type AccessGuard interface {
	Business(ctx context.Context, businessID int64) (*domain.Business, error)
	Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error)
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

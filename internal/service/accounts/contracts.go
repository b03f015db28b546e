package accounts

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// UserRepository users storage
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(userID int64, role string) (string, error)
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

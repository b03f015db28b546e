package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/accounts/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/auth"
)

const (
	tokenType = "Bearer"

	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

// Service registration, login and the current user
type Service struct {
	userRepo UserRepository
	tokens   TokenIssuer
	logger   Logger
}

func NewService(userRepo UserRepository, tokens TokenIssuer, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a business owner account and logs it in
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	s.logger.Info("Register: registering user email=%s", req.Email)

	// 1. Validate
	if err := validateRegistration(req); err != nil {
		s.logger.Warn("Register: validation failed: %v", err)
		return nil, err
	}

	// 2. Hash the password
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Register - hash password: %v", ErrInternal, err)
	}

	// 3. Save
	user, err := s.userRepo.Create(ctx, &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleOwner,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			v := domain.NewValidationError()
			v.Add("email", "has already been taken")
			return nil, v
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: successfully registered user id=%d", user.ID)
	return s.issue(user)
}

// Login checks the credentials and issues a token
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Login: unknown email=%s", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("Login: wrong password for user id=%d", user.ID)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: failed to check password for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Login - check password: %v", ErrInternal, err)
	}

	return s.issue(user)
}

// Me returns the account behind the token
func (s *Service) Me(ctx context.Context, actor domain.Actor) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Me: repository error for user id=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: Me - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainUser(user), nil
}

func (s *Service) issue(user *domain.User) (*models.TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("issue: failed to sign token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: sign token: %v", ErrInternal, err)
	}
	return &models.TokenResponse{
		Token:     token,
		TokenType: tokenType,
		User:      *models.FromDomainUser(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(req *models.RegisterRequest) error {
	v := domain.NewValidationError()

	n := utf8.RuneCountInString(req.Name)
	if n < domain.MinEmployeeNameLength || n > domain.MaxEmployeeNameLength {
		v.Add("name", fmt.Sprintf("must be between %d and %d characters",
			domain.MinEmployeeNameLength, domain.MaxEmployeeNameLength))
	}

	if len(req.Email) > domain.MaxCustomerEmailLength {
		v.Add("email", "is too long")
	} else if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		v.Add("email", "must be a valid email address")
	}

	if utf8.RuneCountInString(req.Password) < domain.MinPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", domain.MinPasswordLength))
	} else if len(req.Password) > maxPasswordBytes {
		v.Add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	return v.OrNil()
}

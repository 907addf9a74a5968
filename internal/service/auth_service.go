package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/averith/stocktrack/internal/domain"
)

// AuthService manages account signup and login. Passwords are stored as
// bcrypt hashes and never leave this service in plain form.
type AuthService struct {
	users  domain.UserStore
	logger *slog.Logger
}

// NewAuthService creates an AuthService with the given user store.
func NewAuthService(users domain.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// Signup registers a new account. It returns domain.ErrUserExists when the
// username is already taken.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password must not be empty", domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth_service: hash password: %w", err)
	}

	user := domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("auth_service: create user %s: %w", username, err)
	}

	s.logger.InfoContext(ctx, "auth_service: user registered",
		slog.String("username", username),
	)
	return nil
}

// Login verifies a username/password pair and returns the account. Unknown
// usernames and wrong passwords both map to domain.ErrInvalidCredentials so
// the response does not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("auth_service: load user %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "auth_service: login failed",
			slog.String("username", username),
		)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "auth_service: login succeeded",
		slog.String("username", username),
	)
	return user, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/auth"
	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/repo"
)

// MinPasswordLength is the shortest password register accepts.
const MinPasswordLength = 6

// TokenIssuer issues and verifies bearer tokens. *auth.TokenIssuer satisfies it.
type TokenIssuer interface {
	Issue(user domain.User) (access, refresh string, err error)
	Verify(token string, want auth.TokenType) (auth.Session, error)
}

// Registration is the input to AuthService.Register.
type Registration struct {
	Email    string
	Password string
	FullName string
	Phone    *string
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users  repo.UserRepo
	tokens TokenIssuer
	log    *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register creates an account and signs the new user in.
// Returns domain.ErrConflict when the email is already registered.
func (s *AuthService) Register(ctx context.Context, r Registration) (domain.TokenPair, error) {
	if err := validateRegistration(&r); err != nil {
		return domain.TokenPair{}, err
	}
	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        r.Email,
		FullName:     r.FullName,
		Phone:        r.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenPair{}, fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
		}
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return s.issue(user)
}

// Me returns the account of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	session, err := s.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w: account no longer exists", domain.ErrUnauthorized)
		}
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user domain.User) (domain.TokenPair, error) {
	access, refresh, err := s.tokens.Issue(user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.AuthService.issue: %w", err)
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// validateRegistration trims r in place and enforces the registration rules.
func validateRegistration(r *Registration) error {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)

	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	if len(r.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	if r.FullName == "" {
		return fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}
	if r.Phone != nil && strings.TrimSpace(*r.Phone) == "" {
		r.Phone = nil
	}
	return nil
}

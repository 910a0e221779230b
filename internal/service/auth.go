package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/midshelf/midshelf-server/internal/domain"
	apperrors "github.com/midshelf/midshelf-server/internal/errors"
	"github.com/midshelf/midshelf-server/internal/id"
	"github.com/midshelf/midshelf-server/internal/store"
	"github.com/midshelf/midshelf-server/internal/store/sqlite"
	"github.com/midshelf/midshelf-server/internal/validation"
)

// AuthService handles account registration, login, and session management.
type AuthService struct {
	store      *sqlite.Store
	validator  *validation.Validator
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st *sqlite.Store, v *validation.Validator, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = domain.DefaultSessionTTL
	}
	return &AuthService{
		store:      st,
		validator:  v,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register creates a new account and an initial session.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.Account, *domain.Session, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	accountID, err := s.store.CreateAccount(ctx, in.Username, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, nil, apperrors.Conflict("username is already taken")
		}
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("load account: %w", err)
	}

	session, err := s.newSession(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("account registered", "account_id", accountID, "username", in.Username)
	return account, session, nil
}

// Login authenticates credentials and opens a new session.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.Account, *domain.Session, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, nil, err
	}

	account, err := s.store.GetAccountByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperrors.InvalidCredentials("invalid username or password")
		}
		return nil, nil, fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Warn("failed login attempt", "username", in.Username)
		return nil, nil, apperrors.InvalidCredentials("invalid username or password")
	}

	now := time.Now()
	if err := s.store.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("could not record last login", "account_id", account.ID, "error", err)
	}
	account.LastLogin = &now

	session, err := s.newSession(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("login", "account_id", account.ID, "username", account.Username)
	return account, session, nil
}

// Logout terminates the session for the given token. Unknown tokens are
// not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.store.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to a live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}

	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired session")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		// Best effort cleanup; the expiry check already rejected it.
		_ = s.store.DeleteSession(ctx, token)
		return nil, apperrors.Unauthorized("invalid or expired session")
	}

	if err := s.store.TouchSession(ctx, session.Token, time.Now()); err != nil {
		s.logger.Warn("could not touch session", "error", err)
	}

	return session, nil
}

// Account loads an account by id.
func (s *AuthService) Account(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

// ResetData deletes every catalog row for the account: items, tags,
// categories, locations. The account itself, its settings, and its sessions
// survive.
func (s *AuthService) ResetData(ctx context.Context, accountID int64) error {
	if err := s.store.WipeAccount(ctx, accountID); err != nil {
		return fmt.Errorf("wipe account: %w", err)
	}
	s.logger.Info("account data reset", "account_id", accountID)
	return nil
}

// CleanupExpiredSessions removes sessions past their expiry. Intended to be
// called periodically from main.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	removed, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", "count", removed)
	}
	return nil
}

func (s *AuthService) newSession(ctx context.Context, accountID int64) (*domain.Session, error) {
	token, err := id.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("session token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		Token:      token,
		AccountID:  accountID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.sessionTTL),
		LastSeenAt: now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

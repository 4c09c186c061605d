package auth

import (
	"context"
	"errors"
	"fmt"

	"time"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/logger"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
	"github.com/vietcharge/vietcharge/internal/service/auth/tokenmanager"
)

type Config struct {
	// Hasher to use during login or password changes
	// Defaults to the PBKDF2 hasher
	Hasher PasswordHasher

	// Logger for the internal failure branches whose detail is never
	// returned to the caller
	// Defaults to a no-op logger
	Logger logger.Logger
}

// Result of a successful login
// ExpiresIn is the access token lifetime in seconds
type LoginResult struct {
	User      models.UserDTO
	Pair      models.TokenPair
	ExpiresIn int
}

// Result of a successful refresh; the user is intentionally not re-returned
type RefreshResult struct {
	Pair      models.TokenPair
	ExpiresIn int
}

// Service is the state machine over users and refresh token records.
// A record is LIVE until it is rotated, revoked or expires; all three
// are terminal.
type Service struct {
	token   *tokenmanager.TokenManager
	hasher  PasswordHasher
	storage repository.Storage
	logger  logger.Logger
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*Service, error) {
	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Service{
		token:   token,
		hasher:  hasher,
		storage: storage,
		logger:  log,
	}, nil
}

// Login verifies credentials and issues a fresh token pair.
// Every failure branch surfaces as the same generic error so callers
// can't probe which accounts exist; the real reason is only logged.
func (s *Service) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.logger.Debug("login rejected: unknown email", "email", email)
		return LoginResult{}, apperrors.ErrInvalidCredentials
	case err != nil:
		return LoginResult{}, fmt.Errorf("error while looking up user. Err: %w", err)
	}

	if !user.IsActive() {
		s.logger.Warn("login rejected: account disabled", "user_id", user.ID)
		return LoginResult{}, apperrors.ErrAccountDisabled
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.Debug("login rejected: password mismatch", "user_id", user.ID)
		return LoginResult{}, apperrors.ErrInvalidCredentials
	}

	pair, _, err := s.issuePair(ctx, s.storage, user)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		User:      user.DTO(),
		Pair:      pair,
		ExpiresIn: int(s.token.AccessTTL().Seconds()),
	}, nil
}

// Refresh rotates a live refresh token: the presented token is revoked,
// a brand new pair is issued and the old record is linked to its
// replacement. The whole rotation runs in one transaction, so a token
// can be used at most once; any replay hits the revoked check.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	claims, err := s.token.Parse(refreshToken)
	if err != nil {
		return RefreshResult{}, apperrors.ErrInvalidRefreshToken
	}

	var pair models.TokenPair

	err = s.storage.InTx(ctx, func(store repository.Storage) error {
		record, err := store.Refresh().GetByHash(ctx, tokenmanager.Hash(refreshToken))
		if err != nil {
			return err
		}

		if record.Revoked() {
			s.logger.Warn("refresh rejected: token already revoked, possible reuse", "user_id", record.UserID, "token_id", record.ID)
			return apperrors.ErrRefreshTokenRevoked
		}

		// Record level expiry is independent of the token's own exp claim;
		// both are checked even though they are issued to match
		if record.Expired(time.Now()) {
			return apperrors.ErrRefreshTokenExpired
		}

		user, err := store.User().GetUserByID(ctx, claims.UserID)
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			return apperrors.ErrInvalidRefreshToken
		case err != nil:
			return fmt.Errorf("error while looking up user. Err: %w", err)
		}

		if !user.IsActive() {
			s.logger.Warn("refresh rejected: account disabled", "user_id", user.ID)
			return apperrors.ErrInvalidRefreshToken
		}

		newPair, newRecord, err := s.issuePair(ctx, store, user)
		if err != nil {
			return err
		}

		if err := store.Refresh().Revoke(ctx, record.ID, &newRecord.ID); err != nil {
			return fmt.Errorf("error while revoking rotated token. Err: %w", err)
		}

		pair = newPair
		return nil
	})
	if err != nil {
		return RefreshResult{}, err
	}

	return RefreshResult{
		Pair:      pair,
		ExpiresIn: int(s.token.AccessTTL().Seconds()),
	}, nil
}

// Logout revokes the presented refresh token.
// Absence of the record is not an error: logout is idempotent and always
// succeeds from the caller's perspective.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	record, err := s.storage.Refresh().GetByHash(ctx, tokenmanager.Hash(refreshToken))
	switch {
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("error while looking up refresh token. Err: %w", err)
	}

	if err := s.storage.Refresh().Revoke(ctx, record.ID, nil); err != nil {
		return fmt.Errorf("error while revoking refresh token. Err: %w", err)
	}

	return nil
}

// Authenticate verifies an access token and returns the owning user.
// The user must still exist and be ACTIVE: disabling an account cuts off
// access immediately, valid signature or not.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	claims, err := s.token.Parse(accessToken)
	if err != nil {
		return models.User{}, apperrors.ErrInvalidAccessToken
	}

	user, err := s.storage.User().GetUserByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return models.User{}, apperrors.ErrInvalidAccessToken
	case err != nil:
		return models.User{}, fmt.Errorf("error while looking up user. Err: %w", err)
	}

	if !user.IsActive() {
		s.logger.Warn("access rejected: account disabled", "user_id", user.ID)
		return models.User{}, apperrors.ErrInvalidAccessToken
	}

	return user, nil
}

// RefreshTTL exposes the refresh token lifetime for the cookie layer
func (s *Service) RefreshTTL() time.Duration {
	return s.token.RefreshTTL()
}

// issuePair signs a new access and refresh token for the user and
// persists the hash of the refresh token as a live record
func (s *Service) issuePair(ctx context.Context, store repository.Storage, user models.User) (models.TokenPair, models.RefreshToken, error) {
	access, err := s.token.SignAccess(user)
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, err
	}

	refresh, err := s.token.SignRefresh(user)
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, err
	}

	record, err := store.Refresh().Create(ctx, user.ID, tokenmanager.Hash(refresh.Value), refresh.ExpiresAt)
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, record, nil
}

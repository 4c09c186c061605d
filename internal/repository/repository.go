package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vietcharge/vietcharge/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If a user with the email exists already has to return apperrors.ErrEmailTaken
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// List users page by page, optionally filtered by search over email and full name
	// Returns the page and the total count of matched users
	ListUsers(ctx context.Context, params ListUsersParams) ([]models.User, int, error)

	// Update the provided fields only, nil fields are left untouched
	// If user not found must return apperrors.ErrUserNotFound
	// If the new email is taken must return apperrors.ErrEmailTaken
	UpdateUser(ctx context.Context, userID uuid.UUID, params UpdateUserParams) (models.User, error)
}

type ListUsersParams struct {
	Page   int
	Limit  int
	Search string
}

type UpdateUserParams struct {
	Email        *string
	FullName     *string
	PasswordHash *string
	Role         *string
	Status       *string
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Create a ledger record for an issued refresh token
	// Only the token hash is stored, never the raw value
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (models.RefreshToken, error)

	// Return the record whatever state it is in (live, revoked or expired)
	// If no record exists must return apperrors.ErrRefreshTokenNotFound
	GetByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error)

	// Revoke the record, optionally linking the record that superseded it.
	// Must not overwrite an existing revoked_at: once revoked a token
	// can never become live again
	Revoke(ctx context.Context, tokenID uuid.UUID, replacedBy *uuid.UUID) error
}

// Station repository interface
type StationRepo interface {
	CreateStation(ctx context.Context, station models.Station) (models.Station, error)

	// If station not found must return apperrors.ErrStationNotFound
	GetStationByID(ctx context.Context, stationID uuid.UUID) (models.Station, error)

	// List stations page by page with filters
	// Returns the page and the total count of matched stations
	ListStations(ctx context.Context, filter StationFilter) ([]models.Station, int, error)

	// All active stations, used by the geo queries to rank by distance
	ListActiveStations(ctx context.Context) ([]models.Station, error)

	// If station not found must return apperrors.ErrStationNotFound
	UpdateStation(ctx context.Context, station models.Station) (models.Station, error)
	DeleteStation(ctx context.Context, stationID uuid.UUID) error
}

type StationFilter struct {
	Page       int
	Limit      int
	Search     string
	MinPowerKw *float64
	Open247    *bool
}

// Storage aggregates the repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Station() StationRepo

	// InTx runs fn with a Storage bound to a single database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}

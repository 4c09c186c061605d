package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const createRefreshToken = `-- name: CreateRefreshToken
INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, token_hash, created_at, expires_at, revoked_at, replaced_by_token_id
`

func (r *RefreshTokenRepo) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, createRefreshToken, uuid.New(), userID, tokenHash, expiresAt)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		return token, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

const getRefreshTokenByHash = `-- name: GetRefreshTokenByHash
SELECT id, user_id, token_hash, created_at, expires_at, revoked_at, replaced_by_token_id
FROM refresh_tokens
WHERE token_hash = $1
`

// Get record by the hash of the raw token value
// Returns the record even if it is revoked or expired: state checks are
// the orchestrator's concern
func (r *RefreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getRefreshTokenByHash, tokenHash)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, apperrors.ErrRefreshTokenNotFound
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeRefreshToken = `-- name: RevokeRefreshToken
UPDATE refresh_tokens
SET revoked_at = COALESCE(revoked_at, $2),
    replaced_by_token_id = COALESCE(replaced_by_token_id, $3)
WHERE id = $1
RETURNING id
`

// Revoke the record and link its replacement if any
// COALESCE keeps the first revocation: a revoked token never becomes live again
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenID uuid.UUID, replacedBy *uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, revokeRefreshToken, tokenID, time.Now(), replacedBy)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrRefreshTokenNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt, &t.ReplacedByTokenID)
	return t, err
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

const (
	tokenKindVerification = "verification"
	tokenKindReset        = "reset"
)

func (r *tokenRepository) store(ctx context.Context, kind string, userID uuid.UUID, token string, expiry time.Time) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, token, kind, expiry, time.Now())
	if err != nil {
		return apperrors.NewUnavailable("token store", fmt.Errorf("failed to store %s token: %w", kind, err))
	}
	return nil
}

func (r *tokenRepository) validate(ctx context.Context, kind, token string) (uuid.UUID, error) {
	query := `
		SELECT user_id FROM auth_tokens
		WHERE token = $1 AND kind = $2 AND expires_at > $3 AND used_at IS NULL
	`
	var userID uuid.UUID
	err := r.db.GetContext(ctx, &userID, query, token, kind, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, apperrors.NewNotFound("token", err)
	}
	if err != nil {
		return uuid.Nil, apperrors.NewUnavailable("token store", fmt.Errorf("failed to validate %s token: %w", kind, err))
	}
	return userID, nil
}

func (r *tokenRepository) StoreVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	return r.store(ctx, tokenKindVerification, userID, token, expiry)
}

func (r *tokenRepository) ValidateVerificationToken(ctx context.Context, token string) (uuid.UUID, error) {
	return r.validate(ctx, tokenKindVerification, token)
}

func (r *tokenRepository) InvalidateVerificationToken(ctx context.Context, token string) error {
	query := `UPDATE auth_tokens SET used_at = $1 WHERE token = $2 AND kind = $3`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), token, tokenKindVerification); err != nil {
		return apperrors.NewUnavailable("token store", fmt.Errorf("failed to invalidate verification token: %w", err))
	}
	return nil
}

func (r *tokenRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	return r.store(ctx, tokenKindReset, userID, token, expiry)
}

func (r *tokenRepository) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	return r.validate(ctx, tokenKindReset, token)
}

// InvalidateToken records a signed-out access token so the auth middleware
// rejects it for the rest of its lifetime.
func (r *tokenRepository) InvalidateToken(ctx context.Context, token string) error {
	query := `
		INSERT INTO revoked_tokens (token, revoked_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, token, time.Now()); err != nil {
		return apperrors.NewUnavailable("token store", fmt.Errorf("failed to revoke token: %w", err))
	}
	return nil
}

func (r *tokenRepository) IsTokenInvalidated(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)`

	var revoked bool
	if err := r.db.GetContext(ctx, &revoked, query, token); err != nil {
		return false, apperrors.NewUnavailable("token store", fmt.Errorf("failed to check revoked token: %w", err))
	}
	return revoked, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prettystyles/booking-api/internal/model"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

const userColumns = `
	id, email, password_hash, first_name, last_name, avatar_url,
	provider, status, email_verified, login_attempts, last_login_attempt,
	last_login_at, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, avatar_url,
			provider, status, email_verified, login_attempts, last_login_attempt,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.LastLoginAttempt = user.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.AvatarURL,
		user.Provider,
		user.Status,
		user.EmailVerified,
		user.LoginAttempts,
		user.LastLoginAttempt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewUnavailable("user store", fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.NewUnavailable("user store", fmt.Errorf("failed to get user: %w", err))
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.NewUnavailable("user store", fmt.Errorf("failed to get user by email: %w", err))
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4,
			avatar_url = $5, status = $6, email_verified = $7,
			login_attempts = $8, last_login_attempt = $9, last_login_at = $10,
			updated_at = $11
		WHERE id = $12
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.AvatarURL,
		user.Status,
		user.EmailVerified,
		user.LoginAttempts,
		user.LastLoginAttempt,
		user.LastLoginAt,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return apperrors.NewUnavailable("user store", fmt.Errorf("failed to update user: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailable("user store", fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("user", nil)
	}

	return nil
}

func (r *userRepository) UpdateEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `UPDATE users SET email_verified = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, verified, time.Now(), id)
	if err != nil {
		return apperrors.NewUnavailable("user store", fmt.Errorf("failed to update email verified: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailable("user store", fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("user", nil)
	}

	return nil
}

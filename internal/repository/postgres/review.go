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

const reviewColumns = `
	id, booking_id, user_id, user_name, user_avatar, service_name,
	rating, comment, photos, helpful_count, verified,
	created_at, updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, booking_id, user_id, user_name, user_avatar, service_name,
			rating, comment, photos, helpful_count, verified,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.UserID,
		review.UserName,
		review.UserAvatar,
		review.ServiceName,
		review.Rating,
		review.Comment,
		review.Photos,
		review.HelpfulCount,
		review.Verified,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewUnavailable("review store", fmt.Errorf("failed to create review: %w", err))
	}
	return nil
}

func (r *reviewRepository) GetByBookingAndUser(ctx context.Context, bookingID, userID uuid.UUID) (*model.Review, error) {
	query := `SELECT` + reviewColumns + `
		FROM reviews
		WHERE booking_id = $1 AND user_id = $2
	`
	var review model.Review
	err := r.db.GetContext(ctx, &review, query, bookingID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("review", err)
	}
	if err != nil {
		return nil, apperrors.NewUnavailable("review store", fmt.Errorf("failed to get review: %w", err))
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context) ([]*model.Review, error) {
	query := `SELECT` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC
	`
	var reviews []*model.Review
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, apperrors.NewUnavailable("review store", fmt.Errorf("failed to list reviews: %w", err))
	}
	return reviews, nil
}

func (r *reviewRepository) ListForService(ctx context.Context, serviceName string) ([]*model.Review, error) {
	query := `SELECT` + reviewColumns + `
		FROM reviews
		WHERE service_name LIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
	var reviews []*model.Review
	if err := r.db.SelectContext(ctx, &reviews, query, serviceName); err != nil {
		return nil, apperrors.NewUnavailable("review store", fmt.Errorf("failed to list reviews for service: %w", err))
	}
	return reviews, nil
}

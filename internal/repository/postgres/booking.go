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

const bookingColumns = `
	id, user_id, service_name, service_duration, service_price,
	appointment_date, appointment_time, status,
	deposit_paid, remaining_balance, notes,
	cancellation_reason, deposit_refunded, cancelled_at, rescheduled_at,
	created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, service_name, service_duration, service_price,
			appointment_date, appointment_time, status,
			deposit_paid, remaining_balance, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ServiceName,
		booking.ServiceDuration,
		booking.ServicePrice,
		booking.AppointmentDate,
		booking.AppointmentTime,
		booking.Status,
		booking.DepositPaid,
		booking.RemainingBalance,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewUnavailable("booking store", fmt.Errorf("failed to create booking: %w", err))
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("booking", err)
	}
	if err != nil {
		return nil, apperrors.NewUnavailable("booking store", fmt.Errorf("failed to get booking: %w", err))
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET appointment_date = $1, appointment_time = $2, status = $3,
			cancellation_reason = $4, deposit_refunded = $5,
			cancelled_at = $6, rescheduled_at = $7, updated_at = $8
		WHERE id = $9
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.AppointmentDate,
		booking.AppointmentTime,
		booking.Status,
		booking.CancellationReason,
		booking.DepositRefunded,
		booking.CancelledAt,
		booking.RescheduledAt,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return apperrors.NewUnavailable("booking store", fmt.Errorf("failed to update booking: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailable("booking store", fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("booking", nil)
	}

	return nil
}

func (r *bookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings

		WHERE user_id = $1
		ORDER BY appointment_date ASC, created_at DESC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, apperrors.NewUnavailable("booking store", fmt.Errorf("failed to list bookings: %w", err))
	}
	return bookings, nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.UserID != uuid.Nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filters.UserID)
		argCount++
	}

	if filters != nil && filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY appointment_date ASC"

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, apperrors.NewUnavailable("booking store", fmt.Errorf("failed to list bookings: %w", err))
	}
	return bookings, nil
}

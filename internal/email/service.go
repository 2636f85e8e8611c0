package email

import (
	"context"

	"github.com/prettystyles/booking-api/internal/model"
)

type Service interface {
	SendVerification(ctx context.Context, email string, token string) error
	SendPasswordReset(ctx context.Context, email string, token string) error
	SendBookingConfirmation(ctx context.Context, payload *model.BookingEventPayload) error
	SendBookingRescheduled(ctx context.Context, payload *model.BookingEventPayload) error
	SendBookingCancelled(ctx context.Context, payload *model.BookingEventPayload) error
}

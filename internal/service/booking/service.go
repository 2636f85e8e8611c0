package booking

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/repository"
	"github.com/prettystyles/booking-api/internal/service/catalog"
	"github.com/prettystyles/booking-api/internal/service/event"
	"github.com/prettystyles/booking-api/pkg/clock"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

// Business rules for the booking lifecycle.
const (
	// DepositRate is the share of the service price charged upfront.
	DepositRate = 0.5
	// RefundCutoffHours is the cancellation notice, in hours, at or above
	// which the deposit is refunded. Exactly 24 hours still refunds.
	RefundCutoffHours = 24.0
)

type Service struct {
	repo       repository.BookingRepository
	userRepo   repository.UserRepository
	catalogSvc *catalog.Service
	events     *event.Service
	clock      clock.Clock
}

func NewService(repo repository.BookingRepository, userRepo repository.UserRepository,
	catalogSvc *catalog.Service, events *event.Service, clk clock.Clock) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		catalogSvc: catalogSvc,
		events:     events,
		clock:      clk,
	}
}

// DepositFor computes the upfront deposit: half the service price, rounded to
// the nearest whole currency unit. Set once at creation, never recomputed.
func DepositFor(price float64) float64 {
	return math.Round(price * DepositRate)
}

func (s *Service) CreateBooking(ctx context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	svc, err := s.catalogSvc.GetService(ctx, req.ServiceID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidation("unknown service")
		}
		return nil, err
	}

	if !model.IsValidSlot(req.Time) {
		return nil, apperrors.NewValidation("invalid appointment time")
	}

	at, err := time.Parse(model.DateLayout+" "+model.SlotLayout, req.Date+" "+req.Time)
	if err != nil {
		return nil, apperrors.NewValidation("invalid appointment date")
	}
	if !at.After(s.clock.Now()) {
		return nil, apperrors.NewValidation("appointment date must be in the future")
	}

	deposit := DepositFor(svc.Price)
	booking := &model.Booking{
		Base: model.Base{
			ID: uuid.New(),
		},
		UserID:           userID,
		ServiceName:      svc.Name,
		ServiceDuration:  svc.Duration,
		ServicePrice:     svc.Price,
		AppointmentDate:  req.Date,
		AppointmentTime:  req.Time,
		Status:           model.BookingStatusConfirmed,
		DepositPaid:      deposit,
		RemainingBalance: svc.Price - deposit,
		Notes:            req.Notes,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.recordEvent(ctx, model.EventBookingCreated, booking)

	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, userID, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Bookings of other accounts are indistinguishable from missing ones.
	if booking.UserID != userID {
		return nil, apperrors.NewNotFound("booking", nil)
	}

	return booking, nil
}

func (s *Service) ListBookings(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	bookings, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// RescheduleBooking moves the appointment to a new slot. Rescheduling is
// always free: the deposit and remaining balance carry over untouched no
// matter how close to the original date it happens.
func (s *Service) RescheduleBooking(ctx context.Context, userID, id uuid.UUID, req *model.RescheduleBookingRequest) (*model.Booking, error) {
	if req.Date == "" || req.Time == "" {
		return nil, apperrors.NewValidation("date and time are required")
	}

	booking, err := s.GetBooking(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.NewConflict("cannot reschedule a cancelled booking")
	}

	if !model.IsValidSlot(req.Time) {
		return nil, apperrors.NewValidation("invalid appointment time")
	}

	at, err := time.Parse(model.DateLayout+" "+model.SlotLayout, req.Date+" "+req.Time)
	if err != nil {
		return nil, apperrors.NewValidation("invalid appointment date")
	}
	if !at.After(s.clock.Now()) {
		return nil, apperrors.NewValidation("new appointment date must be in the future")
	}

	now := s.clock.Now()
	booking.AppointmentDate = req.Date
	booking.AppointmentTime = req.Time
	booking.Status = model.BookingStatusRescheduled
	booking.RescheduledAt = &now

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}

	s.recordEvent(ctx, model.EventBookingRescheduled, booking)

	return booking, nil
}

// CancelBooking cancels the appointment and decides deposit refundability
// from the notice given relative to the current (original or rescheduled)
// slot. The decision is made once here and never revisited, even if the
// downstream refund fails.
func (s *Service) CancelBooking(ctx context.Context, userID, id uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.GetBooking(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.NewConflict("booking is already cancelled")
	}

	at, err := booking.AppointmentAt()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve appointment time: %w", err)
	}

	now := s.clock.Now()
	// A past appointment yields negative hours and therefore no refund;
	// there is deliberately no special case for it.
	hoursUntil := at.Sub(now).Hours()
	refundable := hoursUntil >= RefundCutoffHours

	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = &reason
	booking.DepositRefunded = &refundable

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.recordEvent(ctx, model.EventBookingCancelled, booking)

	return booking, nil
}

// recordEvent writes a notification event to the outbox. Event delivery is
// best effort: a failure never rolls back the booking mutation.
func (s *Service) recordEvent(ctx context.Context, eventType string, booking *model.Booking) {
	payload := model.BookingEventPayload{
		BookingID:       booking.ID,
		ServiceName:     booking.ServiceName,
		AppointmentDate: booking.AppointmentDate,
		AppointmentTime: booking.AppointmentTime,
		DepositPaid:     booking.DepositPaid,
		DepositRefunded: booking.DepositRefunded,
	}

	if user, err := s.userRepo.Get(ctx, booking.UserID); err == nil {
		payload.UserEmail = user.Email
		payload.UserName = user.DisplayName()
	}

	if err := s.events.Record(ctx, eventType, payload); err != nil {
		log.Error().Err(err).
			Str("event_type", eventType).
			Str("booking_id", booking.ID.String()).
			Msg("failed to record booking event")
	}
}

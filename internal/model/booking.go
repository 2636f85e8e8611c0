package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusRescheduled BookingStatus = "rescheduled"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// SlotLayout is the wire format for appointment slot labels.
	SlotLayout = "3:04 PM"
)

// Booking is one appointment record. The service fields are an immutable
// snapshot of the catalog entry at booking time, so later catalog changes
// never alter past bookings. DepositPaid and RemainingBalance are fixed at
// creation and always sum to ServicePrice.
type Booking struct {
	Base
	UserID             uuid.UUID     `db:"user_id" json:"user_id"`
	ServiceName        string        `db:"service_name" json:"service_name"`
	ServiceDuration    string        `db:"service_duration" json:"service_duration"`
	ServicePrice       float64       `db:"service_price" json:"service_price"`
	AppointmentDate    string        `db:"appointment_date" json:"appointment_date"`
	AppointmentTime    string        `db:"appointment_time" json:"appointment_time"`
	Status             BookingStatus `db:"status" json:"status"`
	DepositPaid        float64       `db:"deposit_paid" json:"deposit_paid"`
	RemainingBalance   float64       `db:"remaining_balance" json:"remaining_balance"`
	Notes              string        `db:"notes" json:"notes,omitempty"`
	CancellationReason *string       `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	DepositRefunded    *bool         `db:"deposit_refunded" json:"deposit_refunded,omitempty"`
	CancelledAt        *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
	RescheduledAt      *time.Time    `db:"rescheduled_at" json:"rescheduled_at,omitempty"`
}

// AppointmentAt resolves the stored date and slot label into an instant.
func (b *Booking) AppointmentAt() (time.Time, error) {
	return time.Parse(DateLayout+" "+SlotLayout, b.AppointmentDate+" "+b.AppointmentTime)
}

// IsCompleted reports whether the appointment has taken place: the slot is in
// the past and the booking was not cancelled. Completed is derived, never
// stored.
func (b *Booking) IsCompleted(now time.Time) bool {
	if b.Status == BookingStatusCancelled {
		return false
	}
	at, err := b.AppointmentAt()
	if err != nil {
		return false
	}
	return at.Before(now)
}

type CreateBookingRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string `json:"time" binding:"required,bookableslot"`
	Notes     string `json:"notes" binding:"max=1000"`
}

type RescheduleBookingRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Time string `json:"time" binding:"required,bookableslot"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type BookingFilters struct {
	UserID uuid.UUID
	Status BookingStatus
}

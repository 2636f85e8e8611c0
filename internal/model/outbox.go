package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Event types published through the outbox.
const (
	EventBookingCreated     = "booking_created"
	EventBookingRescheduled = "booking_rescheduled"
	EventBookingCancelled   = "booking_cancelled"
	EventReviewSubmitted    = "review_submitted"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// BookingEventPayload is the notification payload carried by booking events.
// It includes enough of the booking and owner for the notifier to compose an
// email without a read back into the store.
type BookingEventPayload struct {
	BookingID       uuid.UUID `json:"booking_id"`
	UserEmail       string    `json:"user_email"`
	UserName        string    `json:"user_name"`
	ServiceName     string    `json:"service_name"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	DepositPaid     float64   `json:"deposit_paid"`
	DepositRefunded *bool     `json:"deposit_refunded,omitempty"`
}

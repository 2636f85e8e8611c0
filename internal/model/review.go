package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Review is created once per (booking, user) pair and never mutated. UserName,
// UserAvatar and ServiceName are snapshots taken at submission time rather
// than live references.
type Review struct {
	Base
	BookingID    uuid.UUID      `db:"booking_id" json:"booking_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	UserName     string         `db:"user_name" json:"user_name"`
	UserAvatar   *string        `db:"user_avatar" json:"user_avatar,omitempty"`
	ServiceName  string         `db:"service_name" json:"service_name"`
	Rating       int            `db:"rating" json:"rating"`
	Comment      string         `db:"comment" json:"comment"`
	Photos       pq.StringArray `db:"photos" json:"photos,omitempty"`
	HelpfulCount int            `db:"helpful_count" json:"helpful_count"`
	Verified     bool           `db:"verified" json:"verified"`
}

type SubmitReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required"`
	Comment   string    `json:"comment" binding:"max=2000"`
	Photos    []string  `json:"photos"`
}

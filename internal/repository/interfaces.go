package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prettystyles/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles account records
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdateEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error
	}

	// BookingRepository is the persistence collaborator for appointment
	// records. Mutations are whole-record writes; a booking is never deleted.
	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		Update(ctx context.Context, booking *model.Booking) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error)
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
	}

	// ReviewRepository persists reviews. Reviews are insert-only.
	ReviewRepository interface {
		Create(ctx context.Context, review *model.Review) error
		GetByBookingAndUser(ctx context.Context, bookingID, userID uuid.UUID) (*model.Review, error)
		List(ctx context.Context) ([]*model.Review, error)
		ListForService(ctx context.Context, serviceName string) ([]*model.Review, error)
	}

	CatalogRepository interface {
		Get(ctx context.Context, id string) (*model.CatalogService, error)
		List(ctx context.Context) ([]*model.CatalogService, error)
	}

	TokenRepository interface {
		StoreVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateVerificationToken(ctx context.Context, token string) (uuid.UUID, error)
		InvalidateVerificationToken(ctx context.Context, token string) error
		StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
		InvalidateToken(ctx context.Context, token string) error
		IsTokenInvalidated(ctx context.Context, token string) (bool, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}
)

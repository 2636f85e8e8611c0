package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/service/event"
	"github.com/prettystyles/booking-api/pkg/clock"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

type fakeReviewRepo struct {
	reviews []*model.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) GetByBookingAndUser(_ context.Context, bookingID, userID uuid.UUID) (*model.Review, error) {
	for _, review := range r.reviews {
		if review.BookingID == bookingID && review.UserID == userID {
			return review, nil
		}
	}
	return nil, apperrors.NewNotFound("review", nil)
}

func (r *fakeReviewRepo) List(_ context.Context) ([]*model.Review, error) {
	return r.reviews, nil
}

func (r *fakeReviewRepo) ListForService(_ context.Context, serviceName string) ([]*model.Review, error) {
	var out []*model.Review
	for _, review := range r.reviews {
		if review.ServiceName == serviceName {
			out = append(out, review)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func (r *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFound("booking", nil)
	}
	return b, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]*model.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) List(_ context.Context, _ *model.BookingFilters) ([]*model.Booking, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateEmailVerified(_ context.Context, _ uuid.UUID, _ bool) error {
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

type fixture struct {
	svc     *Service
	userID  uuid.UUID
	booking *model.Booking
}

// now is fixed to noon; the seeded booking took place the previous morning.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	avatar := "https://cdn.example.com/ada.jpg"
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		userID: {
			Base:      model.Base{ID: userID},
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Mensah",
			AvatarURL: &avatar,
		},
	}}

	booking := &model.Booking{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		ServiceName:     "Medium Knotless Braids",
		AppointmentDate: "2026-03-09",
		AppointmentTime: "9:00 AM",
		Status:          model.BookingStatusConfirmed,
	}
	bookingRepo := &fakeBookingRepo{bookings: map[uuid.UUID]*model.Booking{booking.ID: booking}}

	svc := NewService(&fakeReviewRepo{}, bookingRepo, userRepo,
		event.NewService(&fakeOutboxRepo{}), clock.Fixed{T: testNow})

	return &fixture{svc: svc, userID: userID, booking: booking}
}

func TestAverageRating(t *testing.T) {
	ratings := func(rs ...int) []*model.Review {
		out := make([]*model.Review, len(rs))
		for i, r := range rs {
			out[i] = &model.Review{Rating: r}
		}
		return out
	}

	assert.Equal(t, 5.0, AverageRating(nil), "empty set shows the default")
	assert.Equal(t, 4.5, AverageRating(ratings(4, 5)))
	assert.Equal(t, 3.7, AverageRating(ratings(3, 4, 4)))
	assert.Equal(t, 2.0, AverageRating(ratings(2)))
	assert.Equal(t, 4.3, AverageRating(ratings(5, 5, 3)))
}

func TestSubmitReview(t *testing.T) {
	f := newFixture(t)

	review, err := f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    5,
		Comment:   "Absolutely loved my braids!",
		Photos:    []string{"https://cdn.example.com/braids.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Mensah", review.UserName)
	require.NotNil(t, review.UserAvatar)
	assert.Equal(t, "https://cdn.example.com/ada.jpg", *review.UserAvatar)
	assert.Equal(t, "Medium Knotless Braids", review.ServiceName)
	assert.Equal(t, 5, review.Rating)
	assert.True(t, review.Verified)
}

func TestSubmitReview_RatingBounds(t *testing.T) {
	f := newFixture(t)

	for _, rating := range []int{0, -1, 6} {
		_, err := f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
			BookingID: f.booking.ID,
			Rating:    rating,
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation), "rating %d", rating)
	}
}

func TestSubmitReview_BookingNotCompleted(t *testing.T) {
	f := newFixture(t)
	f.booking.AppointmentDate = "2026-04-01" // still ahead of the fixed clock

	_, err := f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    5,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestSubmitReview_CancelledBooking(t *testing.T) {
	// A cancelled booking never counts as completed, even once its slot has
	// passed.
	f := newFixture(t)
	f.booking.Status = model.BookingStatusCancelled

	_, err := f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    5,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestSubmitReview_Duplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    5,
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    4,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestSubmitReview_ForeignBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), uuid.New(), &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    5,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestCanReview(t *testing.T) {
	f := newFixture(t)

	ok, err := f.svc.CanReview(context.Background(), f.booking.ID, f.userID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.SubmitReview(context.Background(), f.userID, &model.SubmitReviewRequest{
		BookingID: f.booking.ID,
		Rating:    5,
	})
	require.NoError(t, err)

	ok, err = f.svc.CanReview(context.Background(), f.booking.ID, f.userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

package review

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/repository"
	"github.com/prettystyles/booking-api/internal/service/event"
	"github.com/prettystyles/booking-api/pkg/clock"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

// DefaultRating is shown when no reviews exist yet. A display convention,
// not a statistic.
const DefaultRating = 5.0

type Service struct {
	repo        repository.ReviewRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	events      *event.Service
	clock       clock.Clock
}

func NewService(repo repository.ReviewRepository, bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository, events *event.Service, clk clock.Clock) *Service {
	return &Service{
		repo:        repo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		events:      events,
		clock:       clk,
	}
}

// CanReview reports whether the user may still review the booking: true iff
// no review exists for the (booking, user) pair. Pure read, no side effect.
func (s *Service) CanReview(ctx context.Context, bookingID, userID uuid.UUID) (bool, error) {
	_, err := s.repo.GetByBookingAndUser(ctx, bookingID, userID)
	if err == nil {
		return false, nil
	}
	if apperrors.IsCode(err, apperrors.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// SubmitReview creates the one review a user may leave per completed booking.
// The reviewer's display name and avatar and the booking's service name are
// snapshotted at submission time.
func (s *Service) SubmitReview(ctx context.Context, userID uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewValidation("rating must be between 1 and 5")
	}

	booking, err := s.bookingRepo.Get(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.NewNotFound("booking", nil)
	}
	if !booking.IsCompleted(s.clock.Now()) {
		return nil, apperrors.NewValidation("booking is not completed yet")
	}

	ok, err := s.CanReview(ctx, req.BookingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflict("booking has already been reviewed")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		Base: model.Base{
			ID: uuid.New(),
		},
		BookingID:   req.BookingID,
		UserID:      userID,
		UserName:    user.DisplayName(),
		UserAvatar:  user.AvatarURL,
		ServiceName: booking.ServiceName,
		Rating:      req.Rating,
		Comment:     req.Comment,
		Photos:      req.Photos,
		Verified:    true,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.events.Record(ctx, model.EventReviewSubmitted, review); err != nil {
		log.Error().Err(err).
			Str("review_id", review.ID.String()).
			Msg("failed to record review event")
	}

	return review, nil
}

func (s *Service) ListReviews(ctx context.Context) ([]*model.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *Service) ListReviewsForService(ctx context.Context, serviceName string) ([]*model.Review, error) {
	reviews, err := s.repo.ListForService(ctx, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for service: %w", err)
	}
	return reviews, nil
}

// AverageRating is the arithmetic mean of all ratings rounded to one decimal
// place, or DefaultRating for an empty set.
func AverageRating(reviews []*model.Review) float64 {
	if len(reviews) == 0 {
		return DefaultRating
	}

	var total int
	for _, r := range reviews {
		total += r.Rating
	}
	return math.Round(float64(total)/float64(len(reviews))*10) / 10
}

package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettystyles/booking-api/internal/middleware"
	"github.com/prettystyles/booking-api/internal/model"
	bookingservice "github.com/prettystyles/booking-api/internal/service/booking"
	"github.com/prettystyles/booking-api/internal/service/catalog"
	"github.com/prettystyles/booking-api/internal/service/event"
	"github.com/prettystyles/booking-api/pkg/clock"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

type stubBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func (r *stubBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *stubBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFound("booking", nil)
	}
	return b, nil
}

func (r *stubBookingRepo) Update(_ context.Context, b *model.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *stubBookingRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookingRepo) List(_ context.Context, _ *model.BookingFilters) ([]*model.Booking, error) {
	return nil, nil
}

type stubUserRepo struct{}

func (stubUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (stubUserRepo) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return nil, apperrors.NewNotFound("user", nil)
}

func (stubUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NewNotFound("user", nil)
}

func (stubUserRepo) Update(_ context.Context, _ *model.User) error { return nil }

func (stubUserRepo) UpdateEmailVerified(_ context.Context, _ uuid.UUID, _ bool) error { return nil }

type stubCatalogRepo struct{}

func (stubCatalogRepo) Get(_ context.Context, id string) (*model.CatalogService, error) {
	if id != "knotless-medium" {
		return nil, apperrors.NewNotFound("catalog service", nil)
	}
	return &model.CatalogService{ID: id, Name: "Medium Knotless Braids", Duration: "5-6 hours", Price: 130}, nil
}

func (stubCatalogRepo) List(_ context.Context) ([]*model.CatalogService, error) { return nil, nil }

type stubOutboxRepo struct{}

func (stubOutboxRepo) Create(_ context.Context, _ *model.OutboxEvent) error { return nil }

func (stubOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (stubOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }

func (stubOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func setupRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *stubBookingRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
	svc := bookingservice.NewService(repo, stubUserRepo{}, catalog.NewService(stubCatalogRepo{}),
		event.NewService(stubOutboxRepo{}),
		clock.Fixed{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.String())
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, repo
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	r, _ := setupRouter(t, uuid.New())

	w := doJSON(r, http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"service_id": "knotless-medium",
		"date":       "2026-03-10",
		"time":       "1:00 PM",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Status string        `json:"status"`
		Data   model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 65.0, resp.Data.DepositPaid)
	assert.Equal(t, 65.0, resp.Data.RemainingBalance)
	assert.Equal(t, model.BookingStatusConfirmed, resp.Data.Status)
}

func TestCreateBookingEndpoint_RejectsUnknownSlot(t *testing.T) {
	r, _ := setupRouter(t, uuid.New())

	// "2:00 PM" is a well-formed time but not a bookable slot; binding
	// rejects it before the service is reached.
	w := doJSON(r, http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"service_id": "knotless-medium",
		"date":       "2026-03-10",
		"time":       "2:00 PM",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	userID := uuid.New()
	r, repo := setupRouter(t, userID)

	booking := &model.Booking{
		Base:            model.Base{ID: uuid.New()},
		UserID:          userID,
		ServiceName:     "Medium Knotless Braids",
		AppointmentDate: "2026-03-10",
		AppointmentTime: "1:00 PM",
		Status:          model.BookingStatusConfirmed,
		DepositPaid:     65,
	}
	repo.bookings[booking.ID] = booking

	w := doJSON(r, http.MethodPost,
		fmt.Sprintf("/api/v1/bookings/%s/cancel", booking.ID),
		map[string]interface{}{"reason": "change of plans"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.BookingStatusCancelled, resp.Data.Status)
	require.NotNil(t, resp.Data.DepositRefunded)
	assert.True(t, *resp.Data.DepositRefunded, "nine days of notice refunds the deposit")
}

func TestGetBookingEndpoint_NotFound(t *testing.T) {
	r, _ := setupRouter(t, uuid.New())

	w := doJSON(r, http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingEndpoints_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := bookingservice.NewService(
		&stubBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)},
		stubUserRepo{}, catalog.NewService(stubCatalogRepo{}),
		event.NewService(stubOutboxRepo{}), clock.New())

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	w := doJSON(r, http.MethodGet, "/api/v1/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

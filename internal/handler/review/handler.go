package review

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prettystyles/booking-api/internal/handler"
	"github.com/prettystyles/booking-api/internal/middleware"
	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/service/review"
)

type Handler struct {
	svc *review.Service
}

func NewHandler(svc *review.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes exposes the read side; reviews are marketing content.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.GET("/average", h.AverageRating)
	}
}

// RegisterRoutes exposes the authenticated write side.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.POST("", h.SubmitReview)
		reviews.GET("/eligibility", h.Eligibility)
	}
}

func (h *Handler) ListReviews(c *gin.Context) {
	var (
		reviews []*model.Review
		err     error
	)

	if service := c.Query("service"); service != "" {
		reviews, err = h.svc.ListReviewsForService(c.Request.Context(), service)
	} else {
		reviews, err = h.svc.ListReviews(c.Request.Context())
	}
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(reviews))
}

func (h *Handler) AverageRating(c *gin.Context) {
	reviews, err := h.svc.ListReviews(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"average_rating": review.AverageRating(reviews),
		"review_count":   len(reviews),
	}))
}

func (h *Handler) SubmitReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	review, err := h.svc.SubmitReview(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(review))
}

func (h *Handler) Eligibility(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	bookingID, err := uuid.Parse(c.Query("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	canReview, err := h.svc.CanReview(c.Request.Context(), bookingID, userID)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"can_review": canReview}))
}

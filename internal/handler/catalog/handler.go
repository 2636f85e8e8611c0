package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prettystyles/booking-api/internal/handler"
	"github.com/prettystyles/booking-api/internal/service/catalog"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
	r.GET("/slots", h.ListSlots)
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.SlotLabels()))
}

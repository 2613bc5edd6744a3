package fraud

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/middleware"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/pagination"
)

// Handler handles fraud HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new fraud handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers fraud routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	fraudGroup := router.Group("/fraud")
	fraudGroup.Use(middleware.AuthMiddleware(jwtSecret))
	{
		fraudGroup.POST("/check", h.CheckMessage)

		admin := fraudGroup.Group("/alerts")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", h.ListAlerts)
			admin.GET("/:id", h.GetAlert)
			admin.PUT("/:id/resolve", h.ResolveAlert)
		}
	}
}

// CheckMessage scores message content. Malformed request bodies are not an
// error: scoring fails open with a low-risk verdict so that a scorer-side
// problem can never stop legitimate messages.
func (h *Handler) CheckMessage(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(c.Request.Context()).Warn("Unreadable fraud check request, failing open", zap.Error(err))
		common.SuccessResponse(c, CheckResponse{FraudScore: failOpenVerdict()})
		return
	}

	verdict := h.service.CheckMessage(c.Request.Context(), req)
	common.SuccessResponse(c, CheckResponse{FraudScore: verdict})
}

// ListAlerts lists moderation alerts, optionally filtered by status
func (h *Handler) ListAlerts(c *gin.Context) {
	params := pagination.ParseParams(c)

	status := AlertStatus(c.Query("status"))
	switch status {
	case "", AlertStatusPending, AlertStatusConfirmed, AlertStatusFalsePositive:
	default:
		common.ErrorResponse(c, http.StatusBadRequest, "invalid alert status")
		return
	}

	alerts, total, err := h.service.ListAlerts(c.Request.Context(), status, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, alerts, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetAlert returns a single moderation alert
func (h *Handler) GetAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid alert ID")
		return
	}

	alert, err := h.service.GetAlert(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	common.SuccessResponse(c, alert)
}

// ResolveAlert marks an alert as confirmed fraud or a false positive
func (h *Handler) ResolveAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid alert ID")
		return
	}

	reviewerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.service.ResolveAlert(c.Request.Context(), id, reviewerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	common.SuccessResponse(c, alert)
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	logger.WithContext(c.Request.Context()).Error("Unhandled fraud handler error", zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

package meetings

import (
	"context"
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

// Handler handles meeting HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new meetings handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers meeting routes. The safe zone directory is
// public; scheduling requires authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	router.GET("/safe-zones", h.ListSafeZones)

	auth := middleware.AuthMiddleware(jwtSecret)
	group := router.Group("/meetings")
	group.Use(auth)
	{
		group.POST("", h.ProposeMeeting)
		group.GET("", h.ListMyMeetings)
		group.PUT("/:id/confirm", h.ConfirmMeeting)
		group.PUT("/:id/cancel", h.CancelMeeting)
		group.PUT("/:id/complete", h.CompleteMeeting)
	}
}

// ListSafeZones returns the safe zone directory
func (h *Handler) ListSafeZones(c *gin.Context) {
	zones, err := h.service.ListSafeZones(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, zones)
}

// ProposeMeeting proposes a meeting at a safe zone
func (h *Handler) ProposeMeeting(c *gin.Context) {
	proposerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProposeMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	meeting, err := h.service.ProposeMeeting(c.Request.Context(), proposerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, meeting)
}

// ListMyMeetings returns the authenticated user's meetings
func (h *Handler) ListMyMeetings(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	upcomingOnly := c.Query("upcoming") == "true"

	meetings, total, err := h.service.ListMyMeetings(c.Request.Context(), userID, upcomingOnly, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponseWithMeta(c, meetings, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ConfirmMeeting accepts a proposed meeting
func (h *Handler) ConfirmMeeting(c *gin.Context) {
	h.transition(c, h.service.ConfirmMeeting)
}

// CancelMeeting cancels a proposed or confirmed meeting
func (h *Handler) CancelMeeting(c *gin.Context) {
	h.transition(c, h.service.CancelMeeting)
}

// CompleteMeeting marks a confirmed meeting as completed
func (h *Handler) CompleteMeeting(c *gin.Context) {
	h.transition(c, h.service.CompleteMeeting)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error)) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid meeting ID")
		return
	}

	meeting, err := op(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, meeting)
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	logger.WithContext(c.Request.Context()).Error("Unhandled meetings handler error", zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

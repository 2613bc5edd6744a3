package verification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/middleware"
)

// Handler handles verification HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new verification handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers verification routes. The callback is reached by
// the external provider and authenticates by opaque session ID.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	auth := middleware.AuthMiddleware(jwtSecret)

	group := router.Group("/verification")
	{
		group.POST("/start", auth, h.StartAttempt)
		group.GET("/status", auth, h.GetStatus)
		group.POST("/callback", h.HandleCallback)
	}
}

// StartAttempt opens a verification attempt for the authenticated user
func (h *Handler) StartAttempt(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	attempt, err := h.service.StartAttempt(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, attempt)
}

// GetStatus reports the authenticated user's verification state
func (h *Handler) GetStatus(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, status)
}

// HandleCallback records the provider's verification result
func (h *Handler) HandleCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	attempt, err := h.service.HandleCallback(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"status": attempt.Status})
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	logger.WithContext(c.Request.Context()).Error("Unhandled verification handler error", zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

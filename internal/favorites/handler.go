package favorites

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

// Handler handles favorite HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new favorites handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers favorite routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	group := router.Group("/favorites")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.GET("", h.ListSaved)
		group.PUT("/:listingId", h.SaveListing)
		group.DELETE("/:listingId", h.UnsaveListing)
	}
}

// ListSaved lists the authenticated user's saved listings
func (h *Handler) ListSaved(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	saved, total, err := h.service.ListSaved(c.Request.Context(), userID, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponseWithMeta(c, saved, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// SaveListing saves a listing for the authenticated user
func (h *Handler) SaveListing(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	if err := h.service.SaveListing(c.Request.Context(), userID, listingID); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"saved": true})
}

// UnsaveListing removes a saved listing
func (h *Handler) UnsaveListing(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	if err := h.service.UnsaveListing(c.Request.Context(), userID, listingID); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"saved": false})
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	logger.WithContext(c.Request.Context()).Error("Unhandled favorites handler error", zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

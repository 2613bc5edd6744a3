package listings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/middleware"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/pagination"
)

// Handler handles listing HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new listings handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers listing routes. Search and detail are public;
// everything else requires authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	auth := middleware.AuthMiddleware(jwtSecret)

	group := router.Group("/listings")
	{
		group.GET("", h.SearchListings)
		group.GET("/:id", h.GetListing)

		group.POST("", auth, h.CreateListing)
		group.GET("/mine", auth, h.ListMyListings)
		group.PUT("/:id", auth, h.UpdateListing)
		group.PUT("/:id/status", auth, h.UpdateStatus)
	}
}

// CreateListing creates a listing owned by the authenticated user
func (h *Handler) CreateListing(c *gin.Context) {
	sellerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), sellerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, listing)
}

// GetListing returns one listing
func (h *Handler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	listing, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, listing)
}

// SearchListings searches active listings
func (h *Handler) SearchListings(c *gin.Context) {
	params := pagination.ParseParams(c)
	filters := parseFilters(c)

	listings, total, err := h.service.SearchListings(c.Request.Context(), filters, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponseWithMeta(c, listings, pagination.BuildMeta(params.Limit, params.Offset, total))
}

func parseFilters(c *gin.Context) Filters {
	filters := Filters{
		Make:  c.Query("make"),
		Model: c.Query("model"),
		City:  c.Query("city"),
	}
	filters.MinYear, _ = strconv.Atoi(c.Query("min_year"))
	filters.MaxYear, _ = strconv.Atoi(c.Query("max_year"))
	filters.MinPrice, _ = strconv.ParseInt(c.Query("min_price"), 10, 64)
	filters.MaxPrice, _ = strconv.ParseInt(c.Query("max_price"), 10, 64)
	return filters
}

// ListMyListings returns the authenticated user's listings in every state
func (h *Handler) ListMyListings(c *gin.Context) {
	sellerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	listings, total, err := h.service.ListMyListings(c.Request.Context(), sellerID, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponseWithMeta(c, listings, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// UpdateListing applies a partial update to an owned listing
func (h *Handler) UpdateListing(c *gin.Context) {
	requesterID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), id, requesterID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, listing)
}

// UpdateStatus changes a listing's lifecycle state
func (h *Handler) UpdateStatus(c *gin.Context) {
	requesterID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, requesterID, req); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"status": req.Status})
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	logger.WithContext(c.Request.Context()).Error("Unhandled listings handler error", zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

package messaging

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/middleware"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/pagination"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS middleware in front of the router
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler handles messaging HTTP and websocket requests
type Handler struct {
	service ServiceInterface
	hub     *websocket.Hub
}

// NewHandler creates a new messaging handler
func NewHandler(service ServiceInterface, hub *websocket.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes registers messaging routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	auth := middleware.AuthMiddleware(jwtSecret)

	conversations := router.Group("/conversations")
	conversations.Use(auth)
	{
		conversations.POST("", h.StartConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id", h.GetConversation)
		conversations.POST("/:id/messages", h.SendMessage)
		conversations.GET("/:id/messages", h.ListMessages)
		conversations.PUT("/:id/read", h.MarkRead)
	}

	router.GET("/ws", auth, h.ServeWS)
}

// StartConversation opens (or returns) a conversation about a listing
func (h *Handler) StartConversation(c *gin.Context) {
	buyerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	conversation, err := h.service.StartConversation(c.Request.Context(), buyerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, conversation)
}

// ListConversations lists the authenticated user's conversations
func (h *Handler) ListConversations(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	conversations, total, err := h.service.ListConversations(c.Request.Context(), userID, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponseWithMeta(c, conversations, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetConversation returns one conversation the user participates in
func (h *Handler) GetConversation(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	conversation, err := h.service.GetConversation(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, conversation)
}

// SendMessage sends a message into a conversation
func (h *Handler) SendMessage(c *gin.Context) {
	senderID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.SendMessage(c.Request.Context(), conversationID, senderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// ListMessages lists messages in a conversation
func (h *Handler) ListMessages(c *gin.Context) {
	requesterID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	params := pagination.ParseParams(c)
	messages, total, err := h.service.ListMessages(c.Request.Context(), conversationID, requesterID, int64(params.Limit), int64(params.Offset))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponseWithMeta(c, messages, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// MarkRead marks the other participant's messages as read
func (h *Handler) MarkRead(c *gin.Context) {
	readerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	updated, err := h.service.MarkRead(c.Request.Context(), conversationID, readerID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"updated": updated})
}

// ServeWS upgrades the connection and attaches the user to the hub
func (h *Handler) ServeWS(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(userID.String(), conn, h.hub, c.GetString(middleware.UserRoleKey), logger.Get())
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	logger.WithContext(c.Request.Context()).Error("Unhandled messaging handler error", zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

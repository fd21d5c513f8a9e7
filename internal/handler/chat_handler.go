package handler

import (
	"net/http"

	"agrofrete/internal/middleware"
	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	parties := middleware.RequireRole(model.RoleCooperative, model.RoleTransporter)
	router.POST("/api/requests/:id/messages", parties, h.Send)
	router.GET("/api/requests/:id/messages", middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin), h.List)
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send posts a chat message on a transport request thread
func (h *ChatHandler) Send(c *gin.Context) {
	actor, requestID, ok := actorAndID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), actor, requestID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, msg))
}

// List returns the thread in chronological order
func (h *ChatHandler) List(c *gin.Context) {
	actor, requestID, ok := actorAndID(c)
	if !ok {
		return
	}

	messages, err := h.chatService.List(c.Request.Context(), actor, requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, messages))
}

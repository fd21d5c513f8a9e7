package handler

import (
	"net/http"

	"agrofrete/internal/middleware"
	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/pkg/pagination"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin)

	notifications := router.Group("/api/notifications")
	{
		notifications.GET("", anyRole, h.List)
		notifications.PUT("/:id/read", anyRole, h.MarkRead)
	}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	params := pagination.Parse(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := h.notificationService.List(c.Request.Context(), actor, unreadOnly, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   notifications,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// MarkRead acknowledges one of the caller's own notifications
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"read": id}))
}

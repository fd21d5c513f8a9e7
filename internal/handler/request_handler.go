package handler

import (
	"net/http"

	"agrofrete/internal/middleware"
	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/internal/workflow"
	"agrofrete/pkg/pagination"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin)

	requests := router.Group("/api/requests")
	{
		requests.POST("", middleware.RequireRole(model.RoleCooperative), h.Create)
		requests.GET("", anyRole, h.List)
		requests.GET("/:id", anyRole, h.Get)
		requests.PUT("/:id/accept", middleware.RequireRole(model.RoleTransporter), h.Accept)
		requests.PUT("/:id/reject", middleware.RequireRole(model.RoleTransporter), h.Reject)
		requests.PUT("/:id/complete", middleware.RequireRole(model.RoleAdmin), h.Complete)
		requests.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

// actorAndID pulls the workflow actor plus the :id path parameter; the two
// are needed by every single-entity route.
func actorAndID(c *gin.Context) (workflow.Actor, uuid.UUID, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return workflow.Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid id"))
		return workflow.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

// Create posts a new transport request
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	var dto service.CreateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	req, err := h.requestService.Create(c.Request.Context(), actor, dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, req))
}

// List returns transport requests visible to the caller's role
func (h *RequestHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	params := pagination.Parse(c)
	requests, total, err := h.requestService.List(c.Request.Context(), actor, service.ListRequestsDTO{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   requests,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// Get returns a single transport request
func (h *RequestHandler) Get(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	req, err := h.requestService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Accept claims a pending request for the calling transporter
func (h *RequestHandler) Accept(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	req, err := h.requestService.Accept(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Reject declines a pending request
func (h *RequestHandler) Reject(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	req, err := h.requestService.Reject(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Complete closes an in-progress transport
func (h *RequestHandler) Complete(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	req, err := h.requestService.Complete(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Delete removes a transport request (admin governance)
func (h *RequestHandler) Delete(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	if err := h.requestService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

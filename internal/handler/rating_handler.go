package handler

import (
	"net/http"

	"agrofrete/internal/middleware"
	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/pkg/pagination"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/ratings", middleware.RequireRole(model.RoleCooperative, model.RoleTransporter), h.Submit)
	router.GET("/api/users/:id/ratings", middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin), h.ListForUser)
}

// Submit posts a post-completion review
func (h *RatingHandler) Submit(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	var dto service.SubmitRatingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rating, err := h.ratingService.Submit(c.Request.Context(), actor, dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rating))
}

// ListForUser returns reviews received by a user
func (h *RatingHandler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid id"))
		return
	}

	params := pagination.Parse(c)
	ratings, total, err := h.ratingService.ListForUser(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   ratings,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

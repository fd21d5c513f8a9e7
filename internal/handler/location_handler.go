package handler

import (
	"net/http"
	"strconv"

	"agrofrete/internal/middleware"
	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/requests/:id/locations", middleware.RequireRole(model.RoleTransporter), h.Report)
	router.GET("/api/requests/:id/locations", middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin), h.Recent)
}

type reportLocationRequest struct {
	Latitude  float64  `json:"latitude" binding:"required"`
	Longitude float64  `json:"longitude" binding:"required"`
	SpeedKmh  *float64 `json:"speed_kmh"`
	Heading   *float64 `json:"heading"`
	AccuracyM *float64 `json:"accuracy_m"`
}

// Report appends a GPS sample for an in-progress transport
func (h *LocationHandler) Report(c *gin.Context) {
	actor, requestID, ok := actorAndID(c)
	if !ok {
		return
	}

	var req reportLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	sample, err := h.locationService.Report(c.Request.Context(), actor, service.ReportLocationDTO{
		TransportRequestID: requestID,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		SpeedKmh:           req.SpeedKmh,
		Heading:            req.Heading,
		AccuracyM:          req.AccuracyM,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sample))
}

// Recent returns the latest samples, newest first
func (h *LocationHandler) Recent(c *gin.Context) {
	actor, requestID, ok := actorAndID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	samples, err := h.locationService.Recent(c.Request.Context(), actor, requestID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, samples))
}

package handler

import (
	"net/http"

	"agrofrete/internal/middleware"
	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProposalHandler struct {
	proposalService service.ProposalService
}

func NewProposalHandler(proposalService service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

func (h *ProposalHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin)

	proposals := router.Group("/api/proposals")
	{
		proposals.POST("", middleware.RequireRole(model.RoleTransporter), h.Submit)
		proposals.GET("/:id", anyRole, h.Get)
		proposals.PUT("/:id/payment", middleware.RequireRole(model.RoleCooperative), h.SubmitPayment)
		proposals.PUT("/:id/confirm", middleware.RequireRole(model.RoleAdmin), h.ConfirmPayment)
	}

	router.GET("/api/requests/:id/proposals", middleware.RequireRole(model.RoleCooperative, model.RoleAdmin), h.ListByRequest)
}

// Submit creates a priced proposal on a transport request
func (h *ProposalHandler) Submit(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	var dto service.SubmitProposalDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	proposal, err := h.proposalService.Submit(c.Request.Context(), actor, dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, proposal))
}

// Get returns a single proposal
func (h *ProposalHandler) Get(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, proposal))
}

// ListByRequest returns all proposals on a transport request
func (h *ProposalHandler) ListByRequest(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid id"))
		return
	}

	proposals, err := h.proposalService.ListByRequest(c.Request.Context(), actor, requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, proposals))
}

// SubmitPayment records the cooperative's manual payment evidence
func (h *ProposalHandler) SubmitPayment(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	var dto service.SubmitPaymentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	proposal, err := h.proposalService.SubmitPayment(c.Request.Context(), actor, id, dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, proposal))
}

// ConfirmPayment is the admin confirmation gate; the response carries both the
// confirmed proposal and the generated contract
func (h *ProposalHandler) ConfirmPayment(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	proposal, contract, err := h.proposalService.ConfirmPayment(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"proposal": proposal,
		"contract": contract,
	}))
}

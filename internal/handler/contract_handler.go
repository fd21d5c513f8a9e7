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

type ContractHandler struct {
	contractService service.ContractService
}

func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func (h *ContractHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleCooperative, model.RoleTransporter, model.RoleAdmin)

	contracts := router.Group("/api/contracts")
	{
		contracts.GET("", anyRole, h.ListMine)
		contracts.GET("/:id", anyRole, h.Get)
		contracts.PUT("/:id/sign", middleware.RequireRole(model.RoleCooperative, model.RoleTransporter), h.Sign)
	}
}

type signContractRequest struct {
	SignatureName string `json:"signature_name" binding:"required"`
}

// ListMine returns the contracts the caller is a party to
func (h *ContractHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	params := pagination.Parse(c)
	contracts, total, err := h.contractService.ListMine(c.Request.Context(), actor, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   contracts,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// Get returns a single contract
func (h *ContractHandler) Get(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	contract, err := h.contractService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}

// Sign records the caller's typed-name signature on the contract
func (h *ContractHandler) Sign(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	var req signContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	contract, err := h.contractService.Sign(c.Request.Context(), actor, id, req.SignatureName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}

package handler

import (
	"errors"
	"net/http"

	"agrofrete/internal/workflow"
	"agrofrete/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps a workflow failure kind to its HTTP status. Anything outside
// the taxonomy is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrConflictLost),
		errors.Is(err, workflow.ErrDuplicateProposal),
		errors.Is(err, workflow.ErrAlreadySigned):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrInvalidState),
		errors.Is(err, workflow.ErrTransportNotActive),
		errors.Is(err, workflow.ErrRatingNotAllowed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrInvalidInput),
		errors.Is(err, workflow.ErrMissingPaymentEvidence):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the standard error envelope with the kind-specific
// status and the full detail message, so the UI can explain why an operation
// was refused.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, err.Error()))
}

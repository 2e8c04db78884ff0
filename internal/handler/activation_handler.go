package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rlawlghkd12/tutomate-sub000/internal/dto"
	"github.com/rlawlghkd12/tutomate-sub000/internal/service"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/middleware"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/response"
)

// ActivationHandler handles license activation HTTP requests
type ActivationHandler struct {
	activationService service.ActivationService
}

// NewActivationHandler creates a new ActivationHandler
func NewActivationHandler(activationService service.ActivationService) *ActivationHandler {
	return &ActivationHandler{activationService: activationService}
}

// Activate handles license activation
// POST /api/v1/license/activate
func (h *ActivationHandler) Activate(c *gin.Context) {
	var req dto.ActivateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrWithDetail(response.CodeInvalidInput, err.Error()))
		return
	}

	result, err := h.activationService.Activate(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		code := activationErrorCode(err)
		c.JSON(response.StatusFor(code), response.Err(code))
		return
	}

	c.JSON(http.StatusOK, result)
}

// activationErrorCode maps activation sentinel errors to wire codes
func activationErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidFormat):
		return response.CodeInvalidFormat
	case errors.Is(err, service.ErrInvalidKey):
		return response.CodeInvalidKey
	case errors.Is(err, service.ErrUnauthorized):
		return response.CodeUnauthorized
	case errors.Is(err, service.ErrMaxSeatsReached):
		return response.CodeMaxSeatsReached
	case errors.Is(err, service.ErrAlreadyActivated):
		return response.CodeForbidden
	case errors.Is(err, service.ErrLinkFailed):
		return response.CodeLinkFailed
	case errors.Is(err, service.ErrOrgCreationFailed):
		return response.CodeOrgCreationFailed
	default:
		return response.CodeInternalError
	}
}

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

// LicenseHandler handles admin-side license key management
type LicenseHandler struct {
	licenseService service.LicenseService
	orgService     service.OrganizationService
}

// NewLicenseHandler creates a new LicenseHandler
func NewLicenseHandler(licenseService service.LicenseService, orgService service.OrganizationService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
		orgService:     orgService,
	}
}

// requireAdmin ensures the caller belongs to an admin-plan organization
func (h *LicenseHandler) requireAdmin(c *gin.Context) bool {
	isAdmin, err := h.orgService.IsAdmin(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Err(response.CodeInternalError))
		return false
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, response.Err(response.CodeForbidden))
		return false
	}
	return true
}

// Generate handles license key issuance
// POST /api/v1/admin/licenses
func (h *LicenseHandler) Generate(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req dto.GenerateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrWithDetail(response.CodeInvalidInput, err.Error()))
		return
	}

	result, err := h.licenseService.Generate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlan) || errors.Is(err, service.ErrMemoTooLong) {
			c.JSON(http.StatusBadRequest, response.ErrWithDetail(response.CodeInvalidInput, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Err(response.CodeInsertFailed))
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List handles listing all issued license keys
// GET /api/v1/admin/licenses
func (h *LicenseHandler) List(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	result, err := h.licenseService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Err(response.CodeInternalError))
		return
	}

	c.JSON(http.StatusOK, result)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
	"github.com/rlawlghkd12/tutomate-sub000/internal/service"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/middleware"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/response"
)

// TableHandler serves the organization-scoped entity table API consumed by
// the desktop client's cloud mode
type TableHandler struct {
	tableService service.TableService
	orgService   service.OrganizationService
}

// NewTableHandler creates a new TableHandler
func NewTableHandler(tableService service.TableService, orgService service.OrganizationService) *TableHandler {
	return &TableHandler{
		tableService: tableService,
		orgService:   orgService,
	}
}

// resolveOrg resolves the caller's organization or writes the error response
func (h *TableHandler) resolveOrg(c *gin.Context) (*domain.Organization, bool) {
	org, err := h.orgService.ResolveForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotActivated) {
			c.JSON(http.StatusForbidden, response.Err(response.CodeForbidden))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, response.Err(response.CodeInternalError))
		return nil, false
	}
	return org, true
}

// Select handles listing all rows of a table
// GET /api/v1/tables/:table
func (h *TableHandler) Select(c *gin.Context) {
	org, ok := h.resolveOrg(c)
	if !ok {
		return
	}

	rows, err := h.tableService.Select(c.Request.Context(), c.Param("table"), org.ID)
	if err != nil {
		h.writeError(c, err, response.CodeInternalError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Insert handles inserting a row
// POST /api/v1/tables/:table
func (h *TableHandler) Insert(c *gin.Context) {
	org, ok := h.resolveOrg(c)
	if !ok {
		return
	}

	var row repository.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrWithDetail(response.CodeInvalidInput, err.Error()))
		return
	}

	if err := h.tableService.Insert(c.Request.Context(), c.Param("table"), org.ID, row); err != nil {
		h.writeError(c, err, response.CodeInsertFailed)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// Update handles partial row updates
// PATCH /api/v1/tables/:table/:id
func (h *TableHandler) Update(c *gin.Context) {
	org, ok := h.resolveOrg(c)
	if !ok {
		return
	}

	var updates repository.Row
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrWithDetail(response.CodeInvalidInput, err.Error()))
		return
	}

	if err := h.tableService.Update(c.Request.Context(), c.Param("table"), org.ID, c.Param("id"), updates); err != nil {
		h.writeError(c, err, response.CodeInternalError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles row deletion
// DELETE /api/v1/tables/:table/:id
func (h *TableHandler) Delete(c *gin.Context) {
	org, ok := h.resolveOrg(c)
	if !ok {
		return
	}

	if err := h.tableService.Delete(c.Request.Context(), c.Param("table"), org.ID, c.Param("id")); err != nil {
		h.writeError(c, err, response.CodeInternalError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// writeError maps table service errors to wire codes
func (h *TableHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUnknownTable), errors.Is(err, service.ErrRowNotFound):
		c.JSON(http.StatusNotFound, response.Err(response.CodeNotFound))
	case errors.Is(err, service.ErrMissingRowID):
		c.JSON(http.StatusBadRequest, response.Err(response.CodeInvalidInput))
	default:
		c.JSON(response.StatusFor(fallback), response.Err(fallback))
	}
}

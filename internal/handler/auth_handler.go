package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rlawlghkd12/tutomate-sub000/internal/service"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/response"
)

// AuthHandler handles session HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateAnonymousSession handles anonymous session creation
// POST /api/v1/auth/anonymous
func (h *AuthHandler) CreateAnonymousSession(c *gin.Context) {
	result, err := h.authService.CreateAnonymousSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Err(response.CodeInternalError))
		return
	}

	c.JSON(http.StatusCreated, result)
}

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rlawlghkd12/tutomate-sub000/internal/di"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/config"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/middleware"
)

// Setup builds the gin engine with all routes and middleware wired
func Setup(cfg *config.Config, c *di.Container, rateLimiter gin.HandlerFunc) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", c.HealthHandler.Health)
	r.GET("/ready", c.HealthHandler.Ready)

	api := r.Group("/api/v1")

	api.POST("/auth/anonymous", c.AuthHandler.CreateAnonymousSession)

	// Activation validates the key before the caller identity, so the auth
	// here is optional and the service itself rejects anonymous-less calls.
	activate := api.Group("/license")
	activate.Use(middleware.OptionalBearerAuth(cfg.JWT.Secret))
	if rateLimiter != nil {
		activate.Use(rateLimiter)
	}
	activate.POST("/activate", c.ActivationHandler.Activate)

	auth := middleware.BearerAuth(&middleware.AuthConfig{Secret: cfg.JWT.Secret})

	admin := api.Group("/admin")
	admin.Use(auth)
	admin.POST("/licenses", c.LicenseHandler.Generate)
	admin.GET("/licenses", c.LicenseHandler.List)

	tables := api.Group("/tables")
	tables.Use(auth)
	tables.GET("/:table", c.TableHandler.Select)
	tables.POST("/:table", c.TableHandler.Insert)
	tables.PATCH("/:table/:id", c.TableHandler.Update)
	tables.DELETE("/:table/:id", c.TableHandler.Delete)

	return r
}

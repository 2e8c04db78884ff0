package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rlawlghkd12/tutomate-sub000/pkg/response"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
)

// Context keys for session information
const (
	ContextKeyUserID    = "user_id"
	ContextKeyAnonymous = "anonymous"
)

// AuthConfig holds configuration for the bearer-token middleware
type AuthConfig struct {
	// Secret key for validating session tokens
	Secret string
	// SkipPaths is a list of paths that should skip token validation
	SkipPaths []string
}

// BearerAuth validates the session JWT and injects the caller identity.
// Anonymous sessions are valid callers; they carry a user_id claim like any
// other session.
func BearerAuth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err(response.CodeUnauthorized))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err(response.CodeUnauthorized))
			return
		}
		tokenString := authHeader[len(bearerPrefix):]

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err(response.CodeUnauthorized))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(config.Secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err(response.CodeUnauthorized))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err(response.CodeUnauthorized))
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err(response.CodeUnauthorized))
			return
		}

		anonymous, _ := claims["anonymous"].(bool)

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyAnonymous, anonymous)

		c.Next()
	}
}

// OptionalBearerAuth injects the caller identity when a valid token is
// present but never rejects the request. Endpoints that order their own
// validation ahead of the auth check use this and treat a missing identity
// as unauthorized themselves.
func OptionalBearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.Next()
			return
		}
		tokenString := authHeader[len(bearerPrefix):]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		if userID, ok := claims["user_id"].(string); ok && userID != "" {
			anonymous, _ := claims["anonymous"].(bool)
			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyAnonymous, anonymous)
		}

		c.Next()
	}
}

// UserID returns the authenticated caller id injected by BearerAuth
func UserID(c *gin.Context) string {
	id, _ := c.Get(ContextKeyUserID)
	s, _ := id.(string)
	return s
}

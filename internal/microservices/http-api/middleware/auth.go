package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares in this package.
const (
	ContextClaims    = "claims"
	ContextUserID    = "userID"
	ContextRole      = "role"
	ContextRequestID = "requestID"
	ContextLogger    = "logger"
)

// TokenValidator resolves a bearer token to its claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It only resolves who the caller is; what they may do is decided by the
// services.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		// format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				Logger(c).Error("token validation failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "internal server error",
					"error":   "internal",
					"code":    c.GetString(ContextRequestID),
				})
				return
			}
			msg := "invalid token"
			if errors.Is(err, service.ErrExpiredToken) {
				msg = "token has expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, string(claims.Role))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg, "error": "unauthorized"})
}

// UserID returns the authenticated caller, or 0 when the request is anonymous.
func UserID(c *gin.Context) uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// Claims returns the token claims of the authenticated caller, if any.
func Claims(c *gin.Context) *service.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}

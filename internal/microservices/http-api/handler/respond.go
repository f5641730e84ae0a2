package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).Error("request failed", "error", err)
		c.JSON(status, gin.H{
			"message": "internal server error",
			"error":   kind,
			"code":    c.GetString(middleware.ContextRequestID),
		})
		return
	}
	c.JSON(status, gin.H{"message": err.Error(), "error": kind})
}

// respondBindError renders binding failures, listing offending fields when
// the validator produced them.
func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": "validation"})
		return
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[jsonField(fe)] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "validation failed",
		"error":   "validation",
		"fields":  fields,
	})
}

// jsonField converts "CreateBookRequest.Copies" style namespaces to snake_case keys.
func jsonField(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("invalid %s", param),
			"error":   "validation",
		})
		return 0, false
	}
	return uint(id), true
}

package handler

import (
	"log/slog"

	"libraryhub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything NewRouter mounts. Nil handlers are skipped.
type Handlers struct {
	Auth    *AuthHandler
	Request *RequestHandler
	Loan    *LoanHandler
	Fine    *FineHandler
	User    *UserHandler
	Book    *BookHandler
	Summary *SummaryHandler
	Health  *HealthHandler
}

type RouterOptions struct {
	Logger      *slog.Logger
	Validator   middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the /api/v1 engine. Role checks happen in the services, so
// the protected group only requires a valid token.
func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(opts.Logger), gin.Recovery())
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	api := r.Group("/api/v1")
	if h.Health != nil {
		h.Health.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Validator))

	if h.Auth != nil {
		h.Auth.RegisterRoutes(api, protected)
	}
	if h.Request != nil {
		h.Request.RegisterRoutes(protected)
	}
	if h.Loan != nil {
		h.Loan.RegisterRoutes(protected)
	}
	if h.Fine != nil {
		h.Fine.RegisterRoutes(protected)
	}
	if h.User != nil {
		h.User.RegisterRoutes(protected)
	}
	if h.Book != nil {
		h.Book.RegisterRoutes(protected)
	}
	if h.Summary != nil {
		h.Summary.RegisterRoutes(protected)
	}
	return r
}

package handler

import (
	"net/http"

	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// SummaryHandler serves the dashboard counters of both panels.
type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/librarian/summary", h.Librarian)
	rg.GET("/me/summary", h.Reader)
}

func (h *SummaryHandler) Librarian(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.summaryService.Librarian(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *SummaryHandler) Reader(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.summaryService.Reader(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

package handler

import (
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	loanService service.LoanService
}

func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/loans/:id/return", h.Return)
	rg.GET("/me/loans", h.ListMine)
}

// Return POST /loans/:id/return
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	loan, err := h.loanService.Return(ctx, id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLoan(loan))
}

func (h *LoanHandler) ListMine(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	loans, err := h.loanService.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": dto.FromLoans(loans), "total": len(loans)})
}

package handler

import (
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type FineHandler struct {
	fineService service.FineService
}

func NewFineHandler(fineService service.FineService) *FineHandler {
	return &FineHandler{fineService: fineService}
}

func (h *FineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/fines", h.ListByStatus)
	rg.POST("/fines/:id/process", h.Process)
	rg.GET("/me/fines", h.ListMine)
}

// Process POST /fines/:id/process with {"action": "pay"|"waive"}
func (h *FineHandler) Process(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ProcessFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	fine, err := h.fineService.Process(ctx, id, middleware.UserID(c), service.FineAction(req.Action))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromFine(fine))
}

// ListByStatus GET /fines?status=Pending
func (h *FineHandler) ListByStatus(c *gin.Context) {
	status := models.FineStatus(c.DefaultQuery("status", string(models.FinePending)))

	ctx, cancel := requestContext(c)
	defer cancel()

	fines, err := h.fineService.ListByStatus(ctx, middleware.UserID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fines": dto.FromFines(fines), "total": len(fines)})
}

func (h *FineHandler) ListMine(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	fines, err := h.fineService.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fines": dto.FromFines(fines), "total": len(fines)})
}

package handler

import (
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.ListByStatus)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
	}
	rg.GET("/me/requests", h.ListMine)
}

// Submit POST /requests
func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	created, err := h.requestService.Submit(ctx, middleware.UserID(c), req.BookIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRequest(created))
}

// Approve POST /requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	loans, err := h.requestService.Approve(ctx, id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ApproveResponse{
		Message: "request approved",
		Loans:   dto.FromLoans(loans),
	})
}

// Reject POST /requests/:id/reject
func (h *RequestHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.requestService.Reject(ctx, id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request rejected"})
}

// ListByStatus GET /requests?status=Pending
func (h *RequestHandler) ListByStatus(c *gin.Context) {
	status := models.RequestStatus(c.DefaultQuery("status", string(models.RequestPending)))

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.requestService.ListByStatus(ctx, middleware.UserID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": dto.FromRequests(list), "total": len(list)})
}

func (h *RequestHandler) ListMine(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.requestService.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": dto.FromRequests(list), "total": len(list)})
}

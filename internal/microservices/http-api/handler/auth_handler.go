package handler

import (
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the public endpoints on public and logout on protected.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)
	protected.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	in := service.RegisterInput{
		FirstName:       req.FirstName,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		Address:         req.Address,
		Gender:          req.Gender,
	}
	if req.BirthDate != nil {
		// already checked by the datetime binding
		d, _ := time.Parse(time.DateOnly, *req.BirthDate)
		in.BirthDate = &d
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.Register(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUser(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pair, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(pair, user))
}

// Refresh rotates both tokens.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(pair, nil))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	// empty body is fine
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.Logout(ctx, req.RefreshToken, middleware.Claims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func authResponse(pair *service.TokenPair, user *models.User) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         dto.FromUser(user),
	}
}

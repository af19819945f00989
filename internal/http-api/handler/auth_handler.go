package handler

import (
	"net/http"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the public authentication routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/register", h.Register)
	router.GET("/confirm/:token", h.Confirm)
	router.POST("/email/forgot", h.Forgot)
	router.POST("/email/reset/:token", h.Reset)
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.authService.Register(ctx, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{
		Message: "Your account has been created. Please check your email for the confirmation message we just sent you.",
	})
}

// Login exchanges credentials for an access token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, err := h.authService.Login(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token})
}

// Confirm activates an account
// GET /api/auth/confirm/:token
func (h *AuthHandler) Confirm(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.Confirm(ctx, c.Param("token")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Your registration is complete. Now you can login."})
}

// Forgot issues a password reset token
// POST /api/auth/email/forgot
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req dto.ForgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.Forgot(ctx, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "An email has been sent to " + req.Email + " with further password reset information. Thank you.",
	})
}

// Reset sets a new password using a reset token
// POST /api/auth/email/reset/:token
func (h *AuthHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.Reset(ctx, c.Param("token"), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "You have successfully updated your password."})
}

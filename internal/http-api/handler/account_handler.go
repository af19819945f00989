package handler

import (
	"net/http"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// RegisterRoutes registers account routes (already authenticated by parent middleware)
func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/detail", h.Detail)
	router.GET("/activity", h.Activity)
	router.POST("/token", h.Token)
	router.POST("/update", h.Update)
	router.POST("/upload", h.Upload)
	router.POST("/password", h.Password)
}

// GET /api/account/detail
func (h *AccountHandler) Detail(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.accountService.Detail(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GET /api/account/activity
func (h *AccountHandler) Activity(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.accountService.Activities(ctx, uid, parseListQuery(c, "activities.id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// POST /api/account/token
func (h *AccountHandler) Token(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, err := h.accountService.RefreshToken(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token})
}

// POST /api/account/update
func (h *AccountHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, err := h.accountService.UpdateProfile(ctx, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, Message: "Your profile has been changed"})
}

// POST /api/account/upload
func (h *AccountHandler) Upload(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	upload, closeFile, ok := formUpload(c, "file_image")
	if !ok {
		return
	}
	defer closeFile()

	ctx, cancel := requestContext(c)
	defer cancel()

	image, err := h.accountService.UploadImage(ctx, uid, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ImageResponse{Image: image, Message: "Your profile image has been changed"})
}

// POST /api/account/password
func (h *AccountHandler) Password(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.accountService.ChangePassword(ctx, uid, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Your password has been changed!!"})
}

package handler

import (
	"net/http"
	"strconv"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService service.ArticleService
}

func NewArticleHandler(articleService service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// RegisterPublicRoutes registers article routes that need no token
func (h *ArticleHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/list", h.List)
}

// RegisterRoutes registers article routes (already authenticated by parent middleware)
func (h *ArticleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/user", h.ListByUser)
	router.GET("/words", h.Words)
	router.POST("/create", h.Create)
	router.GET("/read/:slug", h.Read)
	router.PUT("/update/:id", h.Update)
	router.DELETE("/remove/:id", h.Delete)
	router.POST("/upload/:id", h.Upload)
}

// List returns published articles
// GET /api/article/list
func (h *ArticleHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.articleService.ListPublished(ctx, parseListQuery(c, "articles.id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByUser returns the caller's articles in every status
// GET /api/article/user
func (h *ArticleHandler) ListByUser(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.articleService.ListByUser(ctx, uid, parseListQuery(c, "articles.id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/article/create
func (h *ArticleHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req dto.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.articleService.Create(ctx, uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// GET /api/article/read/:slug
func (h *ArticleHandler) Read(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.articleService.Read(ctx, uid, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ArticleReadResponse{Message: "ok", Data: article})
}

// PUT /api/article/update/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	articleID, ok := idParam(c, "id", "article")
	if !ok {
		return
	}

	var req dto.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.articleService.Update(ctx, uid, articleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// DELETE /api/article/remove/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	articleID, ok := idParam(c, "id", "article")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.articleService.Delete(ctx, uid, articleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

// POST /api/article/upload/:id
func (h *ArticleHandler) Upload(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	articleID, ok := idParam(c, "id", "article")
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

	image, err := h.articleService.UploadImage(ctx, uid, articleID, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ImageResponse{Image: image, Message: "Your article image has been changed"})
}

// Words returns random title suggestions
// GET /api/article/words?max=10
func (h *ArticleHandler) Words(c *gin.Context) {
	max, err := strconv.Atoi(c.DefaultQuery("max", strconv.Itoa(service.DefaultWords)))
	if err != nil {
		badRequest(c, "Invalid max value")
		return
	}
	c.JSON(http.StatusOK, h.articleService.Words(c.Request.Context(), max))
}

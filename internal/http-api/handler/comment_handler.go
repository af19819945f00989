package handler

import (
	"net/http"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/list/:articleId", h.List)
}

// RegisterRoutes registers comment write routes (already authenticated by parent middleware)
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create/:articleId", h.Create)
	router.DELETE("/remove/:id", h.Delete)
}

// List returns the threaded comments of an article
// GET /api/comment/list/:articleId
func (h *CommentHandler) List(c *gin.Context) {
	articleID, ok := idParam(c, "articleId", "article")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tree, err := h.commentService.ListByArticle(ctx, articleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentTreeResponse{Message: "ok", Data: tree})
}

// Create posts a comment or a reply
// POST /api/comment/create/:articleId
func (h *CommentHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	articleID, ok := idParam(c, "articleId", "article")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Create(ctx, uid, articleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete removes a comment with its replies
// DELETE /api/comment/remove/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "id", "comment")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.commentService.Delete(ctx, uid, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

package handler

import (
	"net/http"

	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterRoutes registers notification routes (already authenticated by parent middleware)
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/list", h.List)
	router.GET("/read/:id", h.Read)
	router.DELETE("/remove/:id", h.Delete)
}

// GET /api/notification/list
func (h *NotificationHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.notificationService.List(ctx, uid, parseListQuery(c, "notifications.id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/notification/read/:id
func (h *NotificationHandler) Read(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "notification")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.notificationService.Read(ctx, uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DELETE /api/notification/remove/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "notification")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.notificationService.Delete(ctx, uid, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

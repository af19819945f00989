package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogapi/internal/http-api/middleware"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

var kindStatus = map[service.ErrorKind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindNotFound:     http.StatusNotFound,
	service.KindConflict:     http.StatusConflict,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindInternal:     http.StatusInternalServerError,
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError renders a service error as {"error", "kind"}.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		slog.Error("request_failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": service.MessageOf(err), "kind": kind})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "kind": service.KindValidation})
}

// userID reads the authenticated caller; it aborts with 401 when missing.
func userID(c *gin.Context) (uint64, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated", "kind": service.KindUnauthorized})
		return 0, false
	}
	return id, true
}

func idParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// parseListQuery reads page, limit, order_dir, order_desc and search.
// order_dir names the sort column, order_desc is "asc" or "desc".
func parseListQuery(c *gin.Context, defaultOrder string) repository.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return repository.ListQuery{
		Page:    page,
		Limit:   limit,
		OrderBy: c.DefaultQuery("order_dir", defaultOrder),
		Desc:    !strings.EqualFold(strings.TrimSpace(c.DefaultQuery("order_desc", "desc")), "asc"),
		Search:  c.Query("search"),
	}.Normalize()
}

// formUpload opens the multipart file in field.
func formUpload(c *gin.Context, field string) (service.Upload, func(), bool) {
	header, err := c.FormFile(field)
	if err != nil {
		badRequest(c, "Please select an image to upload.")
		return service.Upload{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		badRequest(c, "The uploaded file could not be read.")
		return service.Upload{}, nil, false
	}
	return service.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  f,
	}, func() { _ = f.Close() }, true
}

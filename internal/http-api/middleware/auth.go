package middleware

import (
	"net/http"
	"strings"

	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextUser   = "user"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It resolves the bearer token to the stored user and rejects the request otherwise.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
				"kind":  service.KindUnauthorized,
			})
			return
		}

		// format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization header format",
				"kind":  service.KindUnauthorized,
			})
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			status := http.StatusUnauthorized
			if service.KindOf(err) == service.KindInternal {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{
				"error": service.MessageOf(err),
				"kind":  service.KindOf(err),
			})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// CurrentUser returns the user row loaded by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

package router

import (
	"log/slog"
	"net/http"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/http-api/handler"
	"blogapi/internal/http-api/middleware"
	"blogapi/internal/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the collaborators the HTTP layer is built on.
type Services struct {
	Auth         service.AuthService
	Account      service.AccountService
	Article      service.ArticleService
	Comment      service.CommentService
	Notification service.NotificationService
}

// Options configure the engine.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Limiter middleware.Limiter // nil disables rate limiting
}

// New builds the gin engine with every route of the API.
func New(svc Services, opts Options) *gin.Engine {
	cfg := opts.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.MaxMultipartMemory = cfg.UploadMaxSize

	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthMiddleware(svc.Auth)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		if opts.Limiter != nil && cfg.RateLimitEnabled {
			authGroup.Use(middleware.RateLimit(opts.Limiter, cfg.RateLimitCapacity, opts.Logger))
		}
		handler.NewAuthHandler(svc.Auth).RegisterRoutes(authGroup)

		handler.NewAccountHandler(svc.Account).RegisterRoutes(api.Group("/account", requireAuth))

		articles := handler.NewArticleHandler(svc.Article)
		articles.RegisterPublicRoutes(api.Group("/article"))
		articles.RegisterRoutes(api.Group("/article", requireAuth))

		comments := handler.NewCommentHandler(svc.Comment)
		comments.RegisterPublicRoutes(api.Group("/comment"))
		comments.RegisterRoutes(api.Group("/comment", requireAuth))

		handler.NewNotificationHandler(svc.Notification).RegisterRoutes(api.Group("/notification", requireAuth))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

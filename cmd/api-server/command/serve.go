package command

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"blogapi/database"
	"blogapi/internal/config"
	"blogapi/internal/http-api/middleware"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/http-api/router"
	"blogapi/internal/http-api/service"
	"blogapi/internal/queue"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if autoMigrate {
		if err := database.Migrate(db, logger); err != nil {
			return err
		}
	}

	publisher := queue.New(cfg.AMQPURL, cfg.ActivityQueue, logger)
	defer publisher.Close()

	var limiter middleware.Limiter
	if cfg.RateLimitEnabled {
		rdb := config.NewRedisClient(cfg)
		if rdb != nil {
			defer rdb.Close()
		}
		limiter = middleware.NewLimiter(cfg, rdb)
	}

	services, err := buildServices(cfg, db, publisher, logger)
	if err != nil {
		return err
	}

	engine := router.New(services, router.Options{
		Config:  cfg,
		Logger:  logger,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server_stopped_gracefully")
	return nil
}

// buildServices wires repositories into the service layer.
func buildServices(cfg *config.Config, db *gorm.DB, publisher queue.Publisher, logger *slog.Logger) (router.Services, error) {
	store, err := service.NewLocalStore(cfg.UploadDir, cfg.UploadMaxSize)
	if err != nil {
		return router.Services{}, err
	}

	users := repository.NewUserRepository(db)
	articles := repository.NewArticleRepository(db)
	comments := repository.NewCommentRepository(db)
	notifications := repository.NewNotificationRepository(db)
	activities := repository.NewActivityRepository(db)

	recorder := service.NewRecorder(activities, notifications, publisher, logger)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	return router.Services{
		Auth:         service.NewAuthService(users, tokens, recorder, cfg.RequireEmailConfirmation),
		Account:      service.NewAccountService(users, activities, tokens, store, recorder),
		Article:      service.NewArticleService(articles, users, store, recorder),
		Comment:      service.NewCommentService(comments, articles, recorder, cfg.NotifyRecipient),
		Notification: service.NewNotificationService(notifications, recorder),
	}, nil
}

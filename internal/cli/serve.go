package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"todo-api/internal/cache"
	"todo-api/internal/config"
	"todo-api/internal/controller"
	"todo-api/internal/database"
	"todo-api/internal/queue"
	"todo-api/internal/repository"
	"todo-api/internal/routes"
	"todo-api/internal/service"
	"todo-api/internal/token"
	"todo-api/internal/worker"
	"todo-api/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tokens, err := token.New(cfg.JWTSecret)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// Redis is optional; an unreachable cache degrades to direct reads.
	todoCache, err := cache.New(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Redis unavailable, continuing without cache", "error", err)
		todoCache = nil
	}
	defer todoCache.Close()

	queue.EnsureTopic(ctx, cfg)
	publisher := queue.NewPublisher(ctx, cfg)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Consumes todo events, invalidates cache, writes the audit log
	go worker.Run(ctx, cfg, todoCache)

	todos := service.NewTodoService(repository.NewTodoRepository(db), todoCache, publisher)
	auth := service.NewAuthService(repository.NewUserRepository(db), tokens)

	health := &controller.HealthController{DB: db}
	if todoCache != nil {
		health.Cache = controller.PingerFunc(todoCache.Ping)
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: routes.Router(routes.Handlers{
			Auth:   &controller.AuthController{Auth: auth, Tokens: tokens},
			Todos:  &controller.TodoController{Todos: todos},
			Health: health,
			Tokens: tokens,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashwatpal1021/Master-O/internal/config"
	"github.com/shashwatpal1021/Master-O/internal/database"
	"github.com/shashwatpal1021/Master-O/internal/handler"
	"github.com/shashwatpal1021/Master-O/internal/middleware"
	"github.com/shashwatpal1021/Master-O/internal/repository"
	"github.com/shashwatpal1021/Master-O/internal/router"
	"github.com/shashwatpal1021/Master-O/internal/service"
)

type App struct {
	server *http.Server
	db     *database.DB
	tokens *repository.TokenRepository
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	slog.Info("database ready")

	authService := service.NewAuthService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, userRepo, tokenRepo)
	taskService := service.NewTaskService(taskRepo, userRepo)
	userService := service.NewUserService(userRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth: handler.NewAuthHandler(authService, cfg.IsProduction()),
		Task: handler.NewTaskHandler(taskService),
		User: handler.NewUserHandler(userService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db, tokens: tokenRepo}, nil
}

func (a *App) Run() error {
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go a.cleanupExpiredTokens(cleanupCtx)

	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}

// cleanupExpiredTokens prunes expired refresh token rows once an hour until
// ctx is cancelled.
func (a *App) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.tokens.DeleteExpired(ctx)
			if err != nil {
				slog.Error("refresh token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("pruned expired refresh tokens", "count", removed)
			}
		}
	}
}

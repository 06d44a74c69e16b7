package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashwatpal1021/Master-O/internal/config"
	"github.com/shashwatpal1021/Master-O/internal/database"
	"github.com/shashwatpal1021/Master-O/internal/logger"
	"github.com/shashwatpal1021/Master-O/internal/model"
	"github.com/shashwatpal1021/Master-O/internal/repository"
)

// createadmin seeds (or resets) the bootstrap ADMIN account so a fresh
// deployment has a user able to register everyone else.
func main() {
	name := flag.String("name", "Admin", "admin display name")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "adminpass123", "admin password")
	flag.Parse()

	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	admin := model.User{
		ID:           uuid.NewString(),
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	userRepo := repository.NewUserRepository(db.Pool)
	if err := userRepo.Upsert(ctx, admin); err != nil {
		slog.Error("failed to upsert admin user", "error", err)
		os.Exit(1)
	}

	slog.Info("admin user created/updated", "email", admin.Email)
}

// Command createadmin seeds a verified ADMIN account from the
// ADMIN_EMAIL / ADMIN_PASSWORD / ADMIN_NAME environment variables.
// Safe to run repeatedly: an existing account is left untouched.
package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khabarhub/khabar/internal/config"
	"github.com/khabarhub/khabar/internal/db"
	"github.com/khabarhub/khabar/internal/logger"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		slog.Error("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	email := strings.TrimSpace(strings.ToLower(cfg.AdminEmail))
	if err := validation.ValidateEmail(email); err != nil {
		slog.Error("invalid admin email", "error", err)
		os.Exit(1)
	}
	if err := validation.ValidatePassword(cfg.AdminPassword); err != nil {
		slog.Error("invalid admin password", "error", err)
		os.Exit(1)
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepository := repository.NewUserRepository(database)

	existing, err := userRepository.ByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		slog.Error("failed to check for existing admin", "error", err)
		os.Exit(1)
	}
	if existing != nil {
		slog.Info("admin account already exists", "email", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	now := time.Now()
	admin := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         cfg.AdminName,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = userRepository.Create(admin)
	if err != nil {
		slog.Error("failed to create admin", "error", err)
		os.Exit(1)
	}

	slog.Info("admin account created", "email", email, "user_id", admin.ID)
}

// Command create_admin creates a user with the ADMIN role. Self-registration
// always yields USER accounts, so this is how the first administrator is made.
//
// Usage:
//
//	create_admin -username admin -email admin@example.com -password secret
//
// Any flag left empty falls back to ADMIN_USERNAME, ADMIN_EMAIL or ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	"github.com/SscSPs/vehicle_registry_app/internal/core/services"
	"github.com/SscSPs/vehicle_registry_app/internal/dto"
	"github.com/SscSPs/vehicle_registry_app/internal/platform/config"
	"github.com/SscSPs/vehicle_registry_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/vehicle_registry_app/pkg/database"
	"github.com/go-playground/validator/v10"
)

func main() {
	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	migrations := flag.String("migrations", "file://migrations", "migration source URL, empty to skip")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	req := dto.CreateUserRequest{Username: *username, Email: *email, Password: *password}
	// Same rules the register endpoint applies through gin binding.
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.SetTagName("binding")
	if err := validate.Struct(req); err != nil {
		logger.Error("Invalid admin user", slog.String("error", err.Error()))
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if *migrations != "" {
		if err := database.RunMigrations(cfg.DatabaseURL, *migrations, logger); err != nil {
			logger.Error("Database migrations failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	userService := services.NewUserService(repos.UserRepo)

	admin, err := userService.CreateUser(ctx, req, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Admin user not created", slog.String("reason", err.Error()))
			os.Exit(3)
		}
		logger.Error("Failed to create admin user", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Admin user created",
		slog.String("user_id", admin.UserID),
		slog.String("username", admin.Username),
	)
}

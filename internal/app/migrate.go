package app

import (
	"context"
	"errors"
	"fmt"

	"wedding_backend/internal/config"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services"

	"gorm.io/gorm"
)

// Migrate создает схему и, если задан FIRST_PLANNER_EMAIL, первого организатора
func Migrate(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("Database schema migrated")

	return seedFirstPlanner(ctx, cfg, db)
}

func seedFirstPlanner(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	seed := cfg.Seed
	if seed.PlannerEmail == "" || seed.PlannerPassword == "" {
		logger.Warn("FIRST_PLANNER_EMAIL or FIRST_PLANNER_PASSWORD is not set. Skipping planner seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()
	_, err := userRepo.FindPlannerByEmail(db.WithContext(ctx), seed.PlannerEmail)
	if err == nil {
		logger.Info("Planner already exists. Skipping creation.", "email", seed.PlannerEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for planner: %w", err)
	}

	planner, err := services.NewAuthService(userRepo).CreatePlanner(ctx, db, seed.PlannerName, seed.PlannerEmail, seed.PlannerPassword)
	if err != nil {
		return fmt.Errorf("failed to create first planner: %w", err)
	}
	logger.Info("Created first planner", "email", planner.Email, "id", planner.ID)
	return nil
}

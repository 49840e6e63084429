package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPlans inserts the default plan catalogue. Existing rows are left
// untouched so admin edits survive restarts.
func SeedPlans(ctx context.Context, db *gorm.DB) error {
	plans := models.DefaultPlans()
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&plans).Error; err != nil {
		return fmt.Errorf("seeding plans: %w", err)
	}
	return nil
}

type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// EnsureAdmin creates the bootstrap administrator when no admin exists yet.
// The account must rotate its password on first login.
func EnsureAdmin(ctx context.Context, db *gorm.DB, seed AdminSeed, log *slog.Logger) (*models.User, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("is_admin = ?", true).First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up admin: %w", err)
	}

	if seed.Email == "" || seed.Password == "" {
		log.Warn("no admin user exists and no bootstrap credentials configured")
		return nil, nil
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing bootstrap password: %w", err)
	}

	name := seed.Name
	if name == "" {
		name = "Administrator"
	}
	plan := models.PlanEnterprise
	admin := models.User{
		Email:              strings.ToLower(strings.TrimSpace(seed.Email)),
		PasswordHash:       hash,
		Name:               name,
		IsActive:           true,
		IsAdmin:            true,
		PlanID:             &plan,
		MustChangePassword: true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("creating bootstrap admin: %w", err)
	}

	log.Info("created bootstrap admin", "email", admin.Email)
	return &admin, nil
}

package database

import (
	"fmt"
	"log/slog"

	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.SSLMode == "disable" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to database", "host", cfg.Host, "database", cfg.Name)

	return db, nil
}

// AllModels lists every table in migration order. Plans come first since
// users reference them.
func AllModels() []interface{} {
	return []interface{}{
		&models.Plan{},
		&models.User{},
		&models.Owner{},
		&models.Property{},
		&models.Tenant{},
		&models.Receipt{},
	}
}

// ReceiptNumberIndex keeps receipt numbers unique per user.
const ReceiptNumberIndex = "idx_receipts_user_number"

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + ReceiptNumberIndex + " ON receipts (user_id, number)").Error
}

package database

import (
	"fmt"

	"oficina-backend/internal/config"
	"oficina-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to postgres and migrates every collection.
func Open(cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogDevelopment {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Infow("database ready", "collections", len(Collections()))
	return db, nil
}

// Collections lists the models backing the dashboard, in dependency order.
func Collections() []any {
	return []any{
		&models.Client{},
		&models.Product{},
		&models.Service{},
		&models.StockItem{},
		&models.StockHistoryEntry{},
		&models.Budget{},
		&models.Investment{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Collections()...); err != nil {
		return fmt.Errorf("database: automigrate: %w", err)
	}
	return nil
}

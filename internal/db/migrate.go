package db

import (
	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Store{},
		&model.Rating{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	// One active store per owner. The service layer rejects a second active
	// store up front; this partial index is the storage-level backstop.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_stores_active_owner
		 ON stores (owner_id) WHERE is_active = true`,
	).Error; err != nil {
		logger.Error("Failed to create partial owner index", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

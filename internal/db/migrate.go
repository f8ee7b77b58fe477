package db

import (
	"dealerops/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Salesperson{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Order{},
		&models.Activity{},
	)
}

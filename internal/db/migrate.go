package db

import (
	"fmt"

	"finanx/internal/domain/shares"
	"finanx/internal/domain/transactions"
	"finanx/internal/domain/user"
	"gorm.io/gorm"
)

func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&user.User{},
		&transactions.Transaction{},
		&shares.AccountShare{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

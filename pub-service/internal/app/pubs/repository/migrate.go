package repository

import (
	"context"
	"fmt"

	"pintperfect/pub-service/internal/app/pubs/entity"

	"gorm.io/gorm"
)

// AutoMigrate создает таблицы, индексы и внешние ключи с ON DELETE CASCADE.
// Порядок важен: родительские таблицы раньше дочерних.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entity.User{},
		&entity.Pub{},
		&entity.Rating{},
		&entity.Photo{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

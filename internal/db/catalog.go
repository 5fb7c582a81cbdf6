package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"marquee/internal/models"
)

// CatalogItemRepository handles database operations for the catalog
// snapshot. The snapshot exists so a restart can rebuild the schedule while
// the upstream catalog API is unreachable.
type CatalogItemRepository struct {
	db *DB
}

// NewCatalogItemRepository creates a new catalog item repository
func NewCatalogItemRepository(db *DB) *CatalogItemRepository {
	return &CatalogItemRepository{db: db}
}

// List retrieves the snapshot in air order
func (r *CatalogItemRepository) List(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	result := r.db.WithContext(ctx).Order("position ASC").Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", MapGormError(result.Error))
	}
	return items, nil
}

// ReplaceAll atomically swaps the snapshot for a freshly fetched catalog
func (r *CatalogItemRepository) ReplaceAll(ctx context.Context, items []models.CatalogItem) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CatalogItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear catalog snapshot: %w", MapGormError(err))
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to write catalog snapshot: %w", MapGormError(err))
		}
		return nil
	})
}

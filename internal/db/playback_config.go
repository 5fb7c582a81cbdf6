package db

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"marquee/internal/models"
)

// PlaybackConfigRepository handles database operations for playback configs.
// One record per content ID, last write wins.
type PlaybackConfigRepository struct {
	db *DB
}

// NewPlaybackConfigRepository creates a new playback config repository
func NewPlaybackConfigRepository(db *DB) *PlaybackConfigRepository {
	return &PlaybackConfigRepository{db: db}
}

// Get retrieves the config for a content ID
func (r *PlaybackConfigRepository) Get(ctx context.Context, contentID string) (*models.PlaybackConfig, error) {
	var config models.PlaybackConfig
	result := r.db.WithContext(ctx).Where("content_id = ?", contentID).First(&config)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &config, nil
}

// Put upserts the config for its content ID
func (r *PlaybackConfigRepository) Put(ctx context.Context, config *models.PlaybackConfig) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_id"}},
			UpdateAll: true,
		}).
		Create(config)
	if result.Error != nil {
		return fmt.Errorf("failed to save playback config: %w", MapGormError(result.Error))
	}
	return nil
}

// Delete removes the config for a content ID
func (r *PlaybackConfigRepository) Delete(ctx context.Context, contentID string) error {
	result := r.db.WithContext(ctx).Where("content_id = ?", contentID).Delete(&models.PlaybackConfig{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete playback config: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

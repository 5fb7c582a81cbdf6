package models

import (
	"time"
)

// CatalogItem represents a movie in the channel catalog. The upstream catalog
// API keys items by TMDB ID; the torrent hash and resource index are the only
// metadata needed to build a stream URL.
type CatalogItem struct {
	ID              string    `json:"id" gorm:"type:text;primaryKey;column:id" validate:"required"`
	Title           string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	DurationSeconds int64     `json:"duration_seconds" gorm:"type:integer;not null;column:duration_seconds" validate:"gte=0"`
	TorrentHash     string    `json:"torrent_hash" gorm:"type:text;not null;column:torrent_hash"`
	ResourceIndex   int       `json:"resource_index" gorm:"type:integer;not null;default:0;column:resource_index"`
	Position        int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	FetchedAt       time.Time `json:"fetched_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:fetched_at"`
}

// TableName overrides the default gorm pluralization
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// NewCatalogItem creates a new CatalogItem with the fetch timestamp set
func NewCatalogItem(id, title string, durationSeconds int64, position int) *CatalogItem {
	return &CatalogItem{
		ID:              id,
		Title:           title,
		DurationSeconds: durationSeconds,
		Position:        position,
		FetchedAt:       time.Now().UTC(),
	}
}

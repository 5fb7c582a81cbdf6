// Package playback persists per-title playback configuration: resume
// position, volume, and track selections, debounced against the rapid state
// changes a playing video emits.
package playback

import (
	"context"

	"marquee/internal/models"
)

// ConfigStore is the durable key-value backing for playback configs. The
// sqlite-backed implementation lives in the db package; any store keyed by
// content ID with last-write-wins semantics satisfies it.
type ConfigStore interface {
	// Get returns the stored config for contentID, or a not-found error
	Get(ctx context.Context, contentID string) (*models.PlaybackConfig, error)

	// Put writes the config, replacing any existing record for its ContentID
	Put(ctx context.Context, config *models.PlaybackConfig) error
}

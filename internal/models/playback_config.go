package models

import (
	"time"
)

// ConfigSchemaVersion is the current PlaybackConfig schema version. Every
// record written carries it so a future schema change can migrate old rows.
const ConfigSchemaVersion = 1

// PlaybackConfig represents the persisted per-title playback state: resume
// position, volume, and selected tracks. One record per content ID, last
// write wins.
type PlaybackConfig struct {
	ContentID       string    `json:"content_id" gorm:"type:text;primaryKey;column:content_id" validate:"required"`
	PositionSeconds float64   `json:"position_seconds" gorm:"type:real;not null;default:0;column:position_seconds" validate:"gte=0"`
	Volume          float64   `json:"volume" gorm:"type:real;not null;default:1;column:volume" validate:"gte=0,lte=1"`
	Muted           bool      `json:"muted" gorm:"type:integer;not null;default:0;column:muted"`
	Quality         string    `json:"quality" gorm:"type:text;column:quality"`
	Language        string    `json:"language" gorm:"type:text;column:language"`
	SubtitleID      *string   `json:"subtitle_id,omitempty" gorm:"type:text;column:subtitle_id"`
	AudioTrackID    string    `json:"audio_track_id" gorm:"type:text;column:audio_track_id"`
	PlaybackRate    float64   `json:"playback_rate" gorm:"type:real;not null;default:1;column:playback_rate" validate:"gt=0"`
	SchemaVersion   int       `json:"schema_version" gorm:"type:integer;not null;default:1;column:schema_version"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// TableName overrides the default gorm pluralization
func (PlaybackConfig) TableName() string {
	return "playback_configs"
}

// DefaultPlaybackConfig returns the config used when a title has never been
// played: start from the beginning, full volume, unmuted, normal rate, no
// subtitle.
func DefaultPlaybackConfig(contentID string) *PlaybackConfig {
	return &PlaybackConfig{
		ContentID:     contentID,
		Volume:        1,
		PlaybackRate:  1,
		SchemaVersion: ConfigSchemaVersion,
		UpdatedAt:     time.Now().UTC(),
	}
}

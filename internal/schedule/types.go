package schedule

import (
	"time"

	"marquee/internal/models"
)

// Program is a time-boxed slot in the channel schedule. EndTime is always
// StartTime plus the item's effective duration, so consecutive programs are
// contiguous and non-overlapping.
type Program struct {
	// Item is the catalog entry airing in this slot
	Item models.CatalogItem `json:"item"`

	// StartTime is the absolute instant this slot begins (inclusive)
	StartTime time.Time `json:"start_time"`

	// EndTime is the absolute instant this slot ends (exclusive)
	EndTime time.Time `json:"end_time"`
}

// DurationSeconds returns the slot length in seconds
func (p Program) DurationSeconds() int64 {
	return int64(p.EndTime.Sub(p.StartTime).Seconds())
}

// Selection is a user override: "play this program now", decoupled from the
// program's natural time slot. Progress for a selected program is measured
// from ActivatedAt rather than from the slot's StartTime.
type Selection struct {
	Program     Program   `json:"program"`
	ActivatedAt time.Time `json:"activated_at"`
}

// ActiveProgram describes what the channel is showing at a given instant.
// It is recomputed every tick and never persisted.
type ActiveProgram struct {
	Program Program `json:"program"`

	// ElapsedSeconds is the playback position within the program
	ElapsedSeconds int64 `json:"elapsed_seconds"`

	// Progress is ElapsedSeconds over the program duration, capped at 1
	Progress float64 `json:"progress"`
}

// Package schedule lays a movie catalog out into a continuous broadcast
// schedule and resolves what the channel is showing at any given moment,
// creating the illusion of a continuously airing linear channel.
package schedule

import (
	"time"

	"marquee/internal/models"
)

// DefaultDurationSeconds is the slot length assumed for catalog items whose
// duration is unknown or zero (2 hours). Zero-width slots would never resolve
// as current, so every item is coerced to at least this length's fallback.
const DefaultDurationSeconds int64 = 7200

// Build converts catalog items into an ordered, contiguous sequence of
// time-boxed programs starting at anchor. This is a pure function: the input
// order defines air order, no reordering is performed, and an empty catalog
// yields an empty schedule.
//
// Items with a missing or non-positive duration are coerced to
// DefaultDurationSeconds.
func Build(items []models.CatalogItem, anchor time.Time) []Program {
	programs := make([]Program, 0, len(items))

	cursor := anchor
	for _, item := range items {
		duration := item.DurationSeconds
		if duration <= 0 {
			duration = DefaultDurationSeconds
		}

		end := cursor.Add(time.Duration(duration) * time.Second)
		programs = append(programs, Program{
			Item:      item,
			StartTime: cursor,
			EndTime:   end,
		})
		cursor = end
	}

	return programs
}

// AnchorTime returns the schedule anchor for a given instant: the top of the
// current hour, UTC.
func AnchorTime(now time.Time) time.Time {
	return now.UTC().Truncate(time.Hour)
}

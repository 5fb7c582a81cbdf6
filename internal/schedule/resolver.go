package schedule

import (
	"time"
)

// ResolveCurrent determines the single active program at now.
//
// Precedence: a non-nil selection always wins regardless of wall-clock time.
// The selected program's elapsed time is measured from the selection's
// ActivatedAt, not from the slot's own StartTime, and is capped at the
// program's duration. This models "the user chose to watch X now".
//
// With no selection, the resolver scans for the slot p such that
// p.StartTime <= now < p.EndTime (end-exclusive). The scan is in schedule
// order, so if two slots ever overlapped the earliest-starting one wins.
// Build never produces overlaps.
//
// A nil return means nothing is currently airing (empty schedule, or now is
// before the first slot). That is a normal value, not an error; callers
// render an idle state.
func ResolveCurrent(programs []Program, now time.Time, sel *Selection) *ActiveProgram {
	if sel != nil {
		return activeView(sel.Program, now.Sub(sel.ActivatedAt))
	}

	for _, p := range programs {
		if !now.Before(p.StartTime) && now.Before(p.EndTime) {
			return activeView(p, now.Sub(p.StartTime))
		}
	}

	return nil
}

// activeView builds an ActiveProgram from a program and the elapsed time
// within it, clamping elapsed to [0, duration] and progress to [0, 1].
func activeView(p Program, elapsed time.Duration) *ActiveProgram {
	duration := p.DurationSeconds()

	elapsedSeconds := int64(elapsed.Seconds())
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	if elapsedSeconds > duration {
		elapsedSeconds = duration
	}

	progress := 0.0
	if duration > 0 {
		progress = float64(elapsedSeconds) / float64(duration)
		if progress > 1 {
			progress = 1
		}
	}

	return &ActiveProgram{
		Program:        p,
		ElapsedSeconds: elapsedSeconds,
		Progress:       progress,
	}
}

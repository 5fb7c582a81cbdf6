// Package engine owns the live channel state: the published schedule, the
// user override, and the once-per-second resolution of what is airing now.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"marquee/internal/logger"
	"marquee/internal/models"
	"marquee/internal/schedule"
)

// tickInterval is how often the engine re-resolves the active program
const tickInterval = 1 * time.Second

// notificationBuffer bounds the pending "now playing" notification queue
const notificationBuffer = 16

// Notification is the user-facing "now playing: X" event emitted when a
// program is selected.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	ContentID string    `json:"content_id"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

// Engine is the scheduling engine for a single linear channel. The schedule
// and the override are the only state shared between the resolver (reader,
// every tick) and user actions (writers); one mutex protects both so a tick
// never observes a half-updated schedule or a half-assigned override.
type Engine struct {
	mu        sync.Mutex
	programs  []schedule.Program
	selection *schedule.Selection
	current   *schedule.ActiveProgram

	notifications chan Notification
	now           func() time.Time
}

// New creates an engine with an empty schedule. Call Rebuild with a fetched
// catalog to start broadcasting.
func New() *Engine {
	return &Engine{
		notifications: make(chan Notification, notificationBuffer),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Rebuild replaces the schedule with one built from items, anchored at the
// top of the current hour. The new program list is swapped in whole; the
// resolver never sees a partial rebuild. A selection whose item no longer
// exists in the new catalog is dropped, degrading to the natural schedule.
func (e *Engine) Rebuild(items []models.CatalogItem) {
	anchor := schedule.AnchorTime(e.now())
	programs := schedule.Build(items, anchor)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.programs = programs

	if e.selection != nil {
		idx, err := indexOf(programs, e.selection.Program.Item.ID)
		if err != nil {
			logger.Log.Warn().
				Str("content_id", e.selection.Program.Item.ID).
				Msg("Selected program removed from catalog, clearing override")
			e.selection = nil
		} else {
			// Re-point the override at the rebuilt program so refreshed
			// metadata (duration, stream location) takes effect; the
			// activation instant is preserved
			e.selection.Program = programs[idx]
		}
	}

	e.current = schedule.ResolveCurrent(e.programs, e.now(), e.selection)

	logger.Log.Info().
		Int("program_count", len(programs)).
		Time("anchor", anchor).
		Msg("Schedule rebuilt")
}

// Tick re-resolves the active program for the given instant and returns the
// result. A nil return means nothing is airing.
func (e *Engine) Tick(now time.Time) *schedule.ActiveProgram {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = schedule.ResolveCurrent(e.programs, now, e.selection)
	return e.current
}

// Run drives Tick once per second until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Engine tick loop stopped")
			return
		case <-ticker.C:
			e.Tick(e.now())
		}
	}
}

// Current returns the active program as of the last tick, or nil when
// nothing is airing.
func (e *Engine) Current() *schedule.ActiveProgram {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Schedule returns a copy of the published program list.
func (e *Engine) Schedule() []schedule.Program {
	e.mu.Lock()
	defer e.mu.Unlock()

	programs := make([]schedule.Program, len(e.programs))
	copy(programs, e.programs)
	return programs
}

// Select jumps the channel to the program for contentID, recording the
// activation instant. The selection supersedes the natural schedule until
// replaced by another Select or SkipNext; it never auto-expires.
func (e *Engine) Select(contentID string) (*schedule.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.selectLocked(contentID)
}

// SkipNext advances to the program after the current one, wrapping around to
// the start of the schedule. On a single-program schedule it re-selects the
// same program. An empty schedule is a no-op.
func (e *Engine) SkipNext() (*schedule.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.programs) == 0 {
		return nil, schedule.ErrEmptySchedule
	}

	current := schedule.ResolveCurrent(e.programs, e.now(), e.selection)
	if current == nil {
		// Nothing airing yet, start from the top of the schedule
		return e.selectLocked(e.programs[0].Item.ID)
	}

	idx, err := indexOf(e.programs, current.Program.Item.ID)
	if err != nil {
		return nil, err
	}

	next := e.programs[(idx+1)%len(e.programs)]
	return e.selectLocked(next.Item.ID)
}

// selectLocked sets the override. Callers must hold e.mu.
func (e *Engine) selectLocked(contentID string) (*schedule.Program, error) {
	idx, err := indexOf(e.programs, contentID)
	if err != nil {
		logger.Log.Warn().
			Str("content_id", contentID).
			Msg("Select failed: program not in schedule")
		return nil, err
	}

	program := e.programs[idx]
	now := e.now()
	e.selection = &schedule.Selection{Program: program, ActivatedAt: now}
	e.current = schedule.ResolveCurrent(e.programs, now, e.selection)

	e.notify(Notification{
		ID:        uuid.New(),
		ContentID: program.Item.ID,
		Title:     program.Item.Title,
		At:        now,
	})

	logger.Log.Info().
		Str("content_id", program.Item.ID).
		Str("title", program.Item.Title).
		Msg("Program selected")

	return &program, nil
}

// Notifications returns the "now playing" event stream. Events are dropped
// when no consumer keeps up; the channel is a toast feed, not a durable log.
func (e *Engine) Notifications() <-chan Notification {
	return e.notifications
}

func (e *Engine) notify(n Notification) {
	select {
	case e.notifications <- n:
	default:
		logger.Log.Debug().
			Str("content_id", n.ContentID).
			Msg("Notification dropped, buffer full")
	}
}

// indexOf finds the schedule index of the program for contentID
func indexOf(programs []schedule.Program, contentID string) (int, error) {
	for i, p := range programs {
		if p.Item.ID == contentID {
			return i, nil
		}
	}
	return 0, schedule.ErrProgramNotFound
}

package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/internal/logger"
	"marquee/internal/models"
	"marquee/internal/schedule"
)

func testItems() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "a", Title: "First Feature", DurationSeconds: 3600},
		{ID: "b", Title: "Second Feature", DurationSeconds: 1800},
		{ID: "c", Title: "Third Feature", DurationSeconds: 5400},
	}
}

// newTestEngine builds an engine pinned to a controllable clock
func newTestEngine(t *testing.T, items []models.CatalogItem) (*Engine, *time.Time) {
	t.Helper()
	logger.Init("error", false)

	clock := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	e := New()
	e.now = func() time.Time { return clock }
	e.Rebuild(items)

	return e, &clock
}

func TestEngine_TickFollowsNaturalSchedule(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	// Anchor is 15:00, clock is 15:30: halfway through program a
	active := e.Tick(*clock)

	require.NotNil(t, active)
	assert.Equal(t, "a", active.Program.Item.ID)
	assert.Equal(t, int64(1800), active.ElapsedSeconds)
	assert.Equal(t, active, e.Current())
}

func TestEngine_EmptyCatalogNothingAiring(t *testing.T) {
	e, clock := newTestEngine(t, nil)

	assert.Nil(t, e.Tick(*clock))
	assert.Nil(t, e.Current())
	assert.Empty(t, e.Schedule())
}

func TestEngine_SelectOverridesSchedule(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	selected, err := e.Select("c")
	require.NoError(t, err)
	assert.Equal(t, "c", selected.Item.ID)

	// The override wins on the very next tick regardless of wall-clock time
	active := e.Tick(*clock)
	require.NotNil(t, active)
	assert.Equal(t, "c", active.Program.Item.ID)
	assert.Equal(t, int64(0), active.ElapsedSeconds)
}

func TestEngine_SelectUnknownProgram(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	_, err := e.Select("missing")
	assert.ErrorIs(t, err, schedule.ErrProgramNotFound)

	// No override change: natural schedule still resolves
	active := e.Tick(*clock)
	require.NotNil(t, active)
	assert.Equal(t, "a", active.Program.Item.ID)
}

func TestEngine_SelectionPersistsAcrossTicks(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	_, err := e.Select("b")
	require.NoError(t, err)

	// Hours later the selection still wins; it never auto-expires
	later := clock.Add(6 * time.Hour)
	active := e.Tick(later)

	require.NotNil(t, active)
	assert.Equal(t, "b", active.Program.Item.ID)
	assert.Equal(t, 1.0, active.Progress)
}

func TestEngine_SkipNextAdvances(t *testing.T) {
	e, _ := newTestEngine(t, testItems())

	// Currently airing a (naturally), so skip selects b
	next, err := e.SkipNext()
	require.NoError(t, err)
	assert.Equal(t, "b", next.Item.ID)

	next, err = e.SkipNext()
	require.NoError(t, err)
	assert.Equal(t, "c", next.Item.ID)
}

func TestEngine_SkipNextWrapsAround(t *testing.T) {
	e, _ := newTestEngine(t, testItems())

	_, err := e.Select("c")
	require.NoError(t, err)

	// Skipping past the last program wraps to the first
	next, err := e.SkipNext()
	require.NoError(t, err)
	assert.Equal(t, "a", next.Item.ID)
}

func TestEngine_SkipNextSingleProgram(t *testing.T) {
	e, _ := newTestEngine(t, testItems()[:1])

	next, err := e.SkipNext()
	require.NoError(t, err)
	assert.Equal(t, "a", next.Item.ID)

	// Wraps onto itself
	next, err = e.SkipNext()
	require.NoError(t, err)
	assert.Equal(t, "a", next.Item.ID)
}

func TestEngine_SkipNextEmptySchedule(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	next, err := e.SkipNext()
	assert.Nil(t, next)
	assert.ErrorIs(t, err, schedule.ErrEmptySchedule)
}

func TestEngine_RebuildDropsOrphanedSelection(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	_, err := e.Select("c")
	require.NoError(t, err)

	// New catalog no longer contains c
	e.Rebuild(testItems()[:2])

	active := e.Tick(*clock)
	require.NotNil(t, active)
	assert.Equal(t, "a", active.Program.Item.ID)
}

func TestEngine_RebuildKeepsSurvivingSelection(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	_, err := e.Select("b")
	require.NoError(t, err)

	e.Rebuild(testItems())

	active := e.Tick(*clock)
	require.NotNil(t, active)
	assert.Equal(t, "b", active.Program.Item.ID)
}

func TestEngine_RebuildRefreshesSelectedProgramMetadata(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	_, err := e.Select("b")
	require.NoError(t, err)

	// Refetched catalog carries new metadata for the selected title
	updated := testItems()
	updated[1].DurationSeconds = 9000
	updated[1].TorrentHash = "newhash"
	e.Rebuild(updated)

	active := e.Tick(*clock)
	require.NotNil(t, active)
	assert.Equal(t, "b", active.Program.Item.ID)
	assert.Equal(t, "newhash", active.Program.Item.TorrentHash)
	assert.Equal(t, int64(9000), active.Program.DurationSeconds())
}

func TestEngine_ConcurrentTickSelectSkipRebuild(t *testing.T) {
	e, clock := newTestEngine(t, testItems())

	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 200; j++ {
				e.Tick(clock.Add(time.Duration(j) * time.Second))
				e.Current()
				e.Schedule()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		ids := []string{"a", "b", "c"}
		for j := 0; j < 200; j++ {
			_, err := e.Select(ids[j%len(ids)])
			assert.NoError(t, err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for j := 0; j < 200; j++ {
			_, err := e.SkipNext()
			assert.NoError(t, err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for j := 0; j < 50; j++ {
			e.Rebuild(testItems())
		}
	}()

	close(start)
	wg.Wait()

	// The engine ends in a consistent state: something is airing and it is
	// one of the scheduled programs
	active := e.Tick(*clock)
	require.NotNil(t, active)
	assert.Contains(t, []string{"a", "b", "c"}, active.Program.Item.ID)
}

func TestEngine_SelectEmitsNotification(t *testing.T) {
	e, _ := newTestEngine(t, testItems())

	_, err := e.Select("b")
	require.NoError(t, err)

	select {
	case n := <-e.Notifications():
		assert.Equal(t, "b", n.ContentID)
		assert.Equal(t, "Second Feature", n.Title)
		assert.NotEqual(t, "", n.ID.String())
	default:
		t.Fatal("expected a now-playing notification")
	}
}

func TestEngine_NotificationOverflowDoesNotBlock(t *testing.T) {
	e, _ := newTestEngine(t, testItems())

	// Far more selections than the buffer holds; none may block
	for i := 0; i < notificationBuffer*3; i++ {
		_, err := e.Select("a")
		require.NoError(t, err)
	}
}

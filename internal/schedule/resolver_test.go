package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/internal/models"
)

func buildTestSchedule(anchor time.Time) []Program {
	items := []models.CatalogItem{
		createTestItem("a", "First Feature", 3600),
		createTestItem("b", "Second Feature", 1800),
	}
	return Build(items, anchor)
}

func TestResolveCurrent_EmptySchedule(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	active := ResolveCurrent(nil, now, nil)

	assert.Nil(t, active)
}

func TestResolveCurrent_BeforeFirstSlot(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	active := ResolveCurrent(programs, anchor.Add(-1*time.Second), nil)

	assert.Nil(t, active)
}

func TestResolveCurrent_AfterLastSlot(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	active := ResolveCurrent(programs, anchor.Add(5400*time.Second), nil)

	assert.Nil(t, active)
}

func TestResolveCurrent_MidSlot(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	// Halfway through the first program
	active := ResolveCurrent(programs, anchor.Add(1800*time.Second), nil)

	require.NotNil(t, active)
	assert.Equal(t, "a", active.Program.Item.ID)
	assert.Equal(t, int64(1800), active.ElapsedSeconds)
	assert.InDelta(t, 0.5, active.Progress, 0.0001)
}

func TestResolveCurrent_SlotStartInclusive(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	active := ResolveCurrent(programs, anchor, nil)

	require.NotNil(t, active)
	assert.Equal(t, "a", active.Program.Item.ID)
	assert.Equal(t, int64(0), active.ElapsedSeconds)
	assert.Equal(t, 0.0, active.Progress)
}

func TestResolveCurrent_SlotEndExclusive(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	// Exactly at the first slot's end the second program is current
	active := ResolveCurrent(programs, anchor.Add(3600*time.Second), nil)

	require.NotNil(t, active)
	assert.Equal(t, "b", active.Program.Item.ID)
	assert.Equal(t, int64(0), active.ElapsedSeconds)
}

func TestResolveCurrent_EveryInstantInsideSlotResolvesToIt(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	for i, p := range programs {
		for _, offset := range []time.Duration{0, time.Second, time.Duration(p.DurationSeconds()-1) * time.Second} {
			active := ResolveCurrent(programs, p.StartTime.Add(offset), nil)

			require.NotNil(t, active, "slot %d offset %v", i, offset)
			assert.Equal(t, p.Item.ID, active.Program.Item.ID, "slot %d offset %v", i, offset)
			assert.GreaterOrEqual(t, active.Progress, 0.0)
			assert.Less(t, active.Progress, 1.0)
		}
	}
}

func TestResolveCurrent_SelectionWinsRegardlessOfClock(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	// Wall clock is halfway through program a, but the user selected b
	now := anchor.Add(1800 * time.Second)
	sel := &Selection{Program: programs[1], ActivatedAt: now}

	active := ResolveCurrent(programs, now, sel)

	require.NotNil(t, active)
	assert.Equal(t, "b", active.Program.Item.ID)
	assert.Equal(t, int64(0), active.ElapsedSeconds)
	assert.Equal(t, 0.0, active.Progress)
}

func TestResolveCurrent_SelectionElapsedFromActivation(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	activated := anchor.Add(1800 * time.Second)
	sel := &Selection{Program: programs[1], ActivatedAt: activated}

	// 10 minutes after activation
	active := ResolveCurrent(programs, activated.Add(600*time.Second), sel)

	require.NotNil(t, active)
	assert.Equal(t, "b", active.Program.Item.ID)
	assert.Equal(t, int64(600), active.ElapsedSeconds)
	assert.InDelta(t, float64(600)/float64(1800), active.Progress, 0.0001)
}

func TestResolveCurrent_SelectionProgressCappedAtOne(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	activated := anchor
	sel := &Selection{Program: programs[1], ActivatedAt: activated}

	// Long past the selected program's duration
	active := ResolveCurrent(programs, activated.Add(10*time.Hour), sel)

	require.NotNil(t, active)
	assert.Equal(t, programs[1].DurationSeconds(), active.ElapsedSeconds)
	assert.Equal(t, 1.0, active.Progress)
}

func TestResolveCurrent_SelectionClockBeforeActivation(t *testing.T) {
	anchor := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(anchor)

	sel := &Selection{Program: programs[0], ActivatedAt: anchor}

	// Clock skew: now before activation clamps to zero instead of going negative
	active := ResolveCurrent(programs, anchor.Add(-5*time.Second), sel)

	require.NotNil(t, active)
	assert.Equal(t, int64(0), active.ElapsedSeconds)
	assert.Equal(t, 0.0, active.Progress)
}

func TestResolveCurrent_SpecScenario(t *testing.T) {
	// Catalog [{a,3600},{b,1800}] anchored at T0: a airs [T0,T0+3600),
	// b airs [T0+3600,T0+5400)
	t0 := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	programs := buildTestSchedule(t0)

	now := t0.Add(1800 * time.Second)

	natural := ResolveCurrent(programs, now, nil)
	require.NotNil(t, natural)
	assert.Equal(t, "a", natural.Program.Item.ID)
	assert.Equal(t, int64(1800), natural.ElapsedSeconds)
	assert.InDelta(t, 0.5, natural.Progress, 0.0001)

	// Selecting b at the same instant resets elapsed to zero
	sel := &Selection{Program: programs[1], ActivatedAt: now}
	overridden := ResolveCurrent(programs, now, sel)
	require.NotNil(t, overridden)
	assert.Equal(t, "b", overridden.Program.Item.ID)
	assert.Equal(t, 0.0, overridden.Progress)
}

package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racedash/cache"
	"racedash/ergast"
	"racedash/fetcherr"
	"racedash/models"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeGateway struct {
	drivers      ergast.Outcome[[]models.DriverStandingsItem]
	constructors ergast.Outcome[[]models.ConstructorStandingsItem]
	schedule     ergast.Outcome[[]models.Race]
	inFlight     atomic.Int32
	maxInFlight  atomic.Int32
}

func (f *fakeGateway) enter() func() {
	n := f.inFlight.Add(1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeGateway) DriverStandings(context.Context, string) ergast.Outcome[[]models.DriverStandingsItem] {
	defer f.enter()()
	return f.drivers
}

func (f *fakeGateway) ConstructorStandings(context.Context, string) ergast.Outcome[[]models.ConstructorStandingsItem] {
	defer f.enter()()
	return f.constructors
}

func (f *fakeGateway) SeasonSchedule(context.Context, string) ergast.Outcome[[]models.Race] {
	defer f.enter()()
	return f.schedule
}

func standings() []models.DriverStandingsItem {
	return []models.DriverStandingsItem{
		{Position: "1", Points: "423", Wins: "7", Driver: models.Driver{DriverID: "norris"}, Constructors: []models.Constructor{{ConstructorID: "mclaren"}}},
		{Position: "2", Points: "421", Wins: "8", Driver: models.Driver{DriverID: "max_verstappen"}, Constructors: []models.Constructor{{ConstructorID: "red_bull"}}},
		{Position: "3", Points: "410", Wins: "7", Driver: models.Driver{DriverID: "piastri"}, Constructors: []models.Constructor{{ConstructorID: "mclaren"}}},
		{Position: "4", Points: "319", Wins: "2", Driver: models.Driver{DriverID: "russell"}, Constructors: []models.Constructor{{ConstructorID: "mercedes"}}},
	}
}

func TestLoad_FetchesConcurrently(t *testing.T) {
	gw := &fakeGateway{
		drivers:      ergast.Outcome[[]models.DriverStandingsItem]{Value: standings(), Source: ergast.SourceLive},
		constructors: ergast.Outcome[[]models.ConstructorStandingsItem]{Value: []models.ConstructorStandingsItem{{Position: "1"}}, Source: ergast.SourceCache},
		schedule:     ergast.Outcome[[]models.Race]{Value: []models.Race{}, Source: ergast.SourceEmpty},
	}
	l := NewLoader(gw, nil, quietLog)

	data, err := l.Load(context.Background(), "2025")
	require.NoError(t, err)
	assert.Equal(t, "2025", data.Season)
	assert.Len(t, data.Drivers, 4)
	assert.Len(t, data.Constructors, 1)
	assert.Empty(t, data.Schedule)
	assert.True(t, data.Stale())
	assert.Equal(t, int32(3), gw.maxInFlight.Load(), "all three calls should overlap")
}

func TestLoad_SignalLostWhenBothStandingsEmpty(t *testing.T) {
	gw := &fakeGateway{
		drivers:      ergast.Outcome[[]models.DriverStandingsItem]{Value: []models.DriverStandingsItem{}, Source: ergast.SourceEmpty},
		constructors: ergast.Outcome[[]models.ConstructorStandingsItem]{Value: []models.ConstructorStandingsItem{}, Source: ergast.SourceLive},
		schedule:     ergast.Outcome[[]models.Race]{Value: []models.Race{{Round: "1"}}, Source: ergast.SourceLive},
	}
	l := NewLoader(gw, nil, quietLog)

	data, err := l.Load(context.Background(), "2031")
	assert.ErrorIs(t, err, fetcherr.ErrSignalLost)
	assert.Len(t, data.Schedule, 1)
	assert.False(t, data.Stale())
}

func TestColdStart(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NewMemoryStorage(), cache.DefaultPrefix, quietLog)
	l := NewLoader(&fakeGateway{}, c, quietLog)

	assert.Nil(t, l.ColdStart(ctx, "2025"))

	c.Write(ctx, cache.DriversKey("2025"), standings())
	snap := l.ColdStart(ctx, "2025")
	require.NotNil(t, snap)
	assert.Equal(t, standings(), snap.Drivers)

	assert.Nil(t, NewLoader(&fakeGateway{}, nil, quietLog).ColdStart(ctx, "2025"))
}

func TestCompare(t *testing.T) {
	cmp, err := Compare(standings(), "norris", "max_verstappen")
	require.NoError(t, err)
	assert.Equal(t, "norris", cmp.A.Driver.DriverID)
	require.Len(t, cmp.Stats, 3)

	byKey := map[string]Stat{}
	for _, s := range cmp.Stats {
		byKey[s.Key] = s
	}
	assert.Equal(t, WinnerA, byKey["position"].Winner, "lower position wins")
	assert.Equal(t, WinnerA, byKey["points"].Winner)
	assert.Equal(t, WinnerB, byKey["wins"].Winner)

	cmp, err = Compare(standings(), "norris", "piastri")
	require.NoError(t, err)
	assert.Equal(t, WinnerNone, cmp.Stats[2].Winner, "tie on wins")

	_, err = Compare(standings(), "norris", "senna")
	assert.ErrorContains(t, err, "senna")
}

func TestWinnerIgnoresUnparsable(t *testing.T) {
	assert.Equal(t, WinnerNone, winner("", "3", false))
	assert.Equal(t, WinnerB, winner("12.5", "13", false))
	assert.Equal(t, WinnerA, winner("1", "2", true))
}

func TestTeammatePair(t *testing.T) {
	a, b, ok := TeammatePair(standings(), "mclaren")
	require.True(t, ok)
	assert.Equal(t, "norris", a)
	assert.Equal(t, "piastri", b)

	a, b, ok = TeammatePair(standings(), "mercedes")
	require.True(t, ok)
	assert.Equal(t, "norris", a)
	assert.Equal(t, "max_verstappen", b)

	_, _, ok = TeammatePair(standings()[:1], "ferrari")
	assert.False(t, ok)
}

func calendar() []models.Race {
	return []models.Race{
		{Round: "1", Date: "2025-03-16", Time: "04:00:00Z"},
		{Round: "2", Date: "2025-03-23", Time: "07:00:00Z"},
		{Round: "3", Date: "2025-04-06", Time: "05:00:00Z"},
	}
}

func TestNextRace(t *testing.T) {
	race, over := NextRace(calendar(), time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, race)
	assert.False(t, over)
	assert.Equal(t, "2", race.Round)

	race, over = NextRace(calendar(), time.Date(2025, 3, 23, 7, 0, 0, 0, time.UTC))
	assert.Equal(t, "2", race.Round, "a race starting right now is still next")
	assert.False(t, over)

	race, over = NextRace(calendar(), time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, over)
	assert.Equal(t, "3", race.Round)

	race, _ = NextRace(nil, time.Now())
	assert.Nil(t, race)
}

func TestDaysSinceLastRace(t *testing.T) {
	days, ok := DaysSinceLastRace(calendar(), time.Date(2025, 3, 26, 7, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 3, days)

	_, ok = DaysSinceLastRace(calendar(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestCompleted(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	assert.True(t, Completed(calendar()[0], now))
	assert.False(t, Completed(calendar()[1], now))
	assert.False(t, Completed(models.Race{Date: "tbc"}, now))
}

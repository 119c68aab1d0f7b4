package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	season string
	now    time.Time
	round  string
	idA    string
	idB    string
}

func (f *fakeService) GetDriverStandingsMessage(_ context.Context, season string) (string, error) {
	f.season = season
	return "drivers", nil
}

func (f *fakeService) GetConstructorStandingsMessage(context.Context, string) (string, error) {
	return "constructors", nil
}

func (f *fakeService) GetCalendarMessage(context.Context, string) (string, error) {
	return "calendar", nil
}

func (f *fakeService) GetNextRaceMessage(_ context.Context, _ string, now time.Time) (string, error) {
	f.now = now
	return "next", nil
}

func (f *fakeService) GetRaceResultsMessage(_ context.Context, _, round string) (string, error) {
	f.round = round
	return "results", nil
}

func (f *fakeService) GetCountDaysAfterRaceMessage(context.Context, string, time.Time) (string, error) {
	return "days", nil
}

func (f *fakeService) GetCompareMessage(_ context.Context, _, idA, idB string) (string, error) {
	f.idA, f.idB = idA, idB
	return "compare", nil
}

func TestCommands(t *testing.T) {
	svc := &fakeService{}
	tg := &TgAPI{season: "2025", messageService: svc}
	commands := tg.commands()
	ctx := context.Background()

	for _, name := range []string{"driverstandings", "constructorstandings", "calendar", "nextrace", "lastrace", "daysafterrace", "compare"} {
		assert.Contains(t, commands, name)
	}

	msg, err := commands["driverstandings"](ctx, &telego.Message{Text: "/driverstandings"})
	require.NoError(t, err)
	assert.Equal(t, "drivers", msg)
	assert.Equal(t, "2025", svc.season)

	_, err = commands["nextrace"](ctx, &telego.Message{Text: "/nextrace", Date: 1742100000})
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1742100000, 0), svc.now)

	_, err = commands["lastrace"](ctx, &telego.Message{Text: "/lastrace"})
	require.NoError(t, err)
	assert.Equal(t, "last", svc.round)

	msg, err = commands["compare"](ctx, &telego.Message{Text: "/compare Norris Piastri"})
	require.NoError(t, err)
	assert.Equal(t, "compare", msg)
	assert.Equal(t, "norris", svc.idA)
	assert.Equal(t, "piastri", svc.idB)

	msg, err = commands["compare"](ctx, &telego.Message{Text: "/compare norris"})
	require.NoError(t, err)
	assert.Contains(t, msg, "Usage")
}

func TestCompareArgs(t *testing.T) {
	a, b, ok := compareArgs("/compare leclerc hamilton")
	require.True(t, ok)
	assert.Equal(t, "leclerc", a)
	assert.Equal(t, "hamilton", b)

	_, _, ok = compareArgs("/compare")
	assert.False(t, ok)
}

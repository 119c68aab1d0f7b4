package service

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"racedash/cache"
	"racedash/dashboard"
	"racedash/models"
)

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	return t
}

func DriverStandingsTable(drivers []models.DriverStandingsItem) string {
	t := newTable(table.Row{"POS", "DRIVER", "TEAM", "PTS", "WINS"})
	for _, d := range drivers {
		team := ""
		if c, ok := d.PrimaryConstructor(); ok {
			team = c.Name
		}
		t.AppendRow(table.Row{d.Position, d.Driver.FullName(), team, d.Points, d.Wins})
	}
	return t.Render()
}

func ConstructorStandingsTable(constructors []models.ConstructorStandingsItem) string {
	t := newTable(table.Row{"POS", "TEAM", "NATIONALITY", "PTS", "WINS"})
	for _, c := range constructors {
		t.AppendRow(table.Row{c.Position, c.Constructor.Name, c.Constructor.Nationality, c.Points, c.Wins})
	}
	return t.Render()
}

func ScheduleTable(races []models.Race) string {
	t := newTable(table.Row{"RND", "GRAND PRIX", "CIRCUIT", "LOCATION", "DATE"})
	for _, r := range races {
		location := r.Circuit.Location.Locality
		if r.Circuit.Location.Country != "" {
			location = fmt.Sprintf("%s, %s", location, r.Circuit.Location.Country)
		}
		t.AppendRow(table.Row{r.Round, r.RaceName, r.Circuit.CircuitName, location, r.Date})
	}
	return t.Render()
}

func ResultsTable(results []models.Result) string {
	t := newTable(table.Row{"POS", "NO", "DRIVER", "TEAM", "TIME/STATUS", "PTS"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Position, r.Number, r.Driver.FullName(), r.Constructor.Name, r.Outcome(), r.Points})
	}
	return t.Render()
}

// CompareTable lists the compared stats, then the drivers' ages at now.
func CompareTable(cmp dashboard.Comparison, now time.Time) string {
	t := newTable(table.Row{"", cmp.A.Driver.FullName(), cmp.B.Driver.FullName()})
	for _, s := range cmp.Stats {
		t.AppendRow(table.Row{s.Label, s.A + mark(s.Winner == dashboard.WinnerA), s.B + mark(s.Winner == dashboard.WinnerB)})
	}
	t.AppendRow(table.Row{"Age", ageOf(cmp.A.Driver, now), ageOf(cmp.B.Driver, now)})
	return t.Render()
}

func ageOf(d models.Driver, now time.Time) string {
	age, ok := d.Age(now)
	if !ok {
		return "-"
	}
	return fmt.Sprint(age)
}

func CacheStatsTable(stats cache.Stats) string {
	t := newTable(table.Row{"KEY"})
	for _, k := range stats.Keys {
		t.AppendRow(table.Row{k})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d entries, %s", stats.Entries, stats.HumanSize)})
	return t.Render()
}

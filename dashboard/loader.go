// Package dashboard assembles what the dashboard views need for a season
// out of the gateway's independent calls.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"racedash/cache"
	"racedash/ergast"
	"racedash/fetcherr"
	"racedash/models"
)

type Gateway interface {
	DriverStandings(ctx context.Context, season string) ergast.Outcome[[]models.DriverStandingsItem]
	ConstructorStandings(ctx context.Context, season string) ergast.Outcome[[]models.ConstructorStandingsItem]
	SeasonSchedule(ctx context.Context, season string) ergast.Outcome[[]models.Race]
}

type SeasonData struct {
	Season             string                            `json:"season"`
	Drivers            []models.DriverStandingsItem      `json:"drivers"`
	Constructors       []models.ConstructorStandingsItem `json:"constructors"`
	Schedule           []models.Race                     `json:"schedule"`
	DriversSource      ergast.Source                     `json:"-"`
	ConstructorsSource ergast.Source                     `json:"-"`
	ScheduleSource     ergast.Source                     `json:"-"`
}

// Stale reports whether any part of the data was served from the cache.
func (d SeasonData) Stale() bool {
	return d.DriversSource == ergast.SourceCache ||
		d.ConstructorsSource == ergast.SourceCache ||
		d.ScheduleSource == ergast.SourceCache
}

type Loader struct {
	api   Gateway
	cache *cache.Cache
	log   *slog.Logger
}

func NewLoader(api Gateway, c *cache.Cache, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{api: api, cache: c, log: log}
}

// Load fetches standings and schedule for season concurrently. It returns
// fetcherr.ErrSignalLost, together with whatever was loaded, when both
// standings came back empty.
func (l *Loader) Load(ctx context.Context, season string) (SeasonData, error) {
	data := SeasonData{Season: season}

	var g errgroup.Group
	g.Go(func() error {
		out := l.api.DriverStandings(ctx, season)
		data.Drivers, data.DriversSource = out.Value, out.Source
		return nil
	})
	g.Go(func() error {
		out := l.api.ConstructorStandings(ctx, season)
		data.Constructors, data.ConstructorsSource = out.Value, out.Source
		return nil
	})
	g.Go(func() error {
		out := l.api.SeasonSchedule(ctx, season)
		data.Schedule, data.ScheduleSource = out.Value, out.Source
		return nil
	})
	g.Wait()

	if len(data.Drivers) == 0 && len(data.Constructors) == 0 {
		l.log.Warn("No standings for season", slog.String("season", season))
		return data, fetcherr.ErrSignalLost
	}
	if data.Stale() {
		l.log.Info("Serving stale season data", slog.String("season", season))
	}
	return data, nil
}

// ColdStart reads whatever is cached for season without touching the network.
func (l *Loader) ColdStart(ctx context.Context, season string) *cache.Snapshot {
	if l.cache == nil {
		return nil
	}
	return l.cache.ReadSnapshot(ctx, season)
}

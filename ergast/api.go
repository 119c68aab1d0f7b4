// Package ergast is the gateway to the Jolpica/Ergast F1 statistics API.
//
// Standings and schedule calls never fail from the caller's point of view:
// a live result is written through to the fallback cache, and any failure
// is answered from that cache or with an empty slice. Results for a single
// round are not cached; a failure yields nil.
package ergast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"racedash/cache"
	"racedash/fetcherr"
	"racedash/models"
)

const (
	DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"
	DefaultTimeout = 15 * time.Second
)

var (
	seasonPattern = regexp.MustCompile(`^(current|\d{4})$`)
	roundPattern  = regexp.MustCompile(`^(last|\d{1,2})$`)
)

type Config struct {
	BaseURL string
	// Timeout bounds a whole request. Zero waits forever.
	Timeout   time.Duration
	UserAgent string
}

type ErgastAPI struct {
	url       string
	userAgent string
	client    *http.Client
	cache     *cache.Cache
	log       *slog.Logger
}

// NewErgastAPI builds the gateway. A nil cache disables the fallback tier.
func NewErgastAPI(cfg Config, c *cache.Cache, log *slog.Logger) *ErgastAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	if c == nil {
		c = cache.New(nil, "", log)
	}
	return &ErgastAPI{
		url:       cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		cache:     c,
		log:       log,
	}
}

// CheckSeason returns a KindInvalid failure unless season is a four digit
// year or "current".
func CheckSeason(op, season string) error {
	if !seasonPattern.MatchString(season) {
		return fetcherr.Invalid(op, "season %q is neither a year nor \"current\"", season)
	}
	return nil
}

func (erg *ErgastAPI) Cache() *cache.Cache {
	return erg.cache
}

func (erg *ErgastAPI) DriverStandings(ctx context.Context, season string) Outcome[[]models.DriverStandingsItem] {
	return fetchCached(ctx, erg, "driverStandings", cache.DriversKey(season), season+"/driverStandings.json",
		func(data *models.MRData) ([]models.DriverStandingsItem, bool) {
			if data.StandingsTable == nil {
				return nil, false
			}
			if len(data.StandingsTable.StandingsLists) == 0 {
				return nil, true
			}
			return data.StandingsTable.StandingsLists[0].DriverStandings, true
		})
}

func (erg *ErgastAPI) ConstructorStandings(ctx context.Context, season string) Outcome[[]models.ConstructorStandingsItem] {
	return fetchCached(ctx, erg, "constructorStandings", cache.ConstructorsKey(season), season+"/constructorStandings.json",
		func(data *models.MRData) ([]models.ConstructorStandingsItem, bool) {
			if data.StandingsTable == nil {
				return nil, false
			}
			if len(data.StandingsTable.StandingsLists) == 0 {
				return nil, true
			}
			return data.StandingsTable.StandingsLists[0].ConstructorStandings, true
		})
}

func (erg *ErgastAPI) SeasonSchedule(ctx context.Context, season string) Outcome[[]models.Race] {
	return fetchCached(ctx, erg, "schedule", cache.ScheduleKey(season), season+".json",
		func(data *models.MRData) ([]models.Race, bool) {
			if data.RaceTable == nil {
				return nil, false
			}
			return data.RaceTable.Races, true
		})
}

func (erg *ErgastAPI) RaceResults(ctx context.Context, season, round string) Outcome[*models.Race] {
	return erg.fetchRound(ctx, "raceResults", season, round, "results.json")
}

func (erg *ErgastAPI) QualifyingResults(ctx context.Context, season, round string) Outcome[*models.Race] {
	return erg.fetchRound(ctx, "qualifyingResults", season, round, "qualifying.json")
}

func (erg *ErgastAPI) SprintResults(ctx context.Context, season, round string) Outcome[*models.Race] {
	return erg.fetchRound(ctx, "sprintResults", season, round, "sprint.json")
}

func (erg *ErgastAPI) GetDriverStandings(ctx context.Context, season string) []models.DriverStandingsItem {
	return erg.DriverStandings(ctx, season).Value
}

func (erg *ErgastAPI) GetConstructorStandings(ctx context.Context, season string) []models.ConstructorStandingsItem {
	return erg.ConstructorStandings(ctx, season).Value
}

func (erg *ErgastAPI) GetSeasonSchedule(ctx context.Context, season string) []models.Race {
	return erg.SeasonSchedule(ctx, season).Value
}

func (erg *ErgastAPI) GetRaceResults(ctx context.Context, season, round string) *models.Race {
	return erg.RaceResults(ctx, season, round).Value
}

func (erg *ErgastAPI) GetQualifyingResults(ctx context.Context, season, round string) *models.Race {
	return erg.QualifyingResults(ctx, season, round).Value
}

func (erg *ErgastAPI) GetSprintResults(ctx context.Context, season, round string) *models.Race {
	return erg.SprintResults(ctx, season, round).Value
}

// fetchCached runs the write-through / degrade-to-cache policy shared by the
// standings and schedule resources.
func fetchCached[T any](ctx context.Context, erg *ErgastAPI, op string, key cache.Key, path string,
	extract func(*models.MRData) ([]T, bool)) Outcome[[]T] {

	err := CheckSeason(op, key.Season)
	if err == nil {
		var data *models.MRData
		if data, err = erg.getRequest(ctx, op, path); err == nil {
			items, ok := extract(data)
			if ok {
				if items == nil {
					items = []T{}
				}
				erg.cache.Write(ctx, key, items)
				return Outcome[[]T]{Value: items, Source: SourceLive}
			}
			// A reply without its table is partial; keep the snapshot.
			err = fetcherr.Envelope(op, erg.url+"/"+path, errors.New("missing data table"))
		}
	}

	erg.log.Error("Fetch failed, falling back to cache",
		slog.String("op", op),
		slog.String("season", key.Season),
		slog.String("kind", fetcherr.KindOf(err).String()),
		slog.Any("error", err))

	if cached, ok := cache.Lookup[[]T](ctx, erg.cache, key); ok {
		if cached == nil {
			cached = []T{}
		}
		return Outcome[[]T]{Value: cached, Source: SourceCache, Err: err}
	}
	return Outcome[[]T]{Value: []T{}, Source: SourceEmpty, Err: err}
}

func (erg *ErgastAPI) fetchRound(ctx context.Context, op, season, round, resource string) Outcome[*models.Race] {
	err := CheckSeason(op, season)
	switch {
	case err != nil:
	case !roundPattern.MatchString(round):
		err = fetcherr.Invalid(op, "round %q is not a round number", round)
	default:
		path := fmt.Sprintf("%s/%s/%s", season, round, resource)
		var data *models.MRData
		if data, err = erg.getRequest(ctx, op, path); err == nil {
			if data.RaceTable == nil {
				err = fetcherr.Envelope(op, erg.url+"/"+path, errors.New("missing RaceTable"))
				break
			}
			if len(data.RaceTable.Races) == 0 {
				return Outcome[*models.Race]{Source: SourceEmpty, Err: fetcherr.ErrEmptyList}
			}
			race := data.RaceTable.Races[0]
			return Outcome[*models.Race]{Value: &race, Source: SourceLive}
		}
	}

	erg.log.Error("Fetch failed",
		slog.String("op", op),
		slog.String("season", season),
		slog.String("round", round),
		slog.String("kind", fetcherr.KindOf(err).String()),
		slog.Any("error", err))
	return Outcome[*models.Race]{Source: SourceEmpty, Err: err}
}

func (erg *ErgastAPI) getRequest(ctx context.Context, op, path string) (*models.MRData, error) {
	url := erg.url + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fetcherr.Transport(op, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if erg.userAgent != "" {
		req.Header.Set("User-Agent", erg.userAgent)
	}

	start := time.Now()
	resp, err := erg.client.Do(req)
	if err != nil {
		return nil, fetcherr.Transport(op, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fetcherr.Protocol(op, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fetcherr.Transport(op, url, fmt.Errorf("error reading response: %w", err))
	}

	var envelope models.Object
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fetcherr.Envelope(op, url, err)
	}
	if envelope.MRData == nil {
		return nil, fetcherr.Envelope(op, url, errors.New("missing MRData"))
	}

	erg.log.Info("OK get request", slog.String("url", url), slog.Duration("took", time.Since(start)))
	return envelope.MRData, nil
}

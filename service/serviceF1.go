package service

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"racedash/dashboard"
	"racedash/fetcherr"
	"racedash/models"
)

const noDataMessage = "No data published for this period yet. Check again later."

type f1Storage interface {
	GetDriverStandings(ctx context.Context, season string) []models.DriverStandingsItem
	GetConstructorStandings(ctx context.Context, season string) []models.ConstructorStandingsItem
	GetSeasonSchedule(ctx context.Context, season string) []models.Race
	GetRaceResults(ctx context.Context, season, round string) *models.Race
	GetQualifyingResults(ctx context.Context, season, round string) *models.Race
	GetSprintResults(ctx context.Context, season, round string) *models.Race
}

// ServiceF1 renders gateway data as plain-text chat messages.
type ServiceF1 struct {
	storage f1Storage
	loc     *time.Location
}

func NewServiceF1(storage f1Storage, loc *time.Location) *ServiceF1 {
	if loc == nil {
		loc = time.UTC
	}
	return &ServiceF1{storage: storage, loc: loc}
}

func (s *ServiceF1) GetDriverStandingsMessage(ctx context.Context, season string) (string, error) {
	drivers := s.storage.GetDriverStandings(ctx, season)
	if len(drivers) == 0 {
		return noDataMessage, fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("F1 drivers' championship, season %s:\n%s", season, driversToString(drivers)), nil
}

func (s *ServiceF1) GetConstructorStandingsMessage(ctx context.Context, season string) (string, error) {
	constructors := s.storage.GetConstructorStandings(ctx, season)
	if len(constructors) == 0 {
		return noDataMessage, fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("F1 constructors' championship, season %s:\n%s", season, constructorsToString(constructors)), nil
}

func (s *ServiceF1) GetCalendarMessage(ctx context.Context, season string) (string, error) {
	calendar := s.storage.GetSeasonSchedule(ctx, season)
	if len(calendar) == 0 {
		return noDataMessage, fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("F1 calendar, season %s:\n%s", season, s.racesToString(calendar)), nil
}

func (s *ServiceF1) GetNextRaceMessage(ctx context.Context, season string, now time.Time) (string, error) {
	calendar := s.storage.GetSeasonSchedule(ctx, season)
	race, seasonOver := dashboard.NextRace(calendar, now)
	if race == nil {
		return noDataMessage, fetcherr.ErrEmptyList
	}
	if seasonOver {
		return "The season is over!", nil
	}
	return fmt.Sprintf("Next grand prix:\n%s", s.raceFullInfoToString(*race)), nil
}

func (s *ServiceF1) GetCountDaysAfterRaceMessage(ctx context.Context, season string, now time.Time) (string, error) {
	days, ok := dashboard.DaysSinceLastRace(s.storage.GetSeasonSchedule(ctx, season), now)
	if !ok {
		return noDataMessage, fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("Days without F1 - %d :(\n", days), nil
}

// GetRoundCount is the number of rounds on the season calendar.
func (s *ServiceF1) GetRoundCount(ctx context.Context, season string) int {
	return len(s.storage.GetSeasonSchedule(ctx, season))
}

// GetGPInfo finds a grand prix on the season calendar by round number, or
// the most recent one that has started when round is "last".
func (s *ServiceF1) GetGPInfo(ctx context.Context, season, round string, now time.Time) (models.Race, error) {
	calendar := s.storage.GetSeasonSchedule(ctx, season)
	if round == "last" {
		for i := len(calendar) - 1; i >= 0; i-- {
			if dashboard.Completed(calendar[i], now) {
				return calendar[i], nil
			}
		}
		return models.Race{}, fetcherr.ErrEmptyList
	}
	for _, race := range calendar {
		if race.Round == round {
			return race, nil
		}
	}
	return models.Race{}, fetcherr.ErrEmptyList
}

func (s *ServiceF1) GetRaceResultsMessage(ctx context.Context, season, round string) (string, error) {
	race := s.storage.GetRaceResults(ctx, season, round)
	if race == nil || len(race.Results) == 0 {
		return "No results for this race yet. They may appear later :)", fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("Race results, %s:\n%s", race.RaceName, resultsToString(race.Results)), nil
}

func (s *ServiceF1) GetQualifyingResultsMessage(ctx context.Context, season, round string) (string, error) {
	race := s.storage.GetQualifyingResults(ctx, season, round)
	if race == nil || len(race.QualifyingResults) == 0 {
		return "No results for this qualifying yet. They may appear later :)", fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("Qualifying results, %s:\n%s", race.RaceName, qualifyingResultsToString(race.QualifyingResults)), nil
}

func (s *ServiceF1) GetSprintResultsMessage(ctx context.Context, season, round string) (string, error) {
	race := s.storage.GetSprintResults(ctx, season, round)
	if race == nil || len(race.SprintResults) == 0 {
		return "No results for this sprint yet. They may appear later :)", fetcherr.ErrEmptyList
	}
	return fmt.Sprintf("Sprint results, %s:\n%s", race.RaceName, resultsToString(race.SprintResults)), nil
}

func (s *ServiceF1) GetCompareMessage(ctx context.Context, season, idA, idB string) (string, error) {
	cmp, err := dashboard.Compare(s.storage.GetDriverStandings(ctx, season), idA, idB)
	if err != nil {
		return fmt.Sprintf("Cannot compare: %s", err), err
	}

	message := new(strings.Builder)
	fmt.Fprintf(message, "%s vs %s, season %s:\n", cmp.A.Driver.FullName(), cmp.B.Driver.FullName(), season)
	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for _, stat := range cmp.Stats {
		fmt.Fprintf(w, "%s\t%s%s\t%s%s\n", stat.Label, stat.A, mark(stat.Winner == dashboard.WinnerA), stat.B, mark(stat.Winner == dashboard.WinnerB))
	}
	w.Flush()
	return message.String(), nil
}

// ----------------------------------
//
//	helpers
//
// ----------------------------------

func mark(win bool) string {
	if win {
		return " *"
	}
	return ""
}

func driversToString(drivers []models.DriverStandingsItem) string {
	message := new(strings.Builder)
	for _, driver := range drivers {
		message.WriteString(driverToString(driver))
	}
	return message.String()
}

func driverToString(driver models.DriverStandingsItem) string {
	code := driver.Driver.Code
	if code == "" {
		code = driver.Driver.FamilyName
	}
	return fmt.Sprintf("%2s | %-3s - %-3s \n", driver.Position, code, driver.Points)
}

func constructorsToString(constructors []models.ConstructorStandingsItem) string {
	message := new(strings.Builder)
	for _, constructor := range constructors {
		message.WriteString(constructorToString(constructor))
	}
	return message.String()
}

func constructorToString(constructor models.ConstructorStandingsItem) string {
	return fmt.Sprintf("%2s | %s - %-3s \n", constructor.Position, constructor.Constructor.Name, constructor.Points)
}

func (s *ServiceF1) racesToString(races []models.Race) string {
	message := new(strings.Builder)
	for _, race := range races {
		fmt.Fprintf(message, "Round: %s,\nGrand prix: %s,\nDate: %s.\n\n", race.Round, race.RaceName, s.formatSession(race.Date, race.Time))
	}
	return message.String()
}

func resultsToString(results []models.Result) string {
	message := new(strings.Builder)

	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', tabwriter.AlignRight)
	for _, position := range results {
		switch {
		case position.Time == nil:
			fmt.Fprintf(w, "%s |\t%s |\t - %s\n", position.Position, position.Driver.Code, position.Status)
		case position.Points != "" && position.Points != "0":
			fmt.Fprintf(w, "%s |\t%s |\t %s - %s\n", position.Position, position.Driver.Code, position.Time.Time, position.Points)
		default:
			fmt.Fprintf(w, "%s |\t%s |\t %s\n", position.Position, position.Driver.Code, position.Time.Time)
		}
	}

	w.Flush()
	return message.String()
}

func qualifyingResultsToString(results []models.Result) string {
	message := new(strings.Builder)

	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', tabwriter.AlignRight)
	for _, qualPosition := range results {
		switch {
		case qualPosition.Q3 != "":
			fmt.Fprintf(w, "%s |\t%s |\t\n Q1: %s\n Q2: %s\n Q3: %s\n\n", qualPosition.Position, qualPosition.Driver.Code, qualPosition.Q1, qualPosition.Q2, qualPosition.Q3)
		case qualPosition.Q2 != "":
			fmt.Fprintf(w, "%s |\t%s |\t\n Q1: %s\n Q2: %s\n\n", qualPosition.Position, qualPosition.Driver.Code, qualPosition.Q1, qualPosition.Q2)
		default:
			fmt.Fprintf(w, "%s |\t%s |\t\n Q1: %s \n\n", qualPosition.Position, qualPosition.Driver.Code, qualPosition.Q1)
		}
	}

	w.Flush()
	return message.String()
}

func (s *ServiceF1) raceFullInfoToString(race models.Race) string {
	message := new(strings.Builder)
	fmt.Fprintf(message, "Round: %s,\nGrand prix: %s,\nCircuit: %s, %s\nRace: %s,\n\n",
		race.Round, race.RaceName, race.Circuit.CircuitName, race.Circuit.Location.Country, s.formatSession(race.Date, race.Time))

	sessions := []struct {
		name    string
		session *models.Session
	}{
		{"First practice", race.FirstPractice},
		{"Second practice", race.SecondPractice},
		{"Third practice", race.ThirdPractice},
		{"Sprint", race.Sprint},
		{"Qualifying", race.Qualifying},
	}
	for _, sess := range sessions {
		if sess.session == nil || sess.session.Date == "" {
			continue
		}
		fmt.Fprintf(message, "%s: %s\n", sess.name, s.formatSession(sess.session.Date, sess.session.Time))
	}
	return message.String()
}

// formatSession renders an upstream UTC date and time in the service's zone.
func (s *ServiceF1) formatSession(date, clock string) string {
	if clock == "" {
		return date
	}
	t, err := time.Parse("2006-01-02 15:04:05Z", date+" "+clock)
	if err != nil {
		return strings.TrimSpace(date + " " + clock)
	}
	return t.In(s.loc).Format("02 Jan 2006 15:04")
}
